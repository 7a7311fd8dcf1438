package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"legendarios/internal/models"
	"legendarios/internal/service"
	"legendarios/internal/utils"
)

// ParticipantHandler handles participant-related HTTP requests
type ParticipantHandler struct {
	rosterService *service.RosterService
}

// NewParticipantHandler creates a new participant handler
func NewParticipantHandler(rosterService *service.RosterService) *ParticipantHandler {
	return &ParticipantHandler{rosterService: rosterService}
}

type participantRequest struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	BirthDate    string   `json:"birth_date"`
	WeightKg     *float64 `json:"weight_kg"`
	FitnessScore *int     `json:"fitness_score"`
	HealthNotes  string   `json:"health_notes"`
	SeparateFrom string   `json:"separate_from"`
}

type participantResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email,omitempty"`
	BirthDate    string   `json:"birth_date,omitempty"`
	WeightKg     *float64 `json:"weight_kg,omitempty"`
	FitnessScore *int     `json:"fitness_score,omitempty"`
	HealthNotes  string   `json:"health_notes,omitempty"`
	SeparateFrom string   `json:"separate_from,omitempty"`
	WaiverStatus string   `json:"waiver_status"`
	FamilyID     *int64   `json:"family_id,omitempty"`
}

func toParticipantResponse(p *models.Participant) participantResponse {
	resp := participantResponse{
		ID:           p.ID,
		Name:         p.Name,
		Email:        p.Email,
		WeightKg:     p.WeightKg,
		FitnessScore: p.FitnessScore,
		HealthNotes:  p.HealthNotes,
		SeparateFrom: p.SeparateFrom,
		WaiverStatus: p.WaiverStatus,
		FamilyID:     p.FamilyID,
	}
	if !p.BirthDate.IsZero() {
		resp.BirthDate = p.BirthDate.Format("2006-01-02")
	}
	return resp
}

func (req *participantRequest) apply(p *models.Participant) error {
	p.Name = req.Name
	p.Email = req.Email
	p.WeightKg = req.WeightKg
	p.FitnessScore = req.FitnessScore
	p.HealthNotes = req.HealthNotes
	p.SeparateFrom = req.SeparateFrom

	if req.BirthDate == "" {
		p.BirthDate = time.Time{}
		return nil
	}
	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		return utils.ValidationError{Field: "birth_date", Message: "birth date must be YYYY-MM-DD"}
	}
	p.BirthDate = birthDate
	return nil
}

// Register creates a new participant from a JSON body
func (h *ParticipantHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req participantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	var p models.Participant
	if err := req.apply(&p); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	if err := h.rosterService.RegisterParticipant(r.Context(), &p); err != nil {
		var vErr utils.ValidationError
		if errors.As(err, &vErr) {
			respondWithError(w, http.StatusBadRequest, vErr.Error(), "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to register participant", "Error registering participant", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, toParticipantResponse(&p))
}

// List returns the full roster in registration order
func (h *ParticipantHandler) List(w http.ResponseWriter, r *http.Request) {
	roster, err := h.rosterService.ListParticipants()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list participants", "Error listing participants", err)
		return
	}

	responses := make([]participantResponse, 0, len(roster))
	for i := range roster {
		responses = append(responses, toParticipantResponse(&roster[i]))
	}
	respondWithJSON(w, http.StatusOK, responses)
}

// Get returns one participant by ID
func (h *ParticipantHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.rosterService.GetParticipant(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			respondWithError(w, http.StatusNotFound, "Participant not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to get participant", "Error getting participant", err)
		return
	}
	respondWithJSON(w, http.StatusOK, toParticipantResponse(p))
}

// Update replaces a participant's registration details
func (h *ParticipantHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, err := h.rosterService.GetParticipant(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			respondWithError(w, http.StatusNotFound, "Participant not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to get participant", "Error getting participant", err)
		return
	}

	var req participantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	if err := req.apply(p); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	if err := h.rosterService.UpdateParticipant(p); err != nil {
		var vErr utils.ValidationError
		if errors.As(err, &vErr) {
			respondWithError(w, http.StatusBadRequest, vErr.Error(), "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to update participant", "Error updating participant", err)
		return
	}
	respondWithJSON(w, http.StatusOK, toParticipantResponse(p))
}

// Delete removes a participant from the roster
func (h *ParticipantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.rosterService.DeleteParticipant(r.PathValue("id")); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to delete participant", "Error deleting participant", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AcceptWaiver marks a participant's liability waiver as accepted
func (h *ParticipantHandler) AcceptWaiver(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.rosterService.AcceptWaiver(id); err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			respondWithError(w, http.StatusNotFound, "Participant not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to accept waiver", "Error accepting waiver", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{
		"id":            id,
		"waiver_status": models.WaiverAccepted,
	})
}
