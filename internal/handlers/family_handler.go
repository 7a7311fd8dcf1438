package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"legendarios/internal/models"
	"legendarios/internal/service"
)

// FamilyHandler handles family and distribution HTTP requests
type FamilyHandler struct {
	distributionService *service.DistributionService
	rosterService       *service.RosterService
}

// NewFamilyHandler creates a new family handler
func NewFamilyHandler(distributionService *service.DistributionService, rosterService *service.RosterService) *FamilyHandler {
	return &FamilyHandler{
		distributionService: distributionService,
		rosterService:       rosterService,
	}
}

type familyResponse struct {
	ID      int64                 `json:"id"`
	Number  int                   `json:"number"`
	Name    string                `json:"name"`
	Members []participantResponse `json:"members"`
}

type distributeRequest struct {
	FamilyCount int  `json:"family_count"`
	Notify      bool `json:"notify"`
}

type distributeResponse struct {
	Families        []familyResponse      `json:"families"`
	SeparationPairs [][2]string           `json:"separation_pairs"`
	Violations      map[int64][][2]string `json:"violations"`
}

func toFamilyResponse(fwm models.FamilyWithMembers) familyResponse {
	resp := familyResponse{
		ID:      fwm.Family.ID,
		Number:  fwm.Family.Number,
		Name:    fwm.Family.DisplayName(),
		Members: make([]participantResponse, 0, len(fwm.Members)),
	}
	for i := range fwm.Members {
		resp.Members = append(resp.Members, toParticipantResponse(&fwm.Members[i]))
	}
	return resp
}

// List returns every family with its assigned members
func (h *FamilyHandler) List(w http.ResponseWriter, r *http.Request) {
	families, err := h.distributionService.ListFamiliesWithMembers()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list families", "Error listing families", err)
		return
	}

	responses := make([]familyResponse, 0, len(families))
	for _, fwm := range families {
		responses = append(responses, toFamilyResponse(fwm))
	}
	respondWithJSON(w, http.StatusOK, responses)
}

// Distribute runs the family distribution over the current roster and
// persists the assignments. With notify set, assignment emails go out after
// the run.
func (h *FamilyHandler) Distribute(w http.ResponseWriter, r *http.Request) {
	var req distributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	report, err := h.distributionService.Distribute(req.FamilyCount)
	if err != nil {
		if errors.Is(err, service.ErrInvalidFamilyCount) {
			respondWithError(w, http.StatusBadRequest, "family_count must be at least 1", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to distribute families", "Error distributing families", err)
		return
	}

	if req.Notify {
		if err := h.rosterService.NotifyFamilyAssignments(r.Context()); err != nil {
			// Assignments are already saved, so report success anyway
			respondWithError(w, http.StatusInternalServerError, "Distribution saved but notifications failed", "Error sending assignment emails", err)
			return
		}
	}

	resp := distributeResponse{
		SeparationPairs: report.SeparationPairs,
		Violations:      report.Violations,
		Families:        make([]familyResponse, 0, len(report.Families)),
	}
	for _, fwm := range report.Families {
		resp.Families = append(resp.Families, toFamilyResponse(fwm))
	}
	respondWithJSON(w, http.StatusOK, resp)
}

type renameFamilyRequest struct {
	Name string `json:"name"`
}

// Rename sets a family's display name
func (h *FamilyHandler) Rename(w http.ResponseWriter, r *http.Request) {
	familyID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid family ID", "", nil)
		return
	}

	var req renameFamilyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	family, err := h.distributionService.RenameFamily(familyID, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrFamilyNotFound) {
			respondWithError(w, http.StatusNotFound, "Family not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to rename family", "Error renaming family", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"id":     family.ID,
		"number": family.Number,
		"name":   family.DisplayName(),
	})
}

// Delete removes a family; its members become undistributed
func (h *FamilyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	familyID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid family ID", "", nil)
		return
	}

	if err := h.distributionService.DeleteFamily(familyID); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to delete family", "Error deleting family", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Violations reports separation pairs currently sharing a family
func (h *FamilyHandler) Violations(w http.ResponseWriter, r *http.Request) {
	violations, err := h.distributionService.CheckViolations()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to check violations", "Error checking violations", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"violations": violations})
}
