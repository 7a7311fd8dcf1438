package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"legendarios/internal/engine"
	"legendarios/internal/service"
)

// ZiplineHandler handles zipline pairing HTTP requests
type ZiplineHandler struct {
	ziplineService *service.ZiplineService
}

// NewZiplineHandler creates a new zipline handler
func NewZiplineHandler(ziplineService *service.ZiplineService) *ZiplineHandler {
	return &ZiplineHandler{ziplineService: ziplineService}
}

type generatePairsRequest struct {
	// Pods groups family IDs that descend together. Families left out get
	// a pod of their own.
	Pods [][]int64 `json:"pods"`
	Mode string    `json:"mode"`
}

type pairMemberResponse struct {
	ParticipantID string  `json:"participant_id"`
	Name          string  `json:"name"`
	WeightKg      float64 `json:"weight_kg"`
}

type pairResponse struct {
	PodIndex       int                 `json:"pod_index"`
	FamilyID       int64               `json:"family_id"`
	Sequence       int                 `json:"sequence"`
	First          pairMemberResponse  `json:"first"`
	Second         *pairMemberResponse `json:"second,omitempty"`
	CombinedWeight float64             `json:"combined_weight"`
}

type ineligibleResponse struct {
	ParticipantID string `json:"participant_id"`
	FamilyID      int64  `json:"family_id"`
	Reason        string `json:"reason"`
}

type generatePairsResponse struct {
	RunID           string               `json:"run_id,omitempty"`
	Mode            string               `json:"mode"`
	Pods            [][]int64            `json:"pods"`
	Pairs           []pairResponse       `json:"pairs"`
	Ineligible      []ineligibleResponse `json:"ineligible"`
	SkippedNoWeight []string             `json:"skipped_no_weight"`
	WaiverPending   []string             `json:"waiver_pending"`
}

// GeneratePairs builds a pairing plan for the current roster. Simulation
// runs are not persisted; official runs are stored with their pairs.
func (h *ZiplineHandler) GeneratePairs(w http.ResponseWriter, r *http.Request) {
	var req generatePairsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	mode := engine.Mode(req.Mode)
	if req.Mode == "" {
		mode = engine.ModeSimulation
	}

	persist := mode == engine.ModeOfficial
	plan, runID, err := h.ziplineService.GeneratePlan(req.Pods, mode, persist)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMode) {
			respondWithError(w, http.StatusBadRequest, "mode must be simulation or official", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to generate pairs", "Error generating zipline pairs", err)
		return
	}

	respondWithJSON(w, http.StatusOK, toGeneratePairsResponse(plan, runID, mode))
}

// ListRuns returns stored zipline runs, newest first
func (h *ZiplineHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.ziplineService.ListRuns()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list runs", "Error listing zipline runs", err)
		return
	}
	respondWithJSON(w, http.StatusOK, runs)
}

// GetRunPairs returns the persisted pairs of one run
func (h *ZiplineHandler) GetRunPairs(w http.ResponseWriter, r *http.Request) {
	pairs, err := h.ziplineService.GetRunPairs(r.PathValue("id"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load run pairs", "Error loading run pairs", err)
		return
	}
	respondWithJSON(w, http.StatusOK, pairs)
}

func toGeneratePairsResponse(plan *engine.PairingPlan, runID string, mode engine.Mode) generatePairsResponse {
	resp := generatePairsResponse{
		RunID:           runID,
		Mode:            string(mode),
		Pods:            plan.Pods,
		Pairs:           make([]pairResponse, 0, len(plan.Pairs)),
		Ineligible:      make([]ineligibleResponse, 0, len(plan.Ineligible)),
		SkippedNoWeight: plan.SkippedNoWeight,
		WaiverPending:   plan.WaiverPending,
	}

	for _, pair := range plan.Pairs {
		pr := pairResponse{
			PodIndex: pair.PodIndex,
			FamilyID: pair.FamilyID,
			Sequence: pair.Sequence,
			First: pairMemberResponse{
				ParticipantID: pair.First.ParticipantID,
				Name:          pair.First.Name,
				WeightKg:      pair.First.WeightKg,
			},
			CombinedWeight: pair.CombinedWeight,
		}
		if pair.Second != nil {
			pr.Second = &pairMemberResponse{
				ParticipantID: pair.Second.ParticipantID,
				Name:          pair.Second.Name,
				WeightKg:      pair.Second.WeightKg,
			}
		}
		resp.Pairs = append(resp.Pairs, pr)
	}

	for _, inel := range plan.Ineligible {
		resp.Ineligible = append(resp.Ineligible, ineligibleResponse{
			ParticipantID: inel.ParticipantID,
			FamilyID:      inel.FamilyID,
			Reason:        inel.Reason,
		})
	}
	return resp
}
