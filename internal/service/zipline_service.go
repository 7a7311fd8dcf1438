package service

import (
	"errors"
	"fmt"

	"legendarios/internal/engine"
	"legendarios/internal/models"
	"legendarios/internal/repository"
)

var ErrInvalidMode = errors.New("mode must be simulation or official")

// ZiplineService builds zipline pairing plans from the current roster and
// optionally persists official runs.
type ZiplineService struct {
	participantRepo *repository.ParticipantRepository
	familyRepo      *repository.FamilyRepository
	ziplineRepo     *repository.ZiplineRepository
}

// NewZiplineService creates a new zipline service
func NewZiplineService(participantRepo *repository.ParticipantRepository, familyRepo *repository.FamilyRepository, ziplineRepo *repository.ZiplineRepository) *ZiplineService {
	return &ZiplineService{
		participantRepo: participantRepo,
		familyRepo:      familyRepo,
		ziplineRepo:     ziplineRepo,
	}
}

// GeneratePlan runs the pairing engine over the current roster. Pods group
// family IDs that ride together; families left out of every pod get a pod of
// their own. When persist is set the run and its pairs are stored, and the
// run ID is returned alongside the plan.
func (s *ZiplineService) GeneratePlan(pods [][]int64, mode engine.Mode, persist bool) (*engine.PairingPlan, string, error) {
	if mode != engine.ModeSimulation && mode != engine.ModeOfficial {
		return nil, "", ErrInvalidMode
	}

	families, err := s.familyRepo.ListFamilies()
	if err != nil {
		return nil, "", fmt.Errorf("failed to list families: %w", err)
	}
	roster, err := s.participantRepo.ListParticipants()
	if err != nil {
		return nil, "", fmt.Errorf("failed to load roster: %w", err)
	}

	plan := engine.GeneratePairs(families, roster, pods, mode, acceptedWaivers(roster))
	if !persist {
		return plan, "", nil
	}

	run := &models.ZiplineRun{Mode: string(mode)}
	if err := s.ziplineRepo.SaveRun(run, runPairs(plan)); err != nil {
		return nil, "", fmt.Errorf("failed to save zipline run: %w", err)
	}
	return plan, run.ID, nil
}

// ListRuns retrieves stored zipline runs, newest first
func (s *ZiplineService) ListRuns() ([]models.ZiplineRun, error) {
	runs, err := s.ziplineRepo.ListRuns()
	if err != nil {
		return nil, fmt.Errorf("failed to list zipline runs: %w", err)
	}
	return runs, nil
}

// GetRunPairs retrieves the persisted pairs of one run
func (s *ZiplineService) GetRunPairs(runID string) ([]models.ZiplineRunPair, error) {
	pairs, err := s.ziplineRepo.GetRunPairs(runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load run pairs: %w", err)
	}
	return pairs, nil
}

func acceptedWaivers(roster []models.Participant) map[string]bool {
	accepted := make(map[string]bool)
	for _, p := range roster {
		if p.HasAcceptedWaiver() {
			accepted[p.ID] = true
		}
	}
	return accepted
}

// runPairs flattens a plan's pairs into persistable rows.
func runPairs(plan *engine.PairingPlan) []models.ZiplineRunPair {
	rows := make([]models.ZiplineRunPair, 0, len(plan.Pairs))
	for _, pair := range plan.Pairs {
		row := models.ZiplineRunPair{
			PodIndex:       pair.PodIndex,
			FamilyID:       pair.FamilyID,
			Sequence:       pair.Sequence,
			FirstID:        pair.First.ParticipantID,
			FirstWeight:    pair.First.WeightKg,
			CombinedWeight: pair.CombinedWeight,
		}
		if pair.Second != nil {
			secondID := pair.Second.ParticipantID
			secondWeight := pair.Second.WeightKg
			row.SecondID = &secondID
			row.SecondWeight = &secondWeight
		}
		rows = append(rows, row)
	}
	return rows
}
