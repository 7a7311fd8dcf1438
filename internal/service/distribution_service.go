package service

import (
	"errors"
	"fmt"

	"legendarios/internal/engine"
	"legendarios/internal/models"
	"legendarios/internal/repository"
)

var (
	ErrInvalidFamilyCount  = errors.New("family count must be at least 1")
	ErrFamilyNotFound      = errors.New("family not found")
	ErrParticipantNotFound = errors.New("participant not found")
)

// DistributionService orchestrates family distribution runs: it fetches the
// roster, runs the engine, and persists the resulting assignments.
type DistributionService struct {
	participantRepo *repository.ParticipantRepository
	familyRepo      *repository.FamilyRepository
}

// NewDistributionService creates a new distribution service
func NewDistributionService(participantRepo *repository.ParticipantRepository, familyRepo *repository.FamilyRepository) *DistributionService {
	return &DistributionService{
		participantRepo: participantRepo,
		familyRepo:      familyRepo,
	}
}

// DistributionReport is the outcome of one distribution run.
type DistributionReport struct {
	Families        []models.FamilyWithMembers
	SeparationPairs [][2]string

	// Violations lists separation pairs that still share a family,
	// keyed by family ID. Advisory only; the assignment stands.
	Violations map[int64][][2]string
}

// Distribute runs the full distribution flow for the current roster and
// persists every participant's family assignment in one transaction.
func (s *DistributionService) Distribute(familyCount int) (*DistributionReport, error) {
	if familyCount < 1 {
		return nil, ErrInvalidFamilyCount
	}

	roster, err := s.participantRepo.ListParticipants()
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	dist, err := engine.Distribute(roster, familyCount)
	if err != nil {
		return nil, fmt.Errorf("distribution failed: %w", err)
	}

	families, err := s.ensureFamilies(familyCount)
	if err != nil {
		return nil, err
	}

	assignments := bucketAssignments(dist.Buckets, families)
	if err := s.participantRepo.SaveFamilyAssignments(assignments); err != nil {
		return nil, fmt.Errorf("failed to save assignments: %w", err)
	}

	return buildReport(dist, roster, families), nil
}

// CheckViolations re-derives separation pairs from the current roster and
// reports every pair still sharing a family, for manual review.
func (s *DistributionService) CheckViolations() (map[int64][][2]string, error) {
	roster, err := s.participantRepo.ListParticipants()
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	pairs := engine.SeparationPairs(roster)
	familyOf := make(map[string]int64, len(roster))
	for _, p := range roster {
		if p.FamilyID != nil {
			familyOf[p.ID] = *p.FamilyID
		}
	}

	violations := make(map[int64][][2]string)
	for _, pair := range pairs {
		first, okFirst := familyOf[pair[0]]
		second, okSecond := familyOf[pair[1]]
		if okFirst && okSecond && first == second {
			violations[first] = append(violations[first], pair)
		}
	}
	return violations, nil
}

// ListFamiliesWithMembers retrieves every family with its assigned participants
func (s *DistributionService) ListFamiliesWithMembers() ([]models.FamilyWithMembers, error) {
	families, err := s.familyRepo.ListFamilies()
	if err != nil {
		return nil, fmt.Errorf("failed to list families: %w", err)
	}

	result := make([]models.FamilyWithMembers, 0, len(families))
	for _, family := range families {
		members, err := s.participantRepo.ListFamilyParticipants(family.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list members of family %d: %w", family.ID, err)
		}
		result = append(result, models.FamilyWithMembers{Family: family, Members: members})
	}
	return result, nil
}

// RenameFamily sets a family's display name
func (s *DistributionService) RenameFamily(familyID int64, name string) (*models.Family, error) {
	family, err := s.familyRepo.GetFamilyByID(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	if family == nil {
		return nil, ErrFamilyNotFound
	}

	if err := s.familyRepo.UpdateFamily(familyID, name); err != nil {
		return nil, fmt.Errorf("failed to rename family: %w", err)
	}
	family.Name = name
	return family, nil
}

// DeleteFamily removes a family; its members become undistributed
func (s *DistributionService) DeleteFamily(familyID int64) error {
	if err := s.familyRepo.DeleteFamily(familyID); err != nil {
		return fmt.Errorf("failed to delete family: %w", err)
	}
	return nil
}

// ensureFamilies returns the first familyCount families ordered by number,
// creating numbered records when fewer exist.
func (s *DistributionService) ensureFamilies(familyCount int) ([]models.Family, error) {
	families, err := s.familyRepo.ListFamilies()
	if err != nil {
		return nil, fmt.Errorf("failed to list families: %w", err)
	}

	for number := len(families) + 1; number <= familyCount; number++ {
		family, err := s.familyRepo.CreateFamily(number, "")
		if err != nil {
			return nil, fmt.Errorf("failed to create family %d: %w", number, err)
		}
		families = append(families, *family)
	}

	return families[:familyCount], nil
}

// bucketAssignments maps each participant of each bucket to the family at
// the same index.
func bucketAssignments(buckets [][]string, families []models.Family) map[string]int64 {
	assignments := make(map[string]int64)
	for i, bucket := range buckets {
		if i >= len(families) {
			break
		}
		for _, participantID := range bucket {
			assignments[participantID] = families[i].ID
		}
	}
	return assignments
}

func buildReport(dist *engine.Distribution, roster []models.Participant, families []models.Family) *DistributionReport {
	byID := make(map[string]models.Participant, len(roster))
	for _, p := range roster {
		byID[p.ID] = p
	}

	report := &DistributionReport{
		SeparationPairs: dist.SeparationPairs,
		Violations:      make(map[int64][][2]string),
	}
	for i, bucket := range dist.Buckets {
		fwm := models.FamilyWithMembers{Family: families[i]}
		for _, participantID := range bucket {
			if p, ok := byID[participantID]; ok {
				familyID := families[i].ID
				p.FamilyID = &familyID
				fwm.Members = append(fwm.Members, p)
			}
		}
		report.Families = append(report.Families, fwm)
	}

	for bucket, pairs := range engine.CheckSeparationViolations(dist.Buckets, dist.SeparationPairs) {
		report.Violations[families[bucket].ID] = pairs
	}
	return report
}
