package service

import (
	"context"
	"fmt"
	"log"

	"legendarios/internal/models"
	"legendarios/internal/repository"
	"legendarios/internal/utils"
)

// RosterService manages participant registration and waiver tracking.
type RosterService struct {
	participantRepo *repository.ParticipantRepository
	familyRepo      *repository.FamilyRepository
	emailService    *EmailService
}

// NewRosterService creates a new roster service
func NewRosterService(participantRepo *repository.ParticipantRepository, familyRepo *repository.FamilyRepository, emailService *EmailService) *RosterService {
	return &RosterService{
		participantRepo: participantRepo,
		familyRepo:      familyRepo,
		emailService:    emailService,
	}
}

// RegisterParticipant validates and stores a new participant, then sends the
// waiver request email when an address was given. Email failures are logged
// and do not fail the registration.
func (s *RosterService) RegisterParticipant(ctx context.Context, p *models.Participant) error {
	if err := utils.ValidateName(p.Name); err != nil {
		return err
	}
	if p.Email != "" {
		if err := utils.ValidateEmail(p.Email); err != nil {
			return err
		}
	}
	if p.WeightKg != nil {
		if err := utils.ValidateWeight(*p.WeightKg); err != nil {
			return err
		}
	}
	if p.FitnessScore != nil {
		if err := utils.ValidateFitnessScore(*p.FitnessScore); err != nil {
			return err
		}
	}

	if err := s.participantRepo.CreateParticipant(p); err != nil {
		return fmt.Errorf("failed to create participant: %w", err)
	}

	if p.Email != "" {
		if err := s.emailService.SendWaiverRequestEmail(ctx, p.Email, p.Name, p.ID); err != nil {
			log.Printf("Failed to send waiver request email to %s: %v", p.Email, err)
		}
	}
	return nil
}

// GetParticipant retrieves a participant by ID
func (s *RosterService) GetParticipant(id string) (*models.Participant, error) {
	p, err := s.participantRepo.GetParticipantByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	if p == nil {
		return nil, ErrParticipantNotFound
	}
	return p, nil
}

// ListParticipants retrieves the full roster in registration order
func (s *RosterService) ListParticipants() ([]models.Participant, error) {
	roster, err := s.participantRepo.ListParticipants()
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return roster, nil
}

// UpdateParticipant validates and stores changes to an existing participant
func (s *RosterService) UpdateParticipant(p *models.Participant) error {
	if err := utils.ValidateName(p.Name); err != nil {
		return err
	}
	if p.Email != "" {
		if err := utils.ValidateEmail(p.Email); err != nil {
			return err
		}
	}
	if p.WeightKg != nil {
		if err := utils.ValidateWeight(*p.WeightKg); err != nil {
			return err
		}
	}
	if p.FitnessScore != nil {
		if err := utils.ValidateFitnessScore(*p.FitnessScore); err != nil {
			return err
		}
	}

	if err := s.participantRepo.UpdateParticipant(p); err != nil {
		return fmt.Errorf("failed to update participant: %w", err)
	}
	return nil
}

// AcceptWaiver marks a participant's liability waiver as accepted
func (s *RosterService) AcceptWaiver(id string) error {
	p, err := s.GetParticipant(id)
	if err != nil {
		return err
	}
	if p.HasAcceptedWaiver() {
		return nil
	}
	if err := s.participantRepo.SetWaiverStatus(id, models.WaiverAccepted); err != nil {
		return fmt.Errorf("failed to accept waiver: %w", err)
	}
	return nil
}

// DeleteParticipant removes a participant from the roster
func (s *RosterService) DeleteParticipant(id string) error {
	if err := s.participantRepo.DeleteParticipant(id); err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	return nil
}

// NotifyFamilyAssignments emails every distributed participant their family.
// Failures are logged per recipient; the first error is returned after all
// sends were attempted.
func (s *RosterService) NotifyFamilyAssignments(ctx context.Context) error {
	if !s.emailService.IsEnabled() {
		return nil
	}

	families, err := s.familyRepo.ListFamilies()
	if err != nil {
		return fmt.Errorf("failed to list families: %w", err)
	}
	names := make(map[int64]string, len(families))
	for _, family := range families {
		names[family.ID] = family.DisplayName()
	}

	roster, err := s.participantRepo.ListParticipants()
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}

	var firstErr error
	for _, p := range roster {
		if p.Email == "" || p.FamilyID == nil {
			continue
		}
		familyName, ok := names[*p.FamilyID]
		if !ok {
			continue
		}
		if err := s.emailService.SendFamilyAssignmentEmail(ctx, p.Email, p.Name, familyName); err != nil {
			log.Printf("Failed to send family assignment email to %s: %v", p.Email, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
