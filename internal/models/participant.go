package models

import "time"

// Waiver status values for a participant's liability waiver.
const (
	WaiverPending  = "pending"
	WaiverAccepted = "accepted"
)

// Participant represents one registered participant of a Legendários TOP event.
type Participant struct {
	// ID is the unique identifier for the participant (UUID format).
	ID string

	// Name is the participant's full name as registered.
	Name string

	// Email is optional and only used for notifications.
	Email string

	// BirthDate is the participant's date of birth. A zero value means
	// the date was never recorded; age is treated as 0 in that case.
	BirthDate time.Time

	// WeightKg is the participant's weight in kilograms, nil when not recorded.
	WeightKg *float64

	// FitnessScore is a self-reported conditioning score (1-5), nil when not recorded.
	FitnessScore *int

	// HealthNotes holds free-text health condition notes.
	HealthNotes string

	// SeparateFrom is a free-text, comma or semicolon separated list of names
	// of people this participant must not share a family with. Matching is
	// case and diacritic insensitive.
	SeparateFrom string

	// WaiverStatus is WaiverPending until the participant signs the
	// liability waiver required for the zipline.
	WaiverStatus string

	// FamilyID is the assigned family, nil while undistributed.
	FamilyID *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Age returns the participant's age in whole years at the given time,
// decremented when the birthday has not yet occurred that year.
// A zero birth date yields 0.
func (p *Participant) Age(now time.Time) int {
	if p.BirthDate.IsZero() {
		return 0
	}
	years := now.Year() - p.BirthDate.Year()
	if now.Month() < p.BirthDate.Month() ||
		(now.Month() == p.BirthDate.Month() && now.Day() < p.BirthDate.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// HasAcceptedWaiver reports whether the participant signed the liability waiver.
func (p *Participant) HasAcceptedWaiver() bool {
	return p.WaiverStatus == WaiverAccepted
}
