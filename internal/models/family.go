package models

import (
	"fmt"
	"time"
)

// Family represents one of the numbered family groups participants are
// distributed into for an event.
type Family struct {
	ID        int64
	Number    int
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName returns the family name, falling back to "Família N".
func (f *Family) DisplayName() string {
	if f.Name != "" {
		return f.Name
	}
	return fmt.Sprintf("Família %d", f.Number)
}

// FamilyWithMembers combines a family with its assigned participants.
type FamilyWithMembers struct {
	Family  Family
	Members []Participant
}
