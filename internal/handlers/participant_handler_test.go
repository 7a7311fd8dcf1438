package handlers

import (
	"testing"
	"time"

	"legendarios/internal/models"
)

func TestParticipantRequestApply(t *testing.T) {
	weight := 82.5
	fitness := 3

	tests := []struct {
		name    string
		req     participantRequest
		wantErr bool
		check   func(t *testing.T, p *models.Participant)
	}{
		{
			name: "full request",
			req: participantRequest{
				Name:         "Ana Souza",
				Email:        "ana@example.com",
				BirthDate:    "1990-06-15",
				WeightKg:     &weight,
				FitnessScore: &fitness,
				HealthNotes:  "asma",
				SeparateFrom: "Bruno Lima",
			},
			check: func(t *testing.T, p *models.Participant) {
				if p.BirthDate != time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC) {
					t.Errorf("unexpected birth date: %v", p.BirthDate)
				}
				if p.WeightKg == nil || *p.WeightKg != 82.5 {
					t.Errorf("unexpected weight: %v", p.WeightKg)
				}
			},
		},
		{
			name: "empty birth date clears the field",
			req:  participantRequest{Name: "Ana"},
			check: func(t *testing.T, p *models.Participant) {
				if !p.BirthDate.IsZero() {
					t.Errorf("expected zero birth date, got %v", p.BirthDate)
				}
			},
		},
		{
			name:    "malformed birth date",
			req:     participantRequest{Name: "Ana", BirthDate: "15/06/1990"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p models.Participant
			err := tt.req.apply(&p)
			if (err != nil) != tt.wantErr {
				t.Fatalf("apply() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && err == nil {
				tt.check(t, &p)
			}
		})
	}
}

func TestToParticipantResponseFormatsBirthDate(t *testing.T) {
	p := models.Participant{
		ID:           "p1",
		Name:         "Ana",
		BirthDate:    time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC),
		WaiverStatus: models.WaiverPending,
	}

	resp := toParticipantResponse(&p)
	if resp.BirthDate != "1990-06-15" {
		t.Errorf("expected 1990-06-15, got %q", resp.BirthDate)
	}

	p.BirthDate = time.Time{}
	resp = toParticipantResponse(&p)
	if resp.BirthDate != "" {
		t.Errorf("expected empty birth date, got %q", resp.BirthDate)
	}
}
