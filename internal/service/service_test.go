package service

import (
	"testing"

	"legendarios/internal/engine"
	"legendarios/internal/models"
)

func TestBucketAssignments(t *testing.T) {
	families := []models.Family{
		{ID: 10, Number: 1},
		{ID: 11, Number: 2},
		{ID: 12, Number: 3},
	}

	tests := []struct {
		name     string
		buckets  [][]string
		expected map[string]int64
	}{
		{
			name:     "empty buckets",
			buckets:  [][]string{{}, {}, {}},
			expected: map[string]int64{},
		},
		{
			name:    "each bucket maps to family at same index",
			buckets: [][]string{{"a", "b"}, {"c"}, {"d"}},
			expected: map[string]int64{
				"a": 10, "b": 10, "c": 11, "d": 12,
			},
		},
		{
			name:     "extra buckets beyond families are ignored",
			buckets:  [][]string{{"a"}, {"b"}, {"c"}, {"d"}},
			expected: map[string]int64{"a": 10, "b": 11, "c": 12},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := bucketAssignments(tt.buckets, families)
			if len(result) != len(tt.expected) {
				t.Fatalf("length mismatch: got %d, want %d", len(result), len(tt.expected))
			}
			for id, familyID := range tt.expected {
				if result[id] != familyID {
					t.Errorf("participant %s: got family %d, want %d", id, result[id], familyID)
				}
			}
		})
	}
}

func TestAcceptedWaivers(t *testing.T) {
	roster := []models.Participant{
		{ID: "a", WaiverStatus: models.WaiverAccepted},
		{ID: "b", WaiverStatus: models.WaiverPending},
		{ID: "c"},
		{ID: "d", WaiverStatus: models.WaiverAccepted},
	}

	accepted := acceptedWaivers(roster)
	if len(accepted) != 2 {
		t.Fatalf("expected 2 accepted waivers, got %d", len(accepted))
	}
	if !accepted["a"] || !accepted["d"] {
		t.Errorf("expected a and d accepted, got %v", accepted)
	}
}

func TestRunPairs(t *testing.T) {
	second := engine.PairMember{ParticipantID: "p2", Name: "Bia", WeightKg: 60}
	plan := &engine.PairingPlan{
		Pairs: []engine.Pair{
			{
				PodIndex:       0,
				FamilyID:       1,
				Sequence:       1,
				First:          engine.PairMember{ParticipantID: "p1", Name: "Ana", WeightKg: 70},
				Second:         &second,
				CombinedWeight: 130,
			},
			{
				PodIndex:       0,
				FamilyID:       1,
				Sequence:       2,
				First:          engine.PairMember{ParticipantID: "p3", Name: "Caio", WeightKg: 80},
				CombinedWeight: 80,
			},
		},
	}

	rows := runPairs(plan)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	pair := rows[0]
	if pair.FirstID != "p1" || pair.SecondID == nil || *pair.SecondID != "p2" {
		t.Errorf("unexpected pair row: %+v", pair)
	}
	if pair.CombinedWeight != 130 {
		t.Errorf("expected combined weight 130, got %v", pair.CombinedWeight)
	}

	solo := rows[1]
	if solo.SecondID != nil || solo.SecondWeight != nil {
		t.Errorf("solo row should have nil second: %+v", solo)
	}
	if solo.FirstWeight != 80 {
		t.Errorf("expected first weight 80, got %v", solo.FirstWeight)
	}
}
