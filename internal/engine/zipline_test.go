package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"legendarios/internal/models"
)

func int64Ptr(v int64) *int64 { return &v }

// podRoster builds participants with the given weights, all in one family.
func podRoster(familyID int64, weights ...float64) []models.Participant {
	roster := make([]models.Participant, len(weights))
	for i, w := range weights {
		weight := w
		roster[i] = models.Participant{
			ID:       fmt.Sprintf("f%d-p%02d", familyID, i),
			Name:     fmt.Sprintf("Participante %d-%02d", familyID, i),
			WeightKg: &weight,
			FamilyID: int64Ptr(familyID),
		}
	}
	return roster
}

func pairedIDs(plan *PairingPlan) []string {
	var ids []string
	for _, pair := range plan.Pairs {
		ids = append(ids, pair.First.ParticipantID)
		if pair.Second != nil {
			ids = append(ids, pair.Second.ParticipantID)
		}
	}
	return ids
}

func TestGeneratePairsNaiveTwoPointer(t *testing.T) {
	families := []models.Family{{ID: 1, Number: 1}}
	roster := podRoster(1, 60, 64, 65, 61)

	plan := GeneratePairs(families, roster, nil, ModeSimulation, nil)
	require.Len(t, plan.Pairs, 2)
	require.Empty(t, plan.Ineligible)

	for _, pair := range plan.Pairs {
		require.NotNil(t, pair.Second)
		require.LessOrEqual(t, pair.CombinedWeight, MaxPairWeightKg)
	}

	// Heaviest with lightest: 65+60, then 64+61.
	require.InDelta(t, 125, plan.Pairs[0].CombinedWeight, 0.01)
	require.InDelta(t, 125, plan.Pairs[1].CombinedWeight, 0.01)
	require.Equal(t, 1, plan.Pairs[0].Sequence)
	require.Equal(t, 2, plan.Pairs[1].Sequence)
}

func TestGeneratePairsRebalanceOnOverLimitPair(t *testing.T) {
	families := []models.Family{{ID: 1, Number: 1}}
	// Naive pairing gives 90+5=95 and 90+90=180, which triggers the greedy rerun.
	roster := podRoster(1, 90, 90, 90, 5)

	plan := GeneratePairs(families, roster, nil, ModeSimulation, nil)

	twoMember := 0
	for _, pair := range plan.Pairs {
		if pair.Second != nil {
			twoMember++
			require.LessOrEqual(t, pair.CombinedWeight, MaxPairWeightKg,
				"no two-member pair may exceed the pair limit")
		}
	}
	require.Equal(t, 1, twoMember)
	require.Len(t, plan.Pairs, 3, "one pair plus two solos")
	require.ElementsMatch(t, []string{"f1-p00", "f1-p01", "f1-p02", "f1-p03"}, pairedIDs(plan))

	// Solos follow the successful pairs and sequences restart at 1.
	require.NotNil(t, plan.Pairs[0].Second)
	require.Nil(t, plan.Pairs[1].Second)
	require.Nil(t, plan.Pairs[2].Second)
	for i, pair := range plan.Pairs {
		require.Equal(t, i+1, pair.Sequence)
	}
}

func TestGeneratePairsOverIndividualLimit(t *testing.T) {
	families := []models.Family{{ID: 1, Number: 1}}
	roster := podRoster(1, 70, 125, 72)
	roster[1].WaiverStatus = models.WaiverAccepted

	for _, mode := range []Mode{ModeSimulation, ModeOfficial} {
		t.Run(string(mode), func(t *testing.T) {
			waivers := map[string]bool{
				roster[0].ID: true,
				roster[1].ID: true,
				roster[2].ID: true,
			}
			plan := GeneratePairs(families, roster, nil, mode, waivers)

			require.NotContains(t, pairedIDs(plan), "f1-p01")
			require.Len(t, plan.Ineligible, 1)
			require.Equal(t, "f1-p01", plan.Ineligible[0].ParticipantID)
			require.Equal(t, int64(1), plan.Ineligible[0].FamilyID)
			require.Equal(t, ReasonOverIndividualLimit, plan.Ineligible[0].Reason)
		})
	}
}

func TestGeneratePairsOfficialModeWaiverGating(t *testing.T) {
	families := []models.Family{{ID: 1, Number: 1}}
	roster := podRoster(1, 70, 75)

	official := GeneratePairs(families, roster, nil, ModeOfficial, map[string]bool{"f1-p00": true})
	require.NotContains(t, pairedIDs(official), "f1-p01")
	require.Empty(t, official.Ineligible, "a pending waiver is not an eligibility error")
	require.Equal(t, []string{"f1-p01"}, official.WaiverPending)

	simulation := GeneratePairs(families, roster, nil, ModeSimulation, nil)
	require.Contains(t, pairedIDs(simulation), "f1-p01")
	require.Empty(t, simulation.WaiverPending)
}

func TestGeneratePairsOddCountProducesSolo(t *testing.T) {
	families := []models.Family{{ID: 1, Number: 1}}
	plan := GeneratePairs(families, podRoster(1, 80, 75, 70, 65, 60), nil, ModeSimulation, nil)

	pairs, solos := 0, 0
	for _, pair := range plan.Pairs {
		if pair.Second != nil {
			pairs++
		} else {
			solos++
		}
	}
	require.Equal(t, 2, pairs)
	require.Equal(t, 1, solos)

	// The middle weight is the one left over.
	require.Nil(t, plan.Pairs[2].Second)
	require.InDelta(t, 70, plan.Pairs[2].First.WeightKg, 0.01)
}

func TestGeneratePairsSkipsMissingWeight(t *testing.T) {
	families := []models.Family{{ID: 1, Number: 1}}
	roster := podRoster(1, 70, 75)
	roster = append(roster, models.Participant{
		ID:       "f1-noweight",
		Name:     "Sem Pesagem",
		FamilyID: int64Ptr(1),
	})

	plan := GeneratePairs(families, roster, nil, ModeSimulation, nil)
	require.NotContains(t, pairedIDs(plan), "f1-noweight")
	require.Empty(t, plan.Ineligible)
	require.Equal(t, []string{"f1-noweight"}, plan.SkippedNoWeight)
}

func TestGeneratePairsPodNormalization(t *testing.T) {
	families := []models.Family{{ID: 1, Number: 1}, {ID: 2, Number: 2}, {ID: 3, Number: 3}}

	t.Run("default is one pod per family", func(t *testing.T) {
		plan := GeneratePairs(families, nil, nil, ModeSimulation, nil)
		require.Equal(t, [][]int64{{1}, {2}, {3}}, plan.Pods)
	})

	t.Run("duplicates keep first occurrence, leftovers become singletons", func(t *testing.T) {
		plan := GeneratePairs(families, nil, [][]int64{{1, 2}, {2, 1}}, ModeSimulation, nil)
		require.Equal(t, [][]int64{{1, 2}, {3}}, plan.Pods)
	})
}

func TestGeneratePairsGlobalExclusivityAcrossPods(t *testing.T) {
	families := []models.Family{{ID: 1, Number: 1}, {ID: 2, Number: 2}, {ID: 3, Number: 3}}
	roster := podRoster(1, 70, 75, 80)
	roster = append(roster, podRoster(2, 66, 71)...)
	roster = append(roster, podRoster(3, 90, 95)...)

	plan := GeneratePairs(families, roster, [][]int64{{1, 2}}, ModeSimulation, nil)
	require.Len(t, plan.Pods, 2)

	ids := pairedIDs(plan)
	seen := make(map[string]bool)
	for _, id := range ids {
		require.False(t, seen[id], "participant %s placed more than once", id)
		seen[id] = true
	}
	require.Len(t, ids, 7, "no participant dropped")
}

func TestGeneratePairsEmptyPod(t *testing.T) {
	families := []models.Family{{ID: 1, Number: 1}, {ID: 2, Number: 2}}
	roster := podRoster(1, 70, 75)

	plan := GeneratePairs(families, roster, nil, ModeSimulation, nil)

	// Family 2 has no participants: its pod simply contributes nothing.
	require.Len(t, plan.Pairs, 1)
	require.Equal(t, int64(1), plan.Pairs[0].FamilyID)
	require.Empty(t, plan.Ineligible)
}

func TestGeneratePairsUnassignedParticipantsIgnored(t *testing.T) {
	families := []models.Family{{ID: 1, Number: 1}}
	roster := podRoster(1, 70, 75)
	roster = append(roster, models.Participant{
		ID:       "loose",
		Name:     "Sem Família",
		WeightKg: floatPtr(68),
	})

	plan := GeneratePairs(families, roster, nil, ModeSimulation, nil)
	require.NotContains(t, pairedIDs(plan), "loose")
}
