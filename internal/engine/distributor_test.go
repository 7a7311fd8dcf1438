package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"legendarios/internal/models"
)

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func bornYearsAgo(years int) time.Time {
	return testNow.AddDate(-years, 0, -1)
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

// plainRoster builds n adult participants with no special attributes.
func plainRoster(n int) []models.Participant {
	roster := make([]models.Participant, n)
	for i := range roster {
		roster[i] = models.Participant{
			ID:        fmt.Sprintf("p%02d", i),
			Name:      fmt.Sprintf("Participante %02d", i),
			BirthDate: bornYearsAgo(25 + i%20),
		}
	}
	return roster
}

func allBucketIDs(buckets [][]string) []string {
	var ids []string
	for _, bucket := range buckets {
		ids = append(ids, bucket...)
	}
	return ids
}

func TestDistributeRejectsInvalidFamilyCount(t *testing.T) {
	_, err := DistributeAt(plainRoster(3), 0, testNow)
	require.Error(t, err)

	_, err = DistributeAt(plainRoster(3), -2, testNow)
	require.Error(t, err)
}

func TestDistributeEmptyRoster(t *testing.T) {
	dist, err := DistributeAt(nil, 4, testNow)
	require.NoError(t, err)
	require.Len(t, dist.Buckets, 4)
	for _, bucket := range dist.Buckets {
		require.Empty(t, bucket)
	}
	require.Empty(t, dist.SeparationPairs)
}

func TestDistributeCompleteness(t *testing.T) {
	for _, familyCount := range []int{1, 2, 3, 7, 20} {
		t.Run(fmt.Sprintf("familyCount=%d", familyCount), func(t *testing.T) {
			roster := plainRoster(13)
			// Mix in the attributes every rule fires on.
			roster[0].BirthDate = bornYearsAgo(72)
			roster[1].HealthNotes = "diabetes"
			roster[2].WeightKg = floatPtr(112)
			roster[3].FitnessScore = intPtr(1)
			roster[4].SeparateFrom = roster[5].Name

			dist, err := DistributeAt(roster, familyCount, testNow)
			require.NoError(t, err)
			require.Len(t, dist.Buckets, familyCount)

			var wantIDs []string
			for _, p := range roster {
				wantIDs = append(wantIDs, p.ID)
			}
			require.ElementsMatch(t, wantIDs, allBucketIDs(dist.Buckets),
				"every participant appears in exactly one bucket")
		})
	}
}

func TestDistributeSeparatesMutualPair(t *testing.T) {
	roster := []models.Participant{
		{ID: "a", Name: "Ana Souza", SeparateFrom: "Bruno Lima", BirthDate: bornYearsAgo(30)},
		{ID: "b", Name: "Bruno Lima", SeparateFrom: "Ana Souza", BirthDate: bornYearsAgo(31)},
	}

	for _, familyCount := range []int{2, 3, 5} {
		dist, err := DistributeAt(roster, familyCount, testNow)
		require.NoError(t, err)
		require.Len(t, dist.SeparationPairs, 1)

		violations := CheckSeparationViolations(dist.Buckets, dist.SeparationPairs)
		require.Empty(t, violations, "pair must land in different buckets for familyCount=%d", familyCount)
	}
}

func TestDistributeSeparationPairHalfCycleApart(t *testing.T) {
	roster := []models.Participant{
		{ID: "a", Name: "Ana Souza", SeparateFrom: "Bruno Lima"},
		{ID: "b", Name: "Bruno Lima"},
	}
	dist, err := DistributeAt(roster, 6, testNow)
	require.NoError(t, err)

	// First member goes to the smallest bucket (index 0), second three away.
	require.Equal(t, []string{"a"}, dist.Buckets[0])
	require.Equal(t, []string{"b"}, dist.Buckets[3])
}

func TestDistributeHealthCapTwoPerBucket(t *testing.T) {
	roster := plainRoster(4)
	for i := range roster {
		roster[i].HealthNotes = "hipertensão"
	}

	dist, err := DistributeAt(roster, 2, testNow)
	require.NoError(t, err)
	require.Len(t, dist.Buckets[0], 2)
	require.Len(t, dist.Buckets[1], 2)
}

func TestDistributeHealthOverflowStillPlaced(t *testing.T) {
	// Five flagged participants, two buckets: the cap admits four, the
	// fifth falls back to the smallest bucket instead of being dropped.
	roster := plainRoster(5)
	for i := range roster {
		roster[i].HealthNotes = "asma"
	}

	dist, err := DistributeAt(roster, 2, testNow)
	require.NoError(t, err)
	require.Len(t, allBucketIDs(dist.Buckets), 5)
}

func TestDistributeHeavyAndLowFitnessCaps(t *testing.T) {
	roster := plainRoster(8)
	for i := 0; i < 4; i++ {
		roster[i].WeightKg = floatPtr(105)
	}
	for i := 4; i < 8; i++ {
		roster[i].FitnessScore = intPtr(2)
	}

	dist, err := DistributeAt(roster, 2, testNow)
	require.NoError(t, err)

	for i, bucket := range dist.Buckets {
		heavy, unfit := 0, 0
		for _, id := range bucket {
			for _, p := range roster {
				if p.ID != id {
					continue
				}
				if isHeavy(&p) {
					heavy++
				}
				if hasLowFitness(&p) {
					unfit++
				}
			}
		}
		require.LessOrEqual(t, heavy, 2, "bucket %d exceeds heavy cap", i)
		require.LessOrEqual(t, unfit, 2, "bucket %d exceeds low-fitness cap", i)
	}
}

func TestDistributeRemainderBalanced(t *testing.T) {
	dist, err := DistributeAt(plainRoster(10), 3, testNow)
	require.NoError(t, err)

	smallest, largest := len(dist.Buckets[0]), len(dist.Buckets[0])
	for _, bucket := range dist.Buckets {
		if len(bucket) < smallest {
			smallest = len(bucket)
		}
		if len(bucket) > largest {
			largest = len(bucket)
		}
	}
	require.LessOrEqual(t, largest-smallest, 1,
		"smallest-bucket placement keeps plain rosters within one of each other")
}

func TestDistributeIdempotent(t *testing.T) {
	roster := plainRoster(12)
	roster[0].SeparateFrom = roster[7].Name
	roster[3].HealthNotes = "alergia severa"
	roster[5].WeightKg = floatPtr(103)

	first, err := DistributeAt(roster, 4, testNow)
	require.NoError(t, err)
	second, err := DistributeAt(roster, 4, testNow)
	require.NoError(t, err)

	require.Equal(t, first.Buckets, second.Buckets)
	require.Equal(t, first.SeparationPairs, second.SeparationPairs)
}

func TestDistributeMissingBirthDateTreatedAsYoung(t *testing.T) {
	roster := []models.Participant{
		{ID: "old", Name: "Mais Velho", BirthDate: bornYearsAgo(50)},
		{ID: "unknown", Name: "Sem Data"},
		{ID: "young", Name: "Mais Novo", BirthDate: bornYearsAgo(20)},
	}
	dist, err := DistributeAt(roster, 1, testNow)
	require.NoError(t, err)

	// Remainder rule orders by descending age; age 0 sorts last.
	require.Equal(t, []string{"old", "young", "unknown"}, dist.Buckets[0])
}

func TestCheckSeparationViolations(t *testing.T) {
	buckets := [][]string{
		{"a", "b", "c"},
		{"d", "e"},
	}
	pairs := [][2]string{
		{"a", "b"}, // together in bucket 0
		{"c", "d"}, // separated
		{"d", "e"}, // together in bucket 1
		{"a", "x"}, // unknown member ignored
	}

	violations := CheckSeparationViolations(buckets, pairs)
	require.Len(t, violations, 2)
	require.Equal(t, [][2]string{{"a", "b"}}, violations[0])
	require.Equal(t, [][2]string{{"d", "e"}}, violations[1])
}
