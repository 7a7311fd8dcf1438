package engine

import (
	"sort"

	"legendarios/internal/models"
)

// Zipline weight limits in kilograms.
const (
	MaxPairWeightKg       = 170.0
	MaxIndividualWeightKg = 120.0
)

// ReasonOverIndividualLimit is the ineligibility reason for participants
// above the individual weight limit.
const ReasonOverIndividualLimit = "exceeds individual weight limit of 120kg"

// Mode selects how strictly the pair generator filters participants.
type Mode string

const (
	// ModeSimulation pairs everyone with a valid weight, waiver or not.
	ModeSimulation Mode = "simulation"
	// ModeOfficial only pairs participants whose liability waiver was accepted.
	ModeOfficial Mode = "official"
)

// PairMember is one participant's slot in a zipline pair.
type PairMember struct {
	ParticipantID string
	Name          string
	WeightKg      float64
}

// Pair is one zipline descent: a weight-balanced pair, or a leftover solo
// when Second is nil.
type Pair struct {
	PodIndex int
	// FamilyID is the representative family of the pod, for display.
	FamilyID int64
	// Sequence is 1-based within the pod.
	Sequence       int
	First          PairMember
	Second         *PairMember
	CombinedWeight float64
}

// Ineligible records a participant excluded from pairing, with the owning
// family and a human-readable reason.
type Ineligible struct {
	ParticipantID string
	FamilyID      int64
	Reason        string
}

// PairingPlan is the result of one pair generator run.
type PairingPlan struct {
	Pairs      []Pair
	Ineligible []Ineligible

	// Pods is the normalized pod list actually used: caller pods with
	// duplicate families dropped, plus a singleton pod per leftover family.
	Pods [][]int64

	// SkippedNoWeight and WaiverPending surface the silent exclusions
	// (no recorded weight; waiver not yet accepted in official mode) so
	// callers can audit plan completeness.
	SkippedNoWeight []string
	WaiverPending   []string
}

// GeneratePairs partitions the eligible participants of each pod into
// weight-balanced pairs. Pods group family IDs into one pairing universe;
// when nil, every family is its own pod. acceptedWaivers is only consulted
// in official mode.
func GeneratePairs(families []models.Family, participants []models.Participant, pods [][]int64, mode Mode, acceptedWaivers map[string]bool) *PairingPlan {
	plan := &PairingPlan{Pods: normalizePods(families, pods)}

	used := make(map[string]bool)
	for podIdx, pod := range plan.Pods {
		inPod := make(map[int64]bool, len(pod))
		for _, familyID := range pod {
			inPod[familyID] = true
		}
		representative := pod[0]

		// Eligibility filter, in original roster order.
		var eligible []PairMember
		for i := range participants {
			p := &participants[i]
			if p.FamilyID == nil || !inPod[*p.FamilyID] || used[p.ID] {
				continue
			}
			if p.WeightKg == nil || *p.WeightKg <= 0 {
				plan.SkippedNoWeight = append(plan.SkippedNoWeight, p.ID)
				continue
			}
			if *p.WeightKg > MaxIndividualWeightKg {
				plan.Ineligible = append(plan.Ineligible, Ineligible{
					ParticipantID: p.ID,
					FamilyID:      *p.FamilyID,
					Reason:        ReasonOverIndividualLimit,
				})
				continue
			}
			if mode == ModeOfficial && !acceptedWaivers[p.ID] {
				plan.WaiverPending = append(plan.WaiverPending, p.ID)
				continue
			}
			eligible = append(eligible, PairMember{
				ParticipantID: p.ID,
				Name:          p.Name,
				WeightKg:      *p.WeightKg,
			})
		}

		sort.SliceStable(eligible, func(i, j int) bool {
			return eligible[i].WeightKg > eligible[j].WeightKg
		})

		pairs := formPairs(eligible, podIdx, representative)
		if anyPairOverLimit(pairs) {
			pairs = rebalance(eligible, podIdx, representative)
		}

		for _, pair := range pairs {
			used[pair.First.ParticipantID] = true
			if pair.Second != nil {
				used[pair.Second.ParticipantID] = true
			}
		}
		plan.Pairs = append(plan.Pairs, pairs...)
	}

	return plan
}

// normalizePods keeps the first occurrence of every family across the caller
// pods and appends a singleton pod for each family absent from all of them.
func normalizePods(families []models.Family, pods [][]int64) [][]int64 {
	seen := make(map[int64]bool)
	var out [][]int64
	for _, pod := range pods {
		var kept []int64
		for _, familyID := range pod {
			if !seen[familyID] {
				seen[familyID] = true
				kept = append(kept, familyID)
			}
		}
		if len(kept) > 0 {
			out = append(out, kept)
		}
	}
	for _, family := range families {
		if !seen[family.ID] {
			seen[family.ID] = true
			out = append(out, []int64{family.ID})
		}
	}
	return out
}

// formPairs pairs the heaviest eligible participant with the lightest and
// walks both ends inward. An odd middle participant becomes a solo entry.
// eligible must be sorted by descending weight.
func formPairs(eligible []PairMember, podIdx int, familyID int64) []Pair {
	var pairs []Pair
	seq := 1
	i, j := 0, len(eligible)-1
	for i < j {
		second := eligible[j]
		pairs = append(pairs, Pair{
			PodIndex:       podIdx,
			FamilyID:       familyID,
			Sequence:       seq,
			First:          eligible[i],
			Second:         &second,
			CombinedWeight: eligible[i].WeightKg + second.WeightKg,
		})
		i++
		j--
		seq++
	}
	if i == j {
		pairs = append(pairs, Pair{
			PodIndex:       podIdx,
			FamilyID:       familyID,
			Sequence:       seq,
			First:          eligible[i],
			CombinedWeight: eligible[i].WeightKg,
		})
	}
	return pairs
}

func anyPairOverLimit(pairs []Pair) bool {
	for _, pair := range pairs {
		if pair.Second != nil && pair.CombinedWeight > MaxPairWeightKg {
			return true
		}
	}
	return false
}

// rebalance discards a naive pairing that produced an over-limit pair and
// retries greedily: walking the eligible list by ascending weight, each
// unpaired participant searches from the heaviest remaining downward for the
// first partner within the pair limit. Participants who exhaust the search
// become solos, appended after all successful pairs. Sequence numbers
// restart at 1.
func rebalance(eligible []PairMember, podIdx int, familyID int64) []Pair {
	asc := make([]PairMember, len(eligible))
	copy(asc, eligible)
	sort.SliceStable(asc, func(i, j int) bool {
		return asc[i].WeightKg < asc[j].WeightKg
	})

	taken := make([]bool, len(asc))
	var pairs []Pair
	var solos []PairMember
	for i := range asc {
		if taken[i] {
			continue
		}
		partner := -1
		for j := len(asc) - 1; j > i; j-- {
			if !taken[j] && asc[i].WeightKg+asc[j].WeightKg <= MaxPairWeightKg {
				partner = j
				break
			}
		}
		taken[i] = true
		if partner == -1 {
			solos = append(solos, asc[i])
			continue
		}
		taken[partner] = true
		lighter := asc[i]
		pairs = append(pairs, Pair{
			PodIndex:       podIdx,
			FamilyID:       familyID,
			First:          asc[partner],
			Second:         &lighter,
			CombinedWeight: asc[partner].WeightKg + lighter.WeightKg,
		})
	}

	for _, solo := range solos {
		pairs = append(pairs, Pair{
			PodIndex:       podIdx,
			FamilyID:       familyID,
			First:          solo,
			CombinedWeight: solo.WeightKg,
		})
	}
	for i := range pairs {
		pairs[i].Sequence = i + 1
	}
	return pairs
}
