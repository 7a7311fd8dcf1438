package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"legendarios/internal/models"
)

// Distribution rule thresholds.
const (
	seniorAgeYears   = 60
	heavyWeightKg    = 100.0
	lowFitnessScore  = 2
	perFamilyRuleCap = 2
)

// Distribution is the result of one distributor run.
type Distribution struct {
	// Buckets holds participant IDs per family bucket, indexed 0..familyCount-1.
	// The caller maps bucket indexes to real family records afterwards.
	Buckets [][]string

	// SeparationPairs are the must-be-separated pairs derived from the roster
	// during this run, for caller-side review and violation checks.
	SeparationPairs [][2]string
}

// distributor carries the state threaded through the ordered rule passes:
// the buckets built so far, the set of already-placed participants, and the
// round-robin cursor used by capacity-capped passes.
type distributor struct {
	buckets  [][]string
	assigned map[string]bool
	cursor   int
	byID     map[string]*models.Participant
}

// Distribute assigns every participant to exactly one of familyCount buckets,
// applying the ordered placement rules with ages computed at the current time.
func Distribute(participants []models.Participant, familyCount int) (*Distribution, error) {
	return DistributeAt(participants, familyCount, time.Now())
}

// DistributeAt is Distribute with an explicit reference time for age
// computation, which keeps results reproducible in tests.
func DistributeAt(participants []models.Participant, familyCount int, now time.Time) (*Distribution, error) {
	if familyCount < 1 {
		return nil, fmt.Errorf("family count must be at least 1, got %d", familyCount)
	}

	d := &distributor{
		buckets:  make([][]string, familyCount),
		assigned: make(map[string]bool, len(participants)),
		byID:     make(map[string]*models.Participant, len(participants)),
	}
	for i := range d.buckets {
		d.buckets[i] = []string{}
	}
	for i := range participants {
		d.byID[participants[i].ID] = &participants[i]
	}

	// Rule 1: separation pairs, split across structurally distant buckets.
	pairs := SeparationPairs(participants)
	d.placeSeparationPairs(pairs)

	// Rule 2: seniors, plain smallest-bucket round-robin.
	for i := range participants {
		p := &participants[i]
		if !d.assigned[p.ID] && p.Age(now) >= seniorAgeYears {
			d.placeSmallest(p.ID)
		}
	}

	// Rules 3-5: capacity-capped passes. The cap counts bucket members
	// matching the pass predicate, regardless of which rule placed them.
	d.placeCapped(participants, hasHealthNotes)
	d.placeCapped(participants, isHeavy)
	d.placeCapped(participants, hasLowFitness)

	// Rule 6: everyone left, oldest first.
	remainder := make([]*models.Participant, 0, len(participants))
	for i := range participants {
		if !d.assigned[participants[i].ID] {
			remainder = append(remainder, &participants[i])
		}
	}
	sort.SliceStable(remainder, func(i, j int) bool {
		return remainder[i].Age(now) > remainder[j].Age(now)
	})
	for _, p := range remainder {
		d.placeSmallest(p.ID)
	}

	return &Distribution{Buckets: d.buckets, SeparationPairs: pairs}, nil
}

// placeSeparationPairs places both members of each unassigned pair: the first
// in the currently smallest bucket, the second half a cycle away, the maximum
// structural distance under round-robin numbering. Members whose counterpart
// was already placed by an earlier pair go individually to the smallest bucket.
func (d *distributor) placeSeparationPairs(pairs [][2]string) {
	n := len(d.buckets)
	for _, pair := range pairs {
		first, second := pair[0], pair[1]
		if d.assigned[first] || d.assigned[second] {
			continue
		}
		idx := d.smallestBucket()
		d.place(first, idx)
		d.place(second, (idx+n/2)%n)
	}
	for _, pair := range pairs {
		for _, id := range pair {
			if !d.assigned[id] {
				d.placeSmallest(id)
			}
		}
	}
}

// placeCapped runs one capacity-capped pass: starting at the round-robin
// cursor, scan at most one full cycle for a bucket holding fewer than
// perFamilyRuleCap members matching the predicate, falling back to the
// globally smallest bucket when every bucket is at the cap.
func (d *distributor) placeCapped(participants []models.Participant, pred func(*models.Participant) bool) {
	n := len(d.buckets)
	for i := range participants {
		p := &participants[i]
		if d.assigned[p.ID] || !pred(p) {
			continue
		}
		placed := false
		for step := 0; step < n; step++ {
			idx := (d.cursor + step) % n
			if d.countMatching(idx, pred) < perFamilyRuleCap {
				d.place(p.ID, idx)
				d.cursor = (idx + 1) % n
				placed = true
				break
			}
		}
		if !placed {
			d.placeSmallest(p.ID)
		}
	}
}

func (d *distributor) countMatching(bucket int, pred func(*models.Participant) bool) int {
	count := 0
	for _, id := range d.buckets[bucket] {
		if p, ok := d.byID[id]; ok && pred(p) {
			count++
		}
	}
	return count
}

// smallestBucket returns the index of the bucket with the fewest members,
// ties broken by lowest index.
func (d *distributor) smallestBucket() int {
	smallest := 0
	for i := 1; i < len(d.buckets); i++ {
		if len(d.buckets[i]) < len(d.buckets[smallest]) {
			smallest = i
		}
	}
	return smallest
}

func (d *distributor) placeSmallest(id string) {
	d.place(id, d.smallestBucket())
}

func (d *distributor) place(id string, bucket int) {
	d.buckets[bucket] = append(d.buckets[bucket], id)
	d.assigned[id] = true
}

func hasHealthNotes(p *models.Participant) bool {
	return strings.TrimSpace(p.HealthNotes) != ""
}

func isHeavy(p *models.Participant) bool {
	return p.WeightKg != nil && *p.WeightKg > heavyWeightKg
}

func hasLowFitness(p *models.Participant) bool {
	return p.FitnessScore != nil && *p.FitnessScore <= lowFitnessScore
}

// CheckSeparationViolations scans a final assignment for separation pairs
// whose members ended up in the same bucket, keyed by bucket index. The
// remainder rule's fallback placement never re-checks separation, so
// violations are possible and are reported here for manual review; nothing
// auto-corrects them.
func CheckSeparationViolations(buckets [][]string, pairs [][2]string) map[int][][2]string {
	bucketOf := make(map[string]int)
	for i, bucket := range buckets {
		for _, id := range bucket {
			bucketOf[id] = i
		}
	}

	violations := make(map[int][][2]string)
	for _, pair := range pairs {
		first, okFirst := bucketOf[pair[0]]
		second, okSecond := bucketOf[pair[1]]
		if okFirst && okSecond && first == second {
			violations[first] = append(violations[first], pair)
		}
	}
	return violations
}
