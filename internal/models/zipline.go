package models

import "time"

// ZiplineRun records one execution of the pair generator so the resulting
// plan can be exported or audited later.
type ZiplineRun struct {
	ID        string
	Mode      string
	PairCount int
	CreatedAt time.Time
}

// ZiplineRunPair is the persisted form of one pair (or solo) of a run.
// SecondID and SecondWeight are nil for solo entries.
type ZiplineRunPair struct {
	RunID          string
	PodIndex       int
	FamilyID       int64
	Sequence       int
	FirstID        string
	FirstWeight    float64
	SecondID       *string
	SecondWeight   *float64
	CombinedWeight float64
}
