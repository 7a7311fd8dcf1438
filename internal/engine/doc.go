// Package engine implements the family distribution and zipline pairing
// algorithms for Legendários TOP events.
//
// Both entry points are pure: they read a roster snapshot and return a
// fresh result without touching storage, the network, or shared state.
// Fetching the roster and persisting the outcome is the caller's job
// (see internal/service).
//
//   - Distribute assigns every participant to exactly one of N family
//     buckets through an ordered sequence of placement rules (separation
//     pairs first, then seniors, health conditions, heavy participants,
//     low fitness, and finally everyone else by descending age).
//   - GeneratePairs partitions eligible participants of each pairing pod
//     into weight-balanced zipline pairs, falling back to a greedy
//     rebalancing pass when a naive pairing exceeds the pair weight limit.
//
// Separation between two participants is best effort: the remainder rule
// can legitimately reunite a split pair, which CheckSeparationViolations
// reports for manual review but never corrects.
package engine
