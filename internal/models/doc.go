// Package models defines the core domain models for the Legendários TOP
// administration backend.
//
// # Current Models
//
//   - Participant: a registered event participant with the demographic and
//     health fields the distribution engine reads
//   - Family: a numbered family group participants are distributed into
//   - ZiplineRun / ZiplineRunPair: persisted snapshots of a pairing plan
//
// # Design Principles
//
//  1. Models carry no behavior beyond cheap derived accessors (Age,
//     DisplayName); all grouping logic lives in internal/engine.
//  2. Relationships use ID fields instead of pointers to avoid circular
//     references.
//  3. Optional measurements (weight, fitness score) are pointers so "not
//     recorded" is distinguishable from zero.
package models
