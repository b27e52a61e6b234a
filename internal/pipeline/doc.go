// Package pipeline drives one cataloging run end to end.
//
// A Runner fetches every playlist item, extracts one record per item in
// playlist order, and collects the results in a review buffer. Item
// failures never abort a run; only a fetch failure is terminal. Runs are
// paced with a configurable delay between items and can be archived to
// the catalog on completion.
package pipeline
