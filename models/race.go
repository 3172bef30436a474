package models

// RaceOutcome is the per-participant status of one race submission.
type RaceOutcome string

const (
	OutcomeFinished     RaceOutcome = "finished"
	OutcomeDidNotRace   RaceOutcome = "did_not_race"
	OutcomeDidNotFinish RaceOutcome = "did_not_finish"
)

// RaceEntry is one participant's line in a race result submission.
// Position is 1-based and only meaningful when Outcome is finished.
type RaceEntry struct {
	UserID   int         `json:"user_id"`
	Outcome  RaceOutcome `json:"outcome"`
	Position int         `json:"position,omitempty"`
}

// RaceSubmission is the full finish-order submission for one race. It is
// consumed immediately to update championship and user state and never
// persisted on its own. Slice order is the tie-break order for duplicate
// positions.
type RaceSubmission []RaceEntry
