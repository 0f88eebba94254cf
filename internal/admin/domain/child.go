package domain

import "time"

// Child is a measured participant, always scoped to one tenant.
type Child struct {
	ID        string
	TenantID  string
	Name      string
	Kana      string // phonetic reading, optional
	Birthdate time.Time
	Gender    string // "male", "female" or "" when not given
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Measurement is one diagnostic session for a child. The raw item values
// are recorded here; scoring happens outside this system.
type Measurement struct {
	ID         string
	ChildID    string
	TenantID   string
	MeasuredAt time.Time

	// Raw item values in the units the measuring staff record them in.
	Grip       float64 // kg
	SprintTime float64 // seconds, 15m sprint
	Jump       float64 // cm, standing long jump
	ThrowDist  float64 // m, ball throw
	SideSteps  int     // repetitions

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Result holds the scored outcome attached to a measurement. Scores are
// produced by the diagnostic engine and stored as-is.
type Result struct {
	ID            string
	MeasurementID string
	TotalScore    int
	AgeRank       string // e.g. "A".."E" band within the age group
	Comment       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
