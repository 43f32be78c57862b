package model

import "strings"

// Training levels (PGY) a resident can hold
const (
	MinLevel = 1
	MaxLevel = 5
)

// VacationLabel is the cell value written by the vacation pass
const VacationLabel = "Vacation"

// ResidentID identifies a resident by name. Uniqueness is checked at load time.
type ResidentID struct {
	LastName  string
	FirstName string
}

func (id ResidentID) String() string {
	return id.LastName + ", " + id.FirstName
}

// IsZero returns true if neither name is set
func (id ResidentID) IsZero() bool {
	return strings.TrimSpace(id.LastName) == "" && strings.TrimSpace(id.FirstName) == ""
}

// Resident represents a trainee on the roster
type Resident struct {
	ID ResidentID

	// Level is the PGY year (1-5)
	Level int `validate:"min=1,max=5"`

	// TotalSubblocks is the resident's subblock quota for the year
	TotalSubblocks int `validate:"min=0"`

	HomeProgram       string
	EligibleRotations []string

	// StartBlock and EndBlock bound the blocks (inclusive, 1-based) in which rotations
	// may be assigned. Zero means "not set" and falls back to the whole calendar.
	StartBlock int `validate:"omitempty,min=1,max=13"`
	EndBlock   int `validate:"omitempty,min=1,max=13"`
}

// ActiveBlocks returns the resident's inclusive block range, defaulting unset bounds
// to the first and last block of the year
func (r Resident) ActiveBlocks(lastBlock int) (int, int) {
	start, end := r.StartBlock, r.EndBlock
	if start == 0 {
		start = 1
	}
	if end == 0 {
		end = lastBlock
	}
	return start, end
}

// Rotation represents an entry in the rotation catalog
type Rotation struct {
	Name     string `validate:"required"`
	Duration int    `validate:"min=0"`

	// Required and Optional hold the per-level counts, index 0 is PGY-1
	Required [MaxLevel]int `validate:"dive,min=0"`
	Optional [MaxLevel]int `validate:"dive,min=0"`

	TotalNeeded int `validate:"min=0"`
	Flexible    bool
	Type        string
	Difficulty  int `validate:"min=0"`
}

// RequiredAt returns the required count for the given level, 0 for out of range levels
func (r Rotation) RequiredAt(level int) int {
	if level < MinLevel || level > MaxLevel {
		return 0
	}
	return r.Required[level-1]
}

// OptionalAt returns the optional count for the given level, 0 for out of range levels
func (r Rotation) OptionalAt(level int) int {
	if level < MinLevel || level > MaxLevel {
		return 0
	}
	return r.Optional[level-1]
}

// IsEligible returns true if residents at the given level may be assigned this rotation
func (r Rotation) IsEligible(level int) bool {
	return r.RequiredAt(level) > 0 || r.OptionalAt(level) > 0
}

// VacationPreference holds a resident's ranked vacation choices for each half of the year.
// Choices are subblock labels; blank choices are ignored.
type VacationPreference struct {
	Resident   ResidentID
	Level      int `validate:"omitempty,min=1,max=5"`
	FirstHalf  [3]string
	SecondHalf [3]string
}

// RotationPreference holds up to three ranked rotation choices.
// Accepted and displayed, but not consulted by the assignment passes.
type RotationPreference struct {
	Resident ResidentID
	Level    int      `validate:"omitempty,min=1,max=5"`
	Choices  []string `validate:"max=3"`
}
