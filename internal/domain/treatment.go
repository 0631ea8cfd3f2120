package domain

import (
	"fmt"
	"regexp"
	"time"
)

var treatmentIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Treatment labels appointments. DurationMinutes is informational only:
// slot length always comes from CalendarConfig.SlotDurationMinutes.
type Treatment struct {
	ID              string
	Label           string
	Active          bool
	DurationMinutes *int
	Price           *float64
	SortOrder       int
	UpdatedAt       time.Time
}

func (t *Treatment) Validate() error {
	if !treatmentIDPattern.MatchString(t.ID) {
		return fmt.Errorf("%w: treatment id must be a lowercase slug", ErrInvalidInput)
	}
	if t.Label == "" || len(t.Label) > MaxTreatmentLabelLength {
		return fmt.Errorf("%w: treatment label is required and must be at most %d characters",
			ErrInvalidInput, MaxTreatmentLabelLength)
	}
	if t.DurationMinutes != nil && *t.DurationMinutes <= 0 {
		return fmt.Errorf("%w: treatment duration must be positive", ErrInvalidInput)
	}
	if t.Price != nil && *t.Price < 0 {
		return fmt.Errorf("%w: treatment price must not be negative", ErrInvalidInput)
	}
	return nil
}
