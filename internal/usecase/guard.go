package usecase

import "time"

// Guard restricts pipeline execution to an hour-of-day window evaluated
// in a fixed reference zone. StartHour is inclusive, EndHour exclusive.
type Guard struct {
	startHour int
	endHour   int
	location  *time.Location
}

// NewGuard builds the window check; a nil location means UTC.
func NewGuard(startHour, endHour int, location *time.Location) Guard {
	if location == nil {
		location = time.UTC
	}
	return Guard{startHour: startHour, endHour: endHour, location: location}
}

// ShouldRun reports whether now falls inside the configured window.
func (g Guard) ShouldRun(now time.Time) bool {
	hour := now.In(g.location).Hour()
	return hour >= g.startHour && hour < g.endHour
}
