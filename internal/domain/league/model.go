package league

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// League is one fitness league run on the platform. All other entities hang off it.
type League struct {
	ID          string
	Name        string
	Status      Status
	StartDate   time.Time
	EndDate     time.Time
	Timezone    string
	HostID      string
	GovernorIDs []string
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.Status != StatusActive && l.Status != StatusCompleted {
		return fmt.Errorf("league status %q is not valid", l.Status)
	}
	if l.EndDate.Before(l.StartDate) {
		return fmt.Errorf("league end date is before start date")
	}

	return nil
}

// IsCompleted reports whether scoring dispute protection is over for this league.
func (l League) IsCompleted() bool {
	return l.Status == StatusCompleted
}

// Location resolves the league's IANA timezone, falling back to UTC.
func (l League) Location() *time.Location {
	if l.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsGovernor reports whether the user governs this league (host included).
func (l League) IsGovernor(userID string) bool {
	if userID == "" {
		return false
	}
	if userID == l.HostID {
		return true
	}
	for _, id := range l.GovernorIDs {
		if id == userID {
			return true
		}
	}
	return false
}
