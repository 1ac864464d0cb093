package effort

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Entry is one day of logged effort for one member. An approved entry is worth
// one activity point; RRValue carries the effort magnitude used as the ranking
// tie-break.
type Entry struct {
	ID        string
	LeagueID  string
	MemberID  string
	Date      time.Time
	Kind      string
	RRValue   float64
	Status    Status
	CreatedAt time.Time
}

func (e Entry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("entry id is required")
	}
	if e.LeagueID == "" {
		return fmt.Errorf("entry league id is required")
	}
	if e.MemberID == "" {
		return fmt.Errorf("entry member id is required")
	}
	if e.Date.IsZero() {
		return fmt.Errorf("entry date is required")
	}

	return nil
}

func (e Entry) IsApproved() bool {
	return e.Status == StatusApproved
}
