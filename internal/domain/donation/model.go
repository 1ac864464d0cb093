package donation

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusPending         Status = "pending"
	StatusCaptainApproved Status = "captain_approved"
	StatusApproved        Status = "approved"
	StatusRejected        Status = "rejected"
)

func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Request is a peer-to-peer rest-day transfer awaiting the two-stage approval
// chain. Donor and receiver must belong to the same league.
type Request struct {
	ID         string
	LeagueID   string
	DonorID    string
	ReceiverID string
	Days       int
	Status     Status
	ProofRef   string
	CreatedAt  time.Time
	DecidedAt  *time.Time
	DecidedBy  string
}

func (r Request) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("donation id is required")
	}
	if r.LeagueID == "" {
		return fmt.Errorf("donation league id is required")
	}
	if r.DonorID == "" || r.ReceiverID == "" {
		return fmt.Errorf("donation donor and receiver are required")
	}
	if r.DonorID == r.ReceiverID {
		return fmt.Errorf("donation donor and receiver must differ")
	}
	if r.Days <= 0 {
		return fmt.Errorf("donation must transfer at least one day")
	}

	return nil
}
