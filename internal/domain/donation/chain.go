package donation

import (
	"fmt"
	"time"

	"github.com/riskibarqy/effort-league/internal/domain/user"
)

// Action is one step an actor may take on a pending donation.
type Action string

const (
	ActionCaptainApprove Action = "captain_approve"
	ActionApprove        Action = "approve"
	ActionReject         Action = "reject"
)

func ParseAction(raw string) (Action, error) {
	switch Action(raw) {
	case ActionCaptainApprove, ActionApprove, ActionReject:
		return Action(raw), nil
	default:
		return "", fmt.Errorf("donation action %q is not valid", raw)
	}
}

// ErrNotAllowed marks a transition attempted by an actor without the required
// authority, as opposed to a transition the state machine itself forbids.
type ErrNotAllowed struct{ Reason string }

func (e ErrNotAllowed) Error() string { return e.Reason }

// Transition applies one approval-chain step and returns the updated request.
//
// pending -> captain_approved: the donor's own team captain, proof attached.
// captain_approved -> approved: governor or host.
// pending -> approved: governor or host (skip-stage privilege).
// any non-terminal -> rejected: captain of the donor's team or governor/host.
//
// A request in a terminal state never transitions again.
func Transition(req Request, action Action, actor user.Membership, donorTeamID string, now time.Time) (Request, error) {
	if req.Status.IsTerminal() {
		return Request{}, fmt.Errorf("donation is already %s", req.Status)
	}

	switch action {
	case ActionCaptainApprove:
		if req.Status != StatusPending {
			return Request{}, fmt.Errorf("donation is %s; captain approval only applies to pending donations", req.Status)
		}
		if !isDonorCaptain(actor, donorTeamID) {
			return Request{}, ErrNotAllowed{Reason: "only the donor's team captain can record the first approval"}
		}
		if req.ProofRef == "" {
			return Request{}, fmt.Errorf("captain approval requires an attached proof reference")
		}
		return decided(req, StatusCaptainApproved, actor.UserID, now), nil

	case ActionApprove:
		if !actor.AtLeastGovernor() {
			return Request{}, ErrNotAllowed{Reason: "only a league governor or host can give final approval"}
		}
		// Governors outrank captains, so approval from pending skips the
		// captain stage.
		return decided(req, StatusApproved, actor.UserID, now), nil

	case ActionReject:
		if !actor.AtLeastGovernor() && !isDonorCaptain(actor, donorTeamID) {
			return Request{}, ErrNotAllowed{Reason: "only the donor's team captain or a league governor can reject this donation"}
		}
		return decided(req, StatusRejected, actor.UserID, now), nil

	default:
		return Request{}, fmt.Errorf("donation action %q is not valid", action)
	}
}

func isDonorCaptain(actor user.Membership, donorTeamID string) bool {
	return actor.Role == user.RoleCaptain && donorTeamID != "" && actor.TeamID == donorTeamID
}

func decided(req Request, to Status, by string, now time.Time) Request {
	req.Status = to
	req.DecidedBy = by
	decidedAt := now
	req.DecidedAt = &decidedAt
	return req
}
