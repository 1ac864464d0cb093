package challenge

import (
	"fmt"
	"time"
)

// Status is the challenge lifecycle state. draft, published and closed are
// explicit human-triggered states; scheduled, active and submission_closed are
// derived from the schedule dates.
type Status string

const (
	StatusDraft            Status = "draft"
	StatusScheduled        Status = "scheduled"
	StatusActive           Status = "active"
	StatusSubmissionClosed Status = "submission_closed"
	StatusPublished        Status = "published"
	StatusClosed           Status = "closed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusScheduled, StatusActive, StatusSubmissionClosed, StatusPublished, StatusClosed:
		return true
	default:
		return false
	}
}

// explicit statuses are set by a human and must never be overridden by date
// arithmetic.
func (s Status) explicit() bool {
	return s == StatusDraft || s == StatusPublished || s == StatusClosed
}

// DeriveStatus computes the lifecycle state actually in force right now from
// the stored status plus the schedule dates. It is the single source of truth
// for every call site that gates an action on challenge lifecycle; comparisons
// are date-only so a challenge rolls over at local midnight.
func DeriveStatus(stored Status, start, end *time.Time, now time.Time) Status {
	if stored.explicit() {
		return stored
	}

	if start == nil || end == nil {
		if end != nil && dateOnly(now).After(dateOnly(*end)) {
			return StatusSubmissionClosed
		}
		return stored
	}

	today := dateOnly(now)
	switch {
	case today.Before(dateOnly(*start)):
		return StatusScheduled
	case today.After(dateOnly(*end)):
		return StatusSubmissionClosed
	default:
		return StatusActive
	}
}

// EffectiveStatus is DeriveStatus applied to the challenge itself.
func (c Challenge) EffectiveStatus(now time.Time) Status {
	return DeriveStatus(c.Status, c.StartDate, c.EndDate, now)
}

// CanReview reports whether submissions of this challenge may be approved or
// rejected right now. Review opens only once submissions close and shuts again
// at publish.
func (c Challenge) CanReview(now time.Time) error {
	effective := c.EffectiveStatus(now)
	if effective == StatusSubmissionClosed {
		return nil
	}
	return fmt.Errorf("submissions can only be reviewed after the challenge closes; current status is %s", effective)
}

// CanPublish reports whether the challenge may be published right now.
// Publishing requires submissions to be closed and every submission reviewed.
func (c Challenge) CanPublish(now time.Time, pendingSubmissions int) error {
	effective := c.EffectiveStatus(now)
	if effective == StatusPublished {
		return fmt.Errorf("challenge is already published")
	}
	if effective != StatusSubmissionClosed {
		return fmt.Errorf("challenge can only be published after submissions close; current status is %s", effective)
	}
	if pendingSubmissions > 0 {
		return fmt.Errorf("review all pending submissions before publishing; %d still pending", pendingSubmissions)
	}
	return nil
}

// CanClose reports whether the challenge may be closed right now. Closing
// finalizes points into the league bonus table and is only reachable from
// published.
func (c Challenge) CanClose(now time.Time) error {
	effective := c.EffectiveStatus(now)
	if effective == StatusClosed {
		return fmt.Errorf("challenge is already closed")
	}
	if effective != StatusPublished {
		return fmt.Errorf("challenge can only be closed after it is published; current status is %s", effective)
	}
	return nil
}

// CanAssignTeamScores reports whether manual team scores may still be written.
// Scores freeze once the challenge is published.
func (c Challenge) CanAssignTeamScores(now time.Time) error {
	switch c.EffectiveStatus(now) {
	case StatusPublished, StatusClosed:
		return fmt.Errorf("team scores cannot change after the challenge is published")
	default:
		return nil
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
