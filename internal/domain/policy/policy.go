// Package policy is the time-windowed authorization decision point.
//
// Every window rule lives in a declarative table mapping action and role to
// a day-offset range, so new actions extend data instead of growing
// conditional chains. Decisions are pure: the caller resolves the role set,
// supplies today's date, and combines an allow with the actual write.
package policy

import (
	"fmt"
	"time"

	"github.com/hongyangchun/QQClub-sub003/internal/domain/date"
	"github.com/hongyangchun/QQClub-sub003/internal/domain/event"
	"github.com/hongyangchun/QQClub-sub003/internal/domain/role"
	apperrors "github.com/hongyangchun/QQClub-sub003/internal/platform/errors"
)

// Action identifies one guarded operation.
type Action int

const (
	// ActionUnspecified represents an invalid action value.
	ActionUnspecified Action = iota
	// ActionPublishLeading creates the daily leading content for a day.
	ActionPublishLeading
	// ActionEditLeading updates existing daily leading content.
	ActionEditLeading
	// ActionGiveFlower rewards a participant's check-in.
	ActionGiveFlower
	// ActionClaimLeadership claims an unled schedule day.
	ActionClaimLeadership
	// ActionReviewEvent approves or rejects a pending event.
	ActionReviewEvent
	// ActionEditEvent updates or deletes the event record.
	ActionEditEvent
)

// Deny reasons carried in decision error metadata. Stable strings so
// clients and log queries can branch without message matching.
const (
	ReasonWrongRole          = "wrong_role"
	ReasonOutsideWindow      = "outside_window"
	ReasonDayHasCheckIns     = "day_has_check_ins"
	ReasonEventNotInProgress = "event_not_in_progress"
	ReasonDayAlreadyClaimed  = "day_already_claimed"
	ReasonApprovalNotPending = "approval_not_pending"
	ReasonEventLocked        = "event_locked"
)

// window is an inclusive day-offset range relative to the schedule day.
type window struct {
	lo int
	hi int
}

// dailyLeaderWindows encodes the reading cadence: leading content may land
// the evening before its day, flowers only once the day's check-ins exist.
// The group leader is exempt from these ranges entirely (full-time backup).
var dailyLeaderWindows = map[Action]window{
	ActionPublishLeading: {lo: -1, hi: 0},
	ActionEditLeading:    {lo: -1, hi: 0},
	ActionGiveFlower:     {lo: 0, hi: 1},
}

// Request carries everything a decision needs. Day fields are only read for
// day-scoped actions.
type Request struct {
	Action Action
	Roles  role.Set
	Event  event.Event
	// DayNumber and DayDate identify the schedule day under action.
	DayNumber int
	DayDate   time.Time
	Today     time.Time
	// DayHasCheckIns locks leading edits once participants have acted.
	DayHasCheckIns bool
	// DayClaimed blocks further leadership claims for the day.
	DayClaimed bool
}

// Decision is the outcome of one policy evaluation.
type Decision struct {
	Allowed bool
	Reason  string
}

var allow = Decision{Allowed: true}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Decide evaluates whether the request's role set may perform the action
// now. It never mutates state; a false result is an authorization failure,
// not a no-op.
func Decide(req Request) Decision {
	switch req.Action {
	case ActionPublishLeading, ActionEditLeading, ActionGiveFlower:
		return decideDayScoped(req)
	case ActionClaimLeadership:
		return decideClaim(req)
	case ActionReviewEvent:
		return decideReview(req)
	case ActionEditEvent:
		return decideEditEvent(req)
	default:
		return deny(ReasonWrongRole)
	}
}

func decideDayScoped(req Request) Decision {
	if req.Action == ActionEditLeading && req.DayHasCheckIns {
		// Applies to every role: content must not shift under
		// participants who already checked in against it.
		return deny(ReasonDayHasCheckIns)
	}
	if req.Roles.Has(role.RoleGroupLeader) {
		return allow
	}
	if !req.Roles.LeadsDay(req.DayNumber) {
		return deny(ReasonWrongRole)
	}
	w, ok := dailyLeaderWindows[req.Action]
	if !ok {
		return deny(ReasonWrongRole)
	}
	offset := date.DaysBetween(req.DayDate, req.Today)
	if offset < w.lo || offset > w.hi {
		return deny(ReasonOutsideWindow)
	}
	return allow
}

func decideClaim(req Request) Decision {
	if !req.Roles.Has(role.RoleParticipant) {
		return deny(ReasonWrongRole)
	}
	if req.Event.Status != event.StatusInProgress {
		return deny(ReasonEventNotInProgress)
	}
	if req.DayClaimed {
		return deny(ReasonDayAlreadyClaimed)
	}
	return allow
}

func decideReview(req Request) Decision {
	if !req.Roles.Has(role.RoleAdmin) {
		return deny(ReasonWrongRole)
	}
	if req.Event.Approval != event.ApprovalPending {
		return deny(ReasonApprovalNotPending)
	}
	return allow
}

func decideEditEvent(req Request) Decision {
	// Admin override is unconditional.
	if req.Roles.Has(role.RoleAdmin) {
		return allow
	}
	if !req.Roles.Has(role.RoleGroupLeader) {
		return deny(ReasonWrongRole)
	}
	if !event.Editable(req.Event) {
		return deny(ReasonEventLocked)
	}
	return allow
}

// Err converts a denial into a typed error. A locked event surfaces as a
// lifecycle error rather than a permission one: the caller holds the right
// role, the record's state is what blocks the edit. Calling Err on an
// allowed decision returns nil.
func (d Decision) Err(action Action) error {
	if d.Allowed {
		return nil
	}
	code := apperrors.CodePermissionDenied
	if d.Reason == ReasonEventLocked {
		code = apperrors.CodeEventStatusLocked
	}
	return apperrors.WithMetadata(
		code,
		fmt.Sprintf("%s denied: %s", Label(action), d.Reason),
		map[string]string{"Action": Label(action), "Reason": d.Reason},
	)
}

// Label returns a stable label for an action.
func Label(a Action) string {
	switch a {
	case ActionPublishLeading:
		return "PUBLISH_LEADING"
	case ActionEditLeading:
		return "EDIT_LEADING"
	case ActionGiveFlower:
		return "GIVE_FLOWER"
	case ActionClaimLeadership:
		return "CLAIM_LEADERSHIP"
	case ActionReviewEvent:
		return "REVIEW_EVENT"
	case ActionEditEvent:
		return "EDIT_EVENT"
	default:
		return "UNSPECIFIED"
	}
}
