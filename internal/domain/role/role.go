// Package role computes the relationship roles a user holds on a reading
// event. Roles are resolved once per request and passed by value into the
// authorization policy, so nothing downstream re-checks "is this user the
// leader" on its own.
package role

import (
	"sort"
	"strings"

	"github.com/hongyangchun/QQClub-sub003/internal/domain/enrollment"
	"github.com/hongyangchun/QQClub-sub003/internal/domain/event"
)

// Role is one relationship a user holds towards an event.
type Role int

const (
	// RoleUnspecified represents an invalid role value.
	RoleUnspecified Role = iota
	// RoleGuest is a user with no enrollment on the event.
	RoleGuest
	// RoleObserver follows the event without a check-in obligation.
	RoleObserver
	// RoleParticipant is enrolled into the daily check-in cadence.
	RoleParticipant
	// RoleDailyLeader leads one or more specific schedule days.
	RoleDailyLeader
	// RoleGroupLeader organizes the event and backs up every daily leader.
	RoleGroupLeader
	// RoleAdmin holds the community-wide admin flag.
	RoleAdmin
)

// Set is the full collection of roles a user holds on one event, including
// the specific days they lead.
type Set struct {
	roles      map[Role]struct{}
	leaderDays map[int]struct{}
}

// NewSet builds a Set from explicit roles. Day-scoped leadership is added
// with WithLeaderDay.
func NewSet(roles ...Role) Set {
	s := Set{roles: make(map[Role]struct{}, len(roles))}
	for _, r := range roles {
		if r != RoleUnspecified {
			s.roles[r] = struct{}{}
		}
	}
	return s
}

// WithLeaderDay returns a copy of the set that also leads the given day.
func (s Set) WithLeaderDay(dayNumber int) Set {
	out := s.clone()
	out.roles[RoleDailyLeader] = struct{}{}
	out.leaderDays[dayNumber] = struct{}{}
	return out
}

func (s Set) clone() Set {
	out := Set{
		roles:      make(map[Role]struct{}, len(s.roles)+1),
		leaderDays: make(map[int]struct{}, len(s.leaderDays)+1),
	}
	for r := range s.roles {
		out.roles[r] = struct{}{}
	}
	for d := range s.leaderDays {
		out.leaderDays[d] = struct{}{}
	}
	return out
}

// Has reports whether the set contains the given role.
func (s Set) Has(r Role) bool {
	_, ok := s.roles[r]
	return ok
}

// LeadsDay reports whether the user is the daily leader for the given
// day number.
func (s Set) LeadsDay(dayNumber int) bool {
	_, ok := s.leaderDays[dayNumber]
	return ok
}

// Labels returns the sorted labels of all held roles, for logging.
func (s Set) Labels() []string {
	labels := make([]string, 0, len(s.roles))
	for r := range s.roles {
		labels = append(labels, Label(r))
	}
	sort.Strings(labels)
	return labels
}

// String renders the set for log lines.
func (s Set) String() string {
	return strings.Join(s.Labels(), ",")
}

// Resolve computes the role set of a user on an event.
//
// The admin flag short-circuits: admins act through their override powers,
// not through event membership. Otherwise the group leader reference, the
// enrollment record, and the claimed schedule days each contribute
// independently; a group leader who also claimed day 3 holds both
// group_leader and daily_leader(3).
func Resolve(userID string, admin bool, evt event.Event, enr *enrollment.Enrollment, schedules []event.Schedule) Set {
	if admin {
		return NewSet(RoleAdmin)
	}

	set := NewSet()
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return NewSet(RoleGuest)
	}

	if evt.LeaderUserID == userID {
		set.roles[RoleGroupLeader] = struct{}{}
	}

	switch {
	case enr != nil && enr.Status == enrollment.StatusWithdrawn:
		// Withdrawn users fall back to guest standing.
	case enr != nil && enr.Type == enrollment.TypeParticipant:
		set.roles[RoleParticipant] = struct{}{}
	case enr != nil:
		set.roles[RoleObserver] = struct{}{}
	}
	if len(set.roles) == 0 {
		set.roles[RoleGuest] = struct{}{}
	}

	for _, s := range schedules {
		if s.DailyLeaderUserID == userID {
			set = set.WithLeaderDay(s.DayNumber)
		}
	}
	return set
}

// Label returns a stable label for a role.
func Label(r Role) string {
	switch r {
	case RoleGuest:
		return "GUEST"
	case RoleObserver:
		return "OBSERVER"
	case RoleParticipant:
		return "PARTICIPANT"
	case RoleDailyLeader:
		return "DAILY_LEADER"
	case RoleGroupLeader:
		return "GROUP_LEADER"
	case RoleAdmin:
		return "ADMIN"
	default:
		return "UNSPECIFIED"
	}
}
