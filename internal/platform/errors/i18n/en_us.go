package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeEventTitleEmpty           = "EVENT_TITLE_EMPTY"
	CodeEventBookMissing          = "EVENT_BOOK_MISSING"
	CodeEventLeaderMissing        = "EVENT_LEADER_MISSING"
	CodeEventInvalidDates         = "EVENT_INVALID_DATES"
	CodeEventInvalidBounds        = "EVENT_INVALID_PARTICIPANT_BOUNDS"
	CodeEventInvalidAssignment    = "EVENT_INVALID_ASSIGNMENT_TYPE"
	CodeEventInvalidTransition    = "EVENT_INVALID_TRANSITION"
	CodeEventCannotStart          = "EVENT_CANNOT_START"
	CodeEventCannotComplete       = "EVENT_CANNOT_COMPLETE"
	CodeEventCannotDelete         = "EVENT_CANNOT_DELETE"
	CodeEventStatusLocked         = "EVENT_STATUS_LOCKED"
	CodePermissionDenied          = "PERMISSION_DENIED"
	CodeLeadershipAlreadyClaimed  = "LEADERSHIP_ALREADY_CLAIMED"
	CodeLeadershipClaimNotAllowed = "LEADERSHIP_CLAIM_NOT_ALLOWED"
	CodeEnrollmentClosed          = "ENROLLMENT_CLOSED"
	CodeEnrollmentFull            = "ENROLLMENT_FULL"
	CodeEnrollmentInactive        = "ENROLLMENT_INACTIVE"
	CodeEnrollmentInvalidType     = "ENROLLMENT_INVALID_TYPE"
	CodeDuplicateSubmission       = "DUPLICATE_SUBMISSION"
	CodeCheckInContentTooShort    = "CHECKIN_CONTENT_TOO_SHORT"
	CodeCheckInDayNotArrived      = "CHECKIN_DAY_NOT_ARRIVED"
	CodeCheckInLocked             = "CHECKIN_LOCKED"
	CodeFlowerSelfGrant           = "FLOWER_SELF_GRANT"
	CodeLeadingSuggestionEmpty    = "LEADING_SUGGESTION_EMPTY"
	CodeTokenInvalid              = "TOKEN_INVALID"
	CodeTokenExpired              = "TOKEN_EXPIRED"
	CodeNotFound                  = "NOT_FOUND"
)

// messagesEnUS holds the base English message templates.
var messagesEnUS = map[Code]string{
	CodeEventTitleEmpty:           "The event title cannot be empty.",
	CodeEventBookMissing:          "A book must be selected for the reading event.",
	CodeEventLeaderMissing:        "The reading event needs a group leader.",
	CodeEventInvalidDates:         "The end date must not be before the start date.",
	CodeEventInvalidBounds:        "Participant limits are invalid: minimum {{.Min}}, maximum {{.Max}}.",
	CodeEventInvalidAssignment:    "Unknown leader assignment type.",
	CodeEventInvalidTransition:    "This event cannot go from {{.FromStatus}} to {{.ToStatus}}.",
	CodeEventCannotStart:          "The event cannot start yet: {{.Reason}}.",
	CodeEventCannotComplete:       "The event cannot be completed before its end date.",
	CodeEventCannotDelete:         "Only draft or rejected events can be deleted.",
	CodeEventStatusLocked:         "The event can no longer be edited in its current status.",
	CodePermissionDenied:          "You are not allowed to do this right now: {{.Reason}}.",
	CodeLeadershipAlreadyClaimed:  "Someone else already claimed day {{.DayNumber}}.",
	CodeLeadershipClaimNotAllowed: "Daily leadership cannot be claimed on this event.",
	CodeEnrollmentClosed:          "Enrollment for this event is closed.",
	CodeEnrollmentFull:            "This event is full ({{.Max}} participants).",
	CodeEnrollmentInactive:        "Your enrollment is no longer active.",
	CodeEnrollmentInvalidType:     "Unknown enrollment type.",
	CodeDuplicateSubmission:       "This was already submitted.",
	CodeCheckInContentTooShort:    "The check-in needs at least {{.Min}} characters.",
	CodeCheckInDayNotArrived:      "Day {{.DayNumber}} has not arrived yet.",
	CodeCheckInLocked:             "A check-in with a flower can no longer be edited.",
	CodeFlowerSelfGrant:           "You cannot give a flower to your own check-in.",
	CodeLeadingSuggestionEmpty:    "The reading suggestion cannot be empty.",
	CodeTokenInvalid:              "Your session is invalid. Please sign in again.",
	CodeTokenExpired:              "Your session has expired. Please sign in again.",
	CodeNotFound:                  "The requested record was not found.",
}
