// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Event validation errors
	CodeEventTitleEmpty        Code = "EVENT_TITLE_EMPTY"
	CodeEventBookMissing       Code = "EVENT_BOOK_MISSING"
	CodeEventLeaderMissing     Code = "EVENT_LEADER_MISSING"
	CodeEventInvalidDates      Code = "EVENT_INVALID_DATES"
	CodeEventInvalidBounds     Code = "EVENT_INVALID_PARTICIPANT_BOUNDS"
	CodeEventInvalidAssignment Code = "EVENT_INVALID_ASSIGNMENT_TYPE"

	// Event lifecycle errors
	CodeEventInvalidTransition Code = "EVENT_INVALID_TRANSITION"
	CodeEventCannotStart       Code = "EVENT_CANNOT_START"
	CodeEventCannotComplete    Code = "EVENT_CANNOT_COMPLETE"
	CodeEventCannotDelete      Code = "EVENT_CANNOT_DELETE"
	CodeEventStatusLocked      Code = "EVENT_STATUS_LOCKED"

	// Authorization errors
	CodePermissionDenied Code = "PERMISSION_DENIED"

	// Leadership claim errors
	CodeLeadershipAlreadyClaimed  Code = "LEADERSHIP_ALREADY_CLAIMED"
	CodeLeadershipClaimNotAllowed Code = "LEADERSHIP_CLAIM_NOT_ALLOWED"

	// Enrollment errors
	CodeEnrollmentClosed      Code = "ENROLLMENT_CLOSED"
	CodeEnrollmentFull        Code = "ENROLLMENT_FULL"
	CodeEnrollmentInactive    Code = "ENROLLMENT_INACTIVE"
	CodeEnrollmentInvalidType Code = "ENROLLMENT_INVALID_TYPE"

	// Submission errors
	CodeDuplicateSubmission    Code = "DUPLICATE_SUBMISSION"
	CodeCheckInContentTooShort Code = "CHECKIN_CONTENT_TOO_SHORT"
	CodeCheckInDayNotArrived   Code = "CHECKIN_DAY_NOT_ARRIVED"
	CodeCheckInLocked          Code = "CHECKIN_LOCKED"
	CodeFlowerSelfGrant        Code = "FLOWER_SELF_GRANT"
	CodeLeadingSuggestionEmpty Code = "LEADING_SUGGESTION_EMPTY"

	// Identity errors
	CodeTokenInvalid Code = "TOKEN_INVALID"
	CodeTokenExpired Code = "TOKEN_EXPIRED"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeEventTitleEmpty,
		CodeEventBookMissing,
		CodeEventLeaderMissing,
		CodeEventInvalidDates,
		CodeEventInvalidBounds,
		CodeEventInvalidAssignment,
		CodeEnrollmentInvalidType,
		CodeCheckInContentTooShort,
		CodeFlowerSelfGrant,
		CodeLeadingSuggestionEmpty:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow the operation
	case CodeEventInvalidTransition,
		CodeEventCannotStart,
		CodeEventCannotComplete,
		CodeEventCannotDelete,
		CodeEventStatusLocked,
		CodeLeadershipClaimNotAllowed,
		CodeEnrollmentClosed,
		CodeEnrollmentFull,
		CodeEnrollmentInactive,
		CodeCheckInDayNotArrived,
		CodeCheckInLocked:
		return codes.FailedPrecondition

	// AlreadyExists - uniqueness constraint hit or claim race lost
	case CodeDuplicateSubmission,
		CodeLeadershipAlreadyClaimed:
		return codes.AlreadyExists

	// PermissionDenied - the permission window engine said no
	case CodePermissionDenied:
		return codes.PermissionDenied

	// Unauthenticated - caller identity could not be established
	case CodeTokenInvalid,
		CodeTokenExpired:
		return codes.Unauthenticated

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	default:
		return codes.Internal
	}
}
