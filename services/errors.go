package services

import "errors"

// Domain errors surfaced by the invitation decision engine. Controllers map
// these to HTTP statuses; none of them is retried here.
var (
	// ErrInvalidToken - decision token failed verification (bad signature,
	// expired, or issued to a different member).
	ErrInvalidToken = errors.New("invalid decision token")

	// ErrInviteNotFound - the invitation id is not among the caller's fresh
	// pending candidates.
	ErrInviteNotFound = errors.New("invitation not found")

	// ErrSwitchConfirmationRequired - accepting would switch families and the
	// caller did not explicitly confirm.
	ErrSwitchConfirmationRequired = errors.New("switch confirmation required")

	// ErrAlreadyMember - a membership already exists for this family/member.
	ErrAlreadyMember = errors.New("already a member of this family")

	// ErrConcurrentConsumption - a store precondition failed: someone else
	// already decided this invitation. The caller should re-fetch state.
	ErrConcurrentConsumption = errors.New("invitation was already consumed")

	// ErrConditionFailed - low-level conditional write failure reported by
	// DynamoService; decision flows translate it to ErrConcurrentConsumption.
	ErrConditionFailed = errors.New("conditional check failed")
)
