package ledger

import "errors"

var (
	ErrInvalidWithdrawer  = errors.New("withdrawer is not a member of the committee")
	ErrDuplicateMonth     = errors.New("a withdrawal is already recorded for this month")
	ErrInvalidAmount      = errors.New("amount must be a finite, non-negative number")
	ErrCommitteeCompleted = errors.New("committee is completed")
	ErrCommitteeNotFound  = errors.New("committee not found")

	ErrUnknownMember      = errors.New("member does not belong to the committee")
	ErrInvalidMonth       = errors.New("month is outside the committee duration")
	ErrInvalidPaymentMode = errors.New("payment mode must be cash, banking or online")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrCycleNotFound      = errors.New("no withdrawal recorded for this month")
	ErrInvalidCommittee   = errors.New("invalid committee")
	ErrInvalidSettings    = errors.New("late fee settings must be finite and non-negative")
	ErrInvalidRequest     = errors.New("invalid request")
)
