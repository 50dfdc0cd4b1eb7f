package domain

import "github.com/google/uuid"

// HoldRef identifies a reservation of funds placed with the account service.
type HoldRef uuid.UUID

func (h HoldRef) String() string { return uuid.UUID(h).String() }

// AccountError is returned by account service implementations. Its Kind is
// always one of the account failure kinds; NewAccountError folds anything else
// into KindInternalError.
type AccountError struct {
	Kind    FailureKind
	Message string
}

func NewAccountError(kind FailureKind, message string) *AccountError {
	if !IsAccountKind(kind) {
		kind = KindInternalError
	}
	return &AccountError{Kind: kind, Message: message}
}

func (e *AccountError) Error() string {
	if e.Message == "" {
		return "account service: " + e.Kind.String()
	}
	return "account service: " + e.Kind.String() + ": " + e.Message
}

func IsAccountKind(kind FailureKind) bool {
	switch kind {
	case KindInsufficientFunds, KindInvalidAccountNumber, KindServiceUnavailable, KindInternalError:
		return true
	}
	return false
}

// AccountKindFromCode parses the wire code used by the account service API.
// Unknown codes are reported as internal errors.
func AccountKindFromCode(code string) FailureKind {
	for kind, name := range kindNames {
		if name == code && IsAccountKind(kind) {
			return kind
		}
	}
	return KindInternalError
}
