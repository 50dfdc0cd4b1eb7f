package domain

import (
	"errors"
	"fmt"
)

// FailureKind is the closed set of business failures the ledgers can report.
type FailureKind int

const (
	KindUnknown FailureKind = iota

	// input validation
	KindNegativeAmount
	KindZeroAmount
	KindInvalidInstrumentFormat

	// account service
	KindInsufficientFunds
	KindInvalidAccountNumber
	KindServiceUnavailable
	KindInternalError

	// persistence conflicts
	KindDuplicatedInstrument
	KindPaymentNotFound
	KindExcessiveAmount

	// unclassified store failure
	KindStorage
)

var kindNames = map[FailureKind]string{
	KindNegativeAmount:          "negative_amount",
	KindZeroAmount:              "zero_amount",
	KindInvalidInstrumentFormat: "invalid_instrument_format",
	KindInsufficientFunds:       "insufficient_funds",
	KindInvalidAccountNumber:    "invalid_account_number",
	KindServiceUnavailable:      "service_unavailable",
	KindInternalError:           "internal_error",
	KindDuplicatedInstrument:    "duplicated_instrument",
	KindPaymentNotFound:         "payment_not_found",
	KindExcessiveAmount:         "excessive_amount",
	KindStorage:                 "storage",
}

func (k FailureKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("failure_kind(%d)", int(k))
}

// Failure is the error value returned by the ledgers for every business
// outcome that is not a success.
type Failure struct {
	Kind FailureKind
	Err  error
}

func NewFailure(kind FailureKind, err error) *Failure {
	return &Failure{Kind: kind, Err: err}
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return f.Kind.String() + ": " + f.Err.Error()
	}
	return f.Kind.String()
}

func (f *Failure) Unwrap() error { return f.Err }

// KindOf reports the failure kind carried by err. Errors that carry no kind
// are unclassified store failures.
func KindOf(err error) FailureKind {
	if err == nil {
		return KindUnknown
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindStorage
}

// IsKind is a shorthand for KindOf(err) == kind.
func IsKind(err error, kind FailureKind) bool {
	return err != nil && KindOf(err) == kind
}
