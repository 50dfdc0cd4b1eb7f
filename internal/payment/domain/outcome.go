package domain

// StatusClass is the caller-visible class of an outcome. The transport layer
// turns it into a concrete protocol status.
type StatusClass int

const (
	ClassInternal StatusClass = iota
	ClassBadInput
	ClassNoContent
	ClassUnprocessable
	ClassPaymentRequired
	ClassForbidden
	ClassNotFound
	ClassServiceUnavailable
)

// ServerSide reports whether the class blames the ledger or its collaborators
// rather than the caller.
func (c StatusClass) ServerSide() bool {
	return c == ClassInternal || c == ClassServiceUnavailable
}

var failureClasses = map[FailureKind]StatusClass{
	KindNegativeAmount:          ClassBadInput,
	KindZeroAmount:              ClassNoContent,
	KindInvalidInstrumentFormat: ClassUnprocessable,
	KindDuplicatedInstrument:    ClassUnprocessable,
	KindInsufficientFunds:       ClassPaymentRequired,
	KindInvalidAccountNumber:    ClassForbidden,
	KindServiceUnavailable:      ClassServiceUnavailable,
	KindInternalError:           ClassInternal,
	KindPaymentNotFound:         ClassNotFound,
	KindExcessiveAmount:         ClassUnprocessable,
	KindStorage:                 ClassInternal,
}

// Outcome is what a caller sees for a failed operation.
type Outcome struct {
	Class  StatusClass
	Status Status
}

// OutcomeOf maps a failure kind to its caller-visible class and to the
// payment status shown for the rejected request. Server-side classes show
// StatusFailed, every other class StatusDeclined.
func OutcomeOf(kind FailureKind) Outcome {
	class, ok := failureClasses[kind]
	if !ok {
		class = ClassInternal
	}
	status := StatusDeclined
	if class.ServerSide() {
		status = StatusFailed
	}
	return Outcome{Class: class, Status: status}
}
