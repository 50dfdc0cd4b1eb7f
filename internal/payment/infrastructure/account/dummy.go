package account

import (
	"context"
	"sync"

	"github.com/dmehra2102/payment-ledger/internal/payment/domain"
	"github.com/google/uuid"
)

// Dummy is an in-process account service for local runs and tests. With an
// empty response every hold succeeds; otherwise every hold fails with the
// account error named by response (for example "insufficient_funds").
type Dummy struct {
	response string

	mu       sync.Mutex
	held     map[domain.HoldRef]int32
	released []domain.HoldRef
}

func NewDummy(response string) *Dummy {
	return &Dummy{response: response, held: map[domain.HoldRef]int32{}}
}

func (d *Dummy) PlaceHold(ctx context.Context, cardNumber string, amount int32) (domain.HoldRef, error) {
	if err := ctx.Err(); err != nil {
		return domain.HoldRef{}, domain.NewAccountError(domain.KindServiceUnavailable, err.Error())
	}
	if d.response != "" {
		return domain.HoldRef{}, domain.NewAccountError(domain.AccountKindFromCode(d.response), "")
	}

	ref := domain.HoldRef(uuid.New())
	d.mu.Lock()
	d.held[ref] = amount
	d.mu.Unlock()
	return ref, nil
}

func (d *Dummy) ReleaseHold(_ context.Context, ref domain.HoldRef) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.held[ref]; !ok {
		return domain.NewAccountError(domain.KindInternalError, "unknown hold "+ref.String())
	}
	delete(d.held, ref)
	d.released = append(d.released, ref)
	return nil
}

// Held returns the number of holds placed and not released.
func (d *Dummy) Held() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.held)
}

// Released returns the holds released so far, in order.
func (d *Dummy) Released() []domain.HoldRef {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]domain.HoldRef(nil), d.released...)
}
