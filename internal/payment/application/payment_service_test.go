package application_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/dmehra2102/payment-ledger/internal/payment/application"
	"github.com/dmehra2102/payment-ledger/internal/payment/domain"
	"github.com/dmehra2102/payment-ledger/internal/payment/infrastructure/account"
	"github.com/dmehra2102/payment-ledger/internal/payment/infrastructure/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const card = "123456789012345"

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockAccounts struct {
	mock.Mock
}

func (m *mockAccounts) PlaceHold(ctx context.Context, cardNumber string, amount int32) (domain.HoldRef, error) {
	args := m.Called(ctx, cardNumber, amount)
	return args.Get(0).(domain.HoldRef), args.Error(1)
}

func (m *mockAccounts) ReleaseHold(ctx context.Context, ref domain.HoldRef) error {
	return m.Called(ctx, ref).Error(0)
}

type mockPaymentRepo struct {
	mock.Mock
}

func (m *mockPaymentRepo) CreateWithOutbox(ctx context.Context, p domain.Payment, ev application.Event) (domain.Payment, error) {
	args := m.Called(ctx, p, ev)
	return args.Get(0).(domain.Payment), args.Error(1)
}

func (m *mockPaymentRepo) Get(ctx context.Context, id uuid.UUID) (domain.Payment, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Payment), args.Error(1)
}

func TestCreatePaymentValidatesBeforeHold(t *testing.T) {
	tests := []struct {
		name   string
		amount int32
		card   string
		want   domain.FailureKind
	}{
		{"negative", -1, card, domain.KindNegativeAmount},
		{"zero", 0, card, domain.KindZeroAmount},
		{"zero beats bad card", 0, "abc", domain.KindZeroAmount},
		{"short card", 10, "12345678901234", domain.KindInvalidInstrumentFormat},
		{"letters", 10, "12345678901234a", domain.KindInvalidInstrumentFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := new(mockAccounts)
			repo := new(mockPaymentRepo)
			svc := application.NewPaymentService(quietLogger(), repo, accounts)

			_, err := svc.Create(context.Background(), tt.amount, tt.card, domain.StatusApproved)

			assert.Equal(t, tt.want, domain.KindOf(err))
			accounts.AssertNotCalled(t, "PlaceHold", mock.Anything, mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "CreateWithOutbox", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCreatePaymentAccountFailurePassesThrough(t *testing.T) {
	for _, kind := range []domain.FailureKind{
		domain.KindInsufficientFunds,
		domain.KindInvalidAccountNumber,
		domain.KindServiceUnavailable,
		domain.KindInternalError,
	} {
		t.Run(kind.String(), func(t *testing.T) {
			accounts := new(mockAccounts)
			repo := new(mockPaymentRepo)
			accounts.On("PlaceHold", mock.Anything, card, int32(1205)).Return(domain.HoldRef{}, domain.NewAccountError(kind, ""))
			svc := application.NewPaymentService(quietLogger(), repo, accounts)

			_, err := svc.Create(context.Background(), 1205, card, domain.StatusApproved)

			assert.Equal(t, kind, domain.KindOf(err))
			repo.AssertNotCalled(t, "CreateWithOutbox", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCreatePaymentUntypedAccountErrorIsInternal(t *testing.T) {
	accounts := new(mockAccounts)
	accounts.On("PlaceHold", mock.Anything, card, int32(5)).Return(domain.HoldRef{}, errors.New("boom"))
	svc := application.NewPaymentService(quietLogger(), new(mockPaymentRepo), accounts)

	_, err := svc.Create(context.Background(), 5, card, domain.StatusApproved)

	assert.Equal(t, domain.KindInternalError, domain.KindOf(err))
}

func TestCreatePaymentReleasesHoldOnStoreFailure(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
		want    domain.FailureKind
	}{
		{"duplicate", domain.NewFailure(domain.KindDuplicatedInstrument, nil), domain.KindDuplicatedInstrument},
		{"connection lost", errors.New("conn reset"), domain.KindStorage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hold := domain.HoldRef(uuid.New())
			accounts := new(mockAccounts)
			repo := new(mockPaymentRepo)
			accounts.On("PlaceHold", mock.Anything, card, int32(100)).Return(hold, nil)
			accounts.On("ReleaseHold", mock.Anything, hold).Return(nil).Once()
			repo.On("CreateWithOutbox", mock.Anything, mock.Anything, mock.Anything).Return(domain.Payment{}, tt.repoErr)
			svc := application.NewPaymentService(quietLogger(), repo, accounts)

			_, err := svc.Create(context.Background(), 100, card, domain.StatusApproved)

			assert.Equal(t, tt.want, domain.KindOf(err))
			accounts.AssertExpectations(t)
		})
	}
}

func TestCreatePaymentReleaseFailureKeepsOriginalError(t *testing.T) {
	hold := domain.HoldRef(uuid.New())
	accounts := new(mockAccounts)
	repo := new(mockPaymentRepo)
	accounts.On("PlaceHold", mock.Anything, card, int32(100)).Return(hold, nil)
	accounts.On("ReleaseHold", mock.Anything, hold).Return(errors.New("bank down"))
	repo.On("CreateWithOutbox", mock.Anything, mock.Anything, mock.Anything).
		Return(domain.Payment{}, domain.NewFailure(domain.KindDuplicatedInstrument, nil))
	svc := application.NewPaymentService(quietLogger(), repo, accounts)

	_, err := svc.Create(context.Background(), 100, card, domain.StatusApproved)

	assert.Equal(t, domain.KindDuplicatedInstrument, domain.KindOf(err))
}

func TestCreatePaymentStoresEvent(t *testing.T) {
	store := memory.NewStore()
	svc := application.NewPaymentService(quietLogger(), store.Payments(), account.NewDummy(""))

	p, err := svc.Create(context.Background(), 1205, card, domain.StatusApproved)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, int32(1205), p.Amount)
	assert.Zero(t, p.RefundedAmount)
	assert.Equal(t, domain.StatusApproved, p.Status)

	got, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	events := store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventPaymentCreated, events[0].Type)
	assert.JSONEq(t, `{"payment_id":"`+p.ID.String()+`","amount":1205,"status":"approved"}`, string(events[0].Payload))
}

func TestCreatePaymentInvalidStatus(t *testing.T) {
	var logs bytes.Buffer
	accounts := new(mockAccounts)
	svc := application.NewPaymentService(slog.New(slog.NewJSONHandler(&logs, nil)), new(mockPaymentRepo), accounts)

	_, err := svc.Create(context.Background(), 10, card, domain.Status("settled"))

	assert.Equal(t, domain.KindInternalError, domain.KindOf(err))
	accounts.AssertNotCalled(t, "PlaceHold", mock.Anything, mock.Anything, mock.Anything)
	assert.Contains(t, logs.String(), `"msg":"payment failed"`)
	assert.Contains(t, logs.String(), `"kind":"internal_error"`)
}

func TestGetPaymentUnknown(t *testing.T) {
	svc := application.NewPaymentService(quietLogger(), memory.NewStore().Payments(), account.NewDummy(""))

	_, err := svc.Get(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
}

func TestConcurrentDuplicateCardExactlyOneWins(t *testing.T) {
	store := memory.NewStore()
	accounts := account.NewDummy("")
	svc := application.NewPaymentService(quietLogger(), store.Payments(), accounts)

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), 100, card, domain.StatusApproved)
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case domain.IsKind(err, domain.KindDuplicatedInstrument):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, dup)
	assert.Equal(t, 1, accounts.Held(), "losing holds are released")
	assert.Len(t, accounts.Released(), n-1)
}
