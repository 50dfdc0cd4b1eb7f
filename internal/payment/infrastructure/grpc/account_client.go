package grpc

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmehra2102/payment-ledger/internal/payment/domain"
	pb "github.com/dmehra2102/payment-ledger/internal/payment/infrastructure/grpc/proto"
	"github.com/dmehra2102/payment-ledger/pkg/tracing"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// AccountClient places and releases holds on the account service.
type AccountClient struct {
	log     *slog.Logger
	conn    *grpc.ClientConn
	cc      pb.AccountServiceClient
	timeout time.Duration
	tracer  trace.Tracer
}

func NewAccountClient(log *slog.Logger, addr string, timeout time.Duration, opts ...grpc.DialOption) (*AccountClient, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(tracing.UnaryClientInterceptor()),
	}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}
	return &AccountClient{
		log:     log,
		conn:    conn,
		cc:      pb.NewAccountServiceClient(conn),
		timeout: timeout,
		tracer:  otel.Tracer("account-client"),
	}, nil
}

func (c *AccountClient) Close() error { return c.conn.Close() }

func (c *AccountClient) PlaceHold(ctx context.Context, cardNumber string, amount int32) (domain.HoldRef, error) {
	ctx, span := c.tracer.Start(ctx, "AccountClient.PlaceHold", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.cc.PlaceHold(ctx, &pb.PlaceHoldRequest{CardNumber: cardNumber, Amount: amount})
	if err != nil {
		err = c.accountError("place hold", err)
		span.RecordError(err)
		return domain.HoldRef{}, err
	}
	ref, err := uuid.Parse(resp.GetHoldRef())
	if err != nil || ref == uuid.Nil {
		return domain.HoldRef{}, domain.NewAccountError(domain.KindInternalError, "malformed hold reference")
	}
	return domain.HoldRef(ref), nil
}

func (c *AccountClient) ReleaseHold(ctx context.Context, ref domain.HoldRef) error {
	ctx, span := c.tracer.Start(ctx, "AccountClient.ReleaseHold", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := c.cc.ReleaseHold(ctx, &pb.ReleaseHoldRequest{HoldRef: ref.String()}); err != nil {
		err = c.accountError("release hold", err)
		span.RecordError(err)
		return err
	}
	return nil
}

// accountError maps a call failure to an AccountError. An ErrorInfo detail
// names the kind; without one only transport failures are told apart from
// internal errors.
func (c *AccountClient) accountError(op string, err error) error {
	st := status.Convert(err)
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetReason() != "" {
			return domain.NewAccountError(domain.AccountKindFromCode(info.GetReason()), st.Message())
		}
	}
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		c.log.Error("account service unreachable", "op", op, "code", st.Code().String(), "err", st.Message())
		return domain.NewAccountError(domain.KindServiceUnavailable, st.Message())
	}
	return domain.NewAccountError(domain.KindInternalError, st.Message())
}
