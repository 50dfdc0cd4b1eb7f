package grpc

import (
	"context"
	"errors"
	"net"

	"github.com/dmehra2102/payment-ledger/internal/payment/application"
	"github.com/dmehra2102/payment-ledger/internal/payment/domain"
	pb "github.com/dmehra2102/payment-ledger/internal/payment/infrastructure/grpc/proto"
	"github.com/dmehra2102/payment-ledger/pkg/tracing"
	"github.com/google/uuid"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const errorDomain = "account.v1"

// AccountServer serves an AccountService over gRPC. The account-stub command
// runs it in front of the dummy account service.
type AccountServer struct {
	pb.UnimplementedAccountServiceServer
	accounts application.AccountService
}

func NewAccountServer(accounts application.AccountService) *AccountServer {
	return &AccountServer{accounts: accounts}
}

func (s *AccountServer) PlaceHold(ctx context.Context, req *pb.PlaceHoldRequest) (*pb.PlaceHoldResponse, error) {
	ref, err := s.accounts.PlaceHold(ctx, req.GetCardNumber(), req.GetAmount())
	if err != nil {
		return nil, statusOf(err)
	}
	return &pb.PlaceHoldResponse{HoldRef: ref.String()}, nil
}

func (s *AccountServer) ReleaseHold(ctx context.Context, req *pb.ReleaseHoldRequest) (*pb.ReleaseHoldResponse, error) {
	ref, err := uuid.Parse(req.GetHoldRef())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "malformed hold reference")
	}
	if err := s.accounts.ReleaseHold(ctx, domain.HoldRef(ref)); err != nil {
		return nil, statusOf(err)
	}
	return &pb.ReleaseHoldResponse{}, nil
}

// statusOf renders an account failure as a status whose ErrorInfo reason is
// the failure code.
func statusOf(err error) error {
	kind := domain.KindInternalError
	var accErr *domain.AccountError
	if errors.As(err, &accErr) {
		kind = accErr.Kind
	}

	code := codes.Internal
	switch kind {
	case domain.KindInsufficientFunds:
		code = codes.FailedPrecondition
	case domain.KindInvalidAccountNumber:
		code = codes.InvalidArgument
	case domain.KindServiceUnavailable:
		code = codes.Unavailable
	}

	st, detErr := status.New(code, err.Error()).WithDetails(&errdetails.ErrorInfo{Reason: kind.String(), Domain: errorDomain})
	if detErr != nil {
		return status.Error(code, err.Error())
	}
	return st.Err()
}

func NewServer(srv *AccountServer) *grpc.Server {
	gs := grpc.NewServer(grpc.UnaryInterceptor(tracing.UnaryServerInterceptor()))
	pb.RegisterAccountServiceServer(gs, srv)
	return gs
}

func Run(addr string, srv *AccountServer) (*grpc.Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	gs := NewServer(srv)
	go func() {
		_ = gs.Serve(lis)
	}()
	return gs, nil
}
