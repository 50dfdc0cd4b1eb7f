package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

func TestUnaryClientInterceptorInjectsTraceparent(t *testing.T) {
	ctx := WithTraceparent(context.Background(), sampleTraceparent)
	ctx = metadata.AppendToOutgoingContext(ctx, "x-request-id", "r1")

	var sent metadata.MD
	invoker := func(ctx context.Context, _ string, _, _ any, _ *grpc.ClientConn, _ ...grpc.CallOption) error {
		sent, _ = metadata.FromOutgoingContext(ctx)
		return nil
	}
	require.NoError(t, UnaryClientInterceptor()(ctx, "/account.v1.AccountService/PlaceHold", nil, nil, nil, invoker))

	assert.Equal(t, []string{sampleTraceparent}, sent.Get(TraceparentHeader))
	assert.Equal(t, []string{"r1"}, sent.Get("x-request-id"))
}

func TestUnaryServerInterceptorExtractsTraceparent(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(TraceparentHeader, sampleTraceparent))

	var got trace.SpanContext
	_, err := UnaryServerInterceptor()(ctx, nil, &grpc.UnaryServerInfo{}, func(ctx context.Context, _ any) (any, error) {
		got = trace.SpanContextFromContext(ctx)
		return nil, nil
	})

	require.NoError(t, err)
	assert.True(t, got.IsRemote())
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", got.TraceID().String())
}
