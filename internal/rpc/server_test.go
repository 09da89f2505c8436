package rpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/vietddude/triage/internal/core/corpus"
	"github.com/vietddude/triage/internal/core/domain"
	"github.com/vietddude/triage/internal/engine"
)

func dial(t *testing.T, p Predictor) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := NewServer(0, p)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Stop(ctx)
	})

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestPredict(t *testing.T) {
	e, err := engine.Train(context.Background(), corpus.Default(), engine.DefaultOptions())
	require.NoError(t, err)
	conn := dial(t, e)

	tests := []struct {
		text string
		want domain.Verdict
	}{
		{"database connection failed", domain.Verdict{Category: "database", Severity: domain.SeverityHigh}},
		{"unauthorized access attempt", domain.Verdict{Category: "security", Severity: domain.SeverityCritical}},
	}
	for _, tt := range tests {
		got, err := Predict(context.Background(), conn, tt.text)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	got, err := Predict(context.Background(), conn, "")
	require.NoError(t, err)
	assert.Contains(t, e.Categories(), got.Category)
}

type constPredictor struct{}

func (constPredictor) Predict(string) domain.Verdict {
	return domain.Verdict{Category: "api", Severity: domain.SeverityHigh}
}

func TestPredictInvalidArgument(t *testing.T) {
	conn := dial(t, constPredictor{})

	tests := []struct {
		name string
		req  *structpb.Struct
	}{
		{"missing text", &structpb.Struct{}},
		{"number text", &structpb.Struct{Fields: map[string]*structpb.Value{
			"text": structpb.NewNumberValue(42),
		}}},
		{"null text", &structpb.Struct{Fields: map[string]*structpb.Value{
			"text": structpb.NewNullValue(),
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := conn.Invoke(context.Background(), PredictFullMethod, tt.req, new(structpb.Struct))
			require.Error(t, err)

			st := status.Convert(err)
			assert.Equal(t, codes.InvalidArgument, st.Code())

			require.Len(t, st.Details(), 1)
			br, ok := st.Details()[0].(*errdetails.BadRequest)
			require.True(t, ok)
			assert.Equal(t, "text", br.GetFieldViolations()[0].GetField())
		})
	}
}

func TestHealthService(t *testing.T) {
	conn := dial(t, constPredictor{})
	client := healthpb.NewHealthClient(conn)

	resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}
