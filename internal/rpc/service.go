// Package rpc exposes the classifier over gRPC.
//
// The service is described by hand instead of generated code: requests and
// responses are google.protobuf.Struct values carrying the same fields as the
// HTTP API.
package rpc

import (
	"context"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/vietddude/triage/internal/core/domain"
	"github.com/vietddude/triage/internal/metrics"
)

const (
	ServiceName       = "triage.v1.Predictor"
	PredictFullMethod = "/" + ServiceName + "/Predict"
	textField         = "text"
	categoryField     = "category"
	severityField     = "severity"
)

// Predictor classifies a text.
type Predictor interface {
	Predict(text string) domain.Verdict
}

// PredictorServer is the server API for the triage.v1.Predictor service.
type PredictorServer interface {
	Predict(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes triage.v1.Predictor for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PredictorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Predict", Handler: predictHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "triage/v1/predictor.proto",
}

func predictHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PredictorServer).Predict(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PredictFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PredictorServer).Predict(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// predictorService adapts a Predictor to PredictorServer.
type predictorService struct {
	predictor Predictor
}

func (s *predictorService) Predict(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	v, ok := req.GetFields()[textField]
	if !ok {
		return nil, invalidText("text is required")
	}
	str, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return nil, invalidText("text must be a string")
	}

	verdict := s.predictor.Predict(str.StringValue)
	metrics.PredictionsTotal.
		WithLabelValues(string(verdict.Category), string(verdict.Severity), "grpc").
		Inc()

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		categoryField: structpb.NewStringValue(string(verdict.Category)),
		severityField: structpb.NewStringValue(string(verdict.Severity)),
	}}, nil
}

func invalidText(msg string) error {
	st := status.New(codes.InvalidArgument, msg)
	detailed, err := st.WithDetails(&errdetails.BadRequest{
		FieldViolations: []*errdetails.BadRequest_FieldViolation{
			{Field: textField, Description: msg},
		},
	})
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}

// Predict calls triage.v1.Predictor/Predict on cc.
func Predict(ctx context.Context, cc grpc.ClientConnInterface, text string, opts ...grpc.CallOption) (domain.Verdict, error) {
	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		textField: structpb.NewStringValue(text),
	}}
	out := new(structpb.Struct)
	if err := cc.Invoke(ctx, PredictFullMethod, req, out, opts...); err != nil {
		return domain.Verdict{}, err
	}

	fields := out.GetFields()
	return domain.Verdict{
		Category: domain.Category(fields[categoryField].GetStringValue()),
		Severity: domain.Severity(fields[severityField].GetStringValue()),
	}, nil
}
