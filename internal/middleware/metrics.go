package middleware

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/splitter/internal/metrics"
)

// MetricsInterceptor counts RPCs by procedure and result code.
func MetricsInterceptor(recorder *metrics.Recorder) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			recorder.ObserveRPC(req.Spec().Procedure, code)

			return resp, err
		}
	}
}
