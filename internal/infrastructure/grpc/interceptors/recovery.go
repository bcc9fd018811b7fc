package interceptors

import (
	"context"
	"runtime/debug"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errPanic = status.Error(codes.Internal, "internal server error")

// UnaryRecoveryInterceptor turns handler panics into Internal errors. The
// panic value is logged, never returned to the caller.
func UnaryRecoveryInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer recoverTo(logger, info.FullMethod, &err)
		return handler(ctx, req)
	}
}

func StreamRecoveryInterceptor(logger *zap.Logger) grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
		defer recoverTo(logger, info.FullMethod, &err)
		return handler(srv, ss)
	}
}

func recoverTo(logger *zap.Logger, method string, err *error) {
	r := recover()
	if r == nil {
		return
	}
	logger.Error("panic recovered",
		zap.String("method", method),
		zap.Any("panic", r),
		zap.ByteString("stack", debug.Stack()))
	*err = errPanic
}
