package interceptors

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pkgerrors "github.com/reeljournal/reeljournal/pkg/errors"
)

// UnaryErrorInterceptor converts application errors into gRPC statuses.
func UnaryErrorInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		resp, err := handler(ctx, req)
		return resp, ToStatus(err)
	}
}

// ToStatus maps err to a gRPC status error. Errors that already carry a
// status pass through; unknown errors become Internal without detail.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var code codes.Code
	switch pkgerrors.TypeOf(err) {
	case pkgerrors.ErrorTypeInvalidArgument:
		code = codes.InvalidArgument
	case pkgerrors.ErrorTypeNotFound:
		code = codes.NotFound
	case pkgerrors.ErrorTypeConflict:
		code = codes.AlreadyExists
	case pkgerrors.ErrorTypeUnauthorized:
		code = codes.Unauthenticated
	case pkgerrors.ErrorTypeForbidden:
		code = codes.PermissionDenied
	default:
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, err.Error())
}
