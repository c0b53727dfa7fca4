package handler

import (
	"errors"

	"github.com/ogurasousui/codex-org-hierarchy/internal/core/employee"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toStatusError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, employee.ErrValidationFailed):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, employee.ErrDuplicateEmployeeID), errors.Is(err, employee.ErrDuplicateEmail):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, employee.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, employee.ErrSelfReference), errors.Is(err, employee.ErrCycleDetected):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, employee.ErrTraversalLimit):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, employee.ErrBackingStoreUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
