package grpc

import (
	"context"
	"errors"
	"sort"

	"github.com/dmitrijs2005/socialhub/internal/common"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorDomain tags the ErrorInfo detail attached to every non-internal error.
const ErrorDomain = "socialhub"

var kindCodes = map[common.Kind]codes.Code{
	common.KindValidation:       codes.InvalidArgument,
	common.KindAuth:             codes.Unauthenticated,
	common.KindForbidden:        codes.PermissionDenied,
	common.KindNotFound:         codes.NotFound,
	common.KindConflict:         codes.AlreadyExists,
	common.KindExternalIdentity: codes.FailedPrecondition,
	common.KindInternal:         codes.Internal,
}

// toStatus renders err as a gRPC status. Internal errors lose their cause;
// validation errors carry their field messages as BadRequest violations.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var e *common.Error
	if !errors.As(err, &e) || e.Kind == common.KindInternal {
		return status.Error(codes.Internal, common.ErrorInternal.Error())
	}

	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	st := status.New(kindCodes[e.Kind], msg)

	info := &errdetails.ErrorInfo{Reason: e.Kind.String(), Domain: ErrorDomain}
	if len(e.Fields) == 0 {
		if withDetails, derr := st.WithDetails(info); derr == nil {
			st = withDetails
		}
		return st.Err()
	}

	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	br := &errdetails.BadRequest{}
	for _, f := range fields {
		br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       f,
			Description: e.Fields[f],
		})
	}
	if withDetails, derr := st.WithDetails(info, br); derr == nil {
		st = withDetails
	}
	return st.Err()
}

// fail logs errors the caller cannot act on and converts err to a status.
func (s *GRPCServer) fail(ctx context.Context, err error) error {
	if common.KindOf(err) == common.KindInternal {
		s.logger.Error(ctx, "request failed", "error", err)
	}
	return toStatus(err)
}
