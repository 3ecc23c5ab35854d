package client

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotLoggedIn  = errors.New("not logged in")
)

// RemoteError is a failure reported by the server.
type RemoteError struct {
	Code    codes.Code
	Reason  string
	Message string
	Fields  map[string]string
}

func (e *RemoteError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(e.Message)
	for _, f := range names {
		fmt.Fprintf(&b, "\n  %s: %s", f, e.Fields[f])
	}
	return b.String()
}

func (e *RemoteError) Unwrap() error {
	if e.Code == codes.Unauthenticated {
		return ErrUnauthorized
	}
	return nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	}

	re := &RemoteError{Code: st.Code(), Message: st.Message()}
	for _, d := range st.Details() {
		switch d := d.(type) {
		case *errdetails.ErrorInfo:
			re.Reason = d.GetReason()
		case *errdetails.BadRequest:
			re.Fields = make(map[string]string, len(d.GetFieldViolations()))
			for _, v := range d.GetFieldViolations() {
				re.Fields[v.GetField()] = v.GetDescription()
			}
		}
	}
	return re
}
