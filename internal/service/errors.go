package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/kanzlei/internal/middleware"
	"github.com/mmynk/kanzlei/internal/storage"
)

var (
	errIDRequired      = errors.New("id is required")
	errUnauthenticated = errors.New("authentication required")
)

// toConnectError maps storage and context errors to Connect codes.
// Anything unrecognised is an internal error.
func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return connectErr
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// failed logs err at a level matching its code and returns it as a Connect error.
func failed(op string, err error, args ...any) error {
	ce := toConnectError(err)
	args = append(args, "error", err)
	switch ce.Code() {
	case connect.CodeInternal, connect.CodeUnknown:
		slog.Error(op+" failed", args...)
	default:
		slog.Warn(op+" failed", args...)
	}
	return ce
}

func invalidArgument(msg string) error {
	return connect.NewError(connect.CodeInvalidArgument, errors.New(msg))
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return connect.NewError(connect.CodeInvalidArgument, errIDRequired)
	}
	return nil
}

// actorName is the name recorded as owner, creator or history user:
// the caller's display name, else their email.
func actorName(ctx context.Context) string {
	if name := middleware.GetName(ctx); name != "" {
		return name
	}
	return middleware.GetEmail(ctx)
}

// now returns the current time at the precision records are stored with.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
