package composables

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/salescope/salescope/pkg/constants"
)

var (
	ErrNoLogger    = errors.New("logger not found")
	ErrNoRequester = errors.New("requester not found in context")
)

// WithRequester attaches the already-authenticated employee identity to the
// context. Authentication itself happens upstream; the core only consumes
// the resolved identifier.
func WithRequester(ctx context.Context, employeeID uuid.UUID) context.Context {
	return context.WithValue(ctx, constants.RequesterKey, employeeID)
}

func UseRequester(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(constants.RequesterKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, ErrNoRequester
	}
	return id, nil
}

func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, logger)
}

func UseLogger(ctx context.Context) (*logrus.Entry, error) {
	logger, ok := ctx.Value(constants.LoggerKey).(*logrus.Entry)
	if !ok {
		return nil, ErrNoLogger
	}
	return logger, nil
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, constants.RequestIDKey, id)
}

func UseRequestID(ctx context.Context) string {
	id, _ := ctx.Value(constants.RequestIDKey).(string)
	return id
}
