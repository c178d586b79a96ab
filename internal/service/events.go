package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// EventPublisher sends a domain event under routingKey.  Publishing is
// best effort: a failure is logged and never fails the request.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, any) error { return nil }

func publish(ctx context.Context, p EventPublisher, log *logrus.Entry, key string, event any) {
	if err := p.Publish(ctx, key, event); err != nil {
		log.WithError(err).WithField("event", key).Warn("publish event failed")
	}
}

func nowRFC3339() string { return time.Now().UTC().Format(time.RFC3339) }
