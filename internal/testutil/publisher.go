package testutil

import (
	"context"
	"sync"

	"vidhub/internal/domain/entity"
	"vidhub/internal/domain/service"
)

// Publisher records published account events.
type Publisher struct {
	mu     sync.Mutex
	events []*service.AccountEvent
	Err    error
}

var _ service.EventPublisher = (*Publisher)(nil)

func (p *Publisher) PublishAccountEvent(_ context.Context, event *service.AccountEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Err != nil {
		return p.Err
	}
	p.events = append(p.events, event)

	return nil
}

func (p *Publisher) Close() error {
	return nil
}

// Types returns the recorded event types in publish order.
func (p *Publisher) Types() []entity.AccountEventType {
	p.mu.Lock()
	defer p.mu.Unlock()

	types := make([]entity.AccountEventType, 0, len(p.events))
	for _, event := range p.events {
		types = append(types, event.Type)
	}

	return types
}

// Events returns the recorded events.
func (p *Publisher) Events() []*service.AccountEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]*service.AccountEvent(nil), p.events...)
}
