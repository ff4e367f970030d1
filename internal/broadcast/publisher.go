// Package broadcast fans accepted match snapshots out to independently
// paced subscribers. Overflow policy: each subscriber has a bounded
// buffer, and a subscriber whose buffer is full at publish time is closed
// and removed. Publishing never blocks the authoritative request path.
package broadcast

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/kressly/refereectl/internal/match"
	"github.com/kressly/refereectl/internal/observability"
)

var ErrDuplicateSubscriber = errors.New("broadcast: subscriber id already registered")

const DefaultBuffer = 16

type Publisher struct {
	mu     sync.Mutex
	subs   map[string]chan match.Snapshot
	buffer int
}

func NewPublisher(buffer int) *Publisher {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Publisher{
		subs:   make(map[string]chan match.Snapshot),
		buffer: buffer,
	}
}

// Subscribe registers id and returns its snapshot channel. The channel is
// closed when the subscriber is removed, whether by Unsubscribe, overflow,
// or Close.
func (p *Publisher) Subscribe(id string) (<-chan match.Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.subs[id]; ok {
		return nil, ErrDuplicateSubscriber
	}
	ch := make(chan match.Snapshot, p.buffer)
	p.subs[id] = ch
	return ch, nil
}

func (p *Publisher) Unsubscribe(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ch, ok := p.subs[id]; ok {
		close(ch)
		delete(p.subs, id)
	}
}

// Publish hands snap to every live subscriber without blocking. A
// subscriber that cannot keep up is dropped.
func (p *Publisher) Publish(snap match.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, ch := range p.subs {
		select {
		case ch <- snap:
		default:
			log.Warn().Str("subscriber", id).Uint64("generation", snap.Generation).
				Msg("broadcast subscriber overflowed, dropping")
			observability.RecordBroadcastDrop(id)
			close(ch)
			delete(p.subs, id)
		}
	}
}

func (p *Publisher) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}

// Close removes every subscriber.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, ch := range p.subs {
		close(ch)
		delete(p.subs, id)
	}
}
