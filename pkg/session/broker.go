package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Reasons carried by a change signal
const (
	ReasonLogin   = "login"
	ReasonLogout  = "logout"
	ReasonExpired = "expired"
)

// Signal tells subscribers the session may have changed. It carries no
// session data; receivers re-read the store.
type Signal struct {
	Origin string    `json:"origin"`
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
}

// Broker is the publish/subscribe channel for change signals
type Broker interface {
	Publish(ctx context.Context, sig Signal) error
	Subscribe(ctx context.Context) (<-chan Signal, func(), error)
}

// subscriberBuffer bounds how many signals can queue for a slow subscriber.
// Dropping beyond it is safe: one pending signal already causes a re-read.
const subscriberBuffer = 8

// LocalBroker fans signals out to subscribers inside this process
type LocalBroker struct {
	origin string

	mu     sync.Mutex
	nextID int
	subs   map[int]chan Signal
}

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{
		origin: uuid.New().String(),
		subs:   make(map[int]chan Signal),
	}
}

// Origin identifies this process on shared channels
func (b *LocalBroker) Origin() string {
	return b.origin
}

func (b *LocalBroker) Publish(ctx context.Context, sig Signal) error {
	if sig.Origin == "" {
		sig.Origin = b.origin
	}
	if sig.At.IsZero() {
		sig.At = time.Now()
	}
	b.deliver(sig)
	return nil
}

func (b *LocalBroker) Subscribe(ctx context.Context) (<-chan Signal, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Signal, subscriberBuffer)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
	return ch, cancel, nil
}

// Subscribers returns the number of live subscriptions
func (b *LocalBroker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *LocalBroker) deliver(sig Signal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- sig:
		default:
		}
	}
}
