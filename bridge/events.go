package bridge

import (
	"sync"

	"github.com/ClipFinance/rwa-bridge/common/types"
	"github.com/sirupsen/logrus"
)

// Listener receives bridge events. Listeners run synchronously on the emitting goroutine.
type Listener func(types.Event)

type subscription struct {
	id       uint64
	listener Listener
}

// Emitter delivers events to its subscribers in subscription order.
type Emitter struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
	logger *logrus.Logger
}

// NewEmitter creates an emitter without subscribers.
func NewEmitter(logger *logrus.Logger) *Emitter {
	return &Emitter{logger: logger}
}

// Subscribe registers a listener and returns the function removing it.
func (e *Emitter) Subscribe(listener Listener) (unsubscribe func()) {
	e.mu.Lock()
	e.nextID++
	id := e.nextID
	e.subs = append(e.subs, subscription{id: id, listener: listener})
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			for i, s := range e.subs {
				if s.id == id {
					e.subs = append(e.subs[:i:i], e.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Emit delivers the event to every current subscriber. A panicking listener is
// logged and does not stop delivery to the others.
func (e *Emitter) Emit(event types.Event) {
	e.mu.RLock()
	subs := make([]subscription, len(e.subs))
	copy(subs, e.subs)
	e.mu.RUnlock()

	for _, s := range subs {
		e.deliver(s.listener, event)
	}
}

func (e *Emitter) deliver(listener Listener, event types.Event) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.WithFields(logrus.Fields{
				"transferID": event.Transfer.ID,
				"event":      event.Type,
				"panic":      r,
			}).Error("Event listener panicked")
		}
	}()
	listener(event)
}
