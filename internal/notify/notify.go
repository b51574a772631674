// Package notify delivers document change events to observers.
//
// Sessions publish a Change after every edit, format, undo, redo and load.
// Observers subscribe to all changes or to one Kind, and are called in
// subscription order. Delivery is synchronous unless WithAsync is given.
package notify

import (
	"sort"
	"sync"

	"github.com/dshills/rte/internal/engine/doc"
	"github.com/dshills/rte/internal/logging"
)

// Kind is the kind of document change.
type Kind int

const (
	// KindEdit is an organic text edit.
	KindEdit Kind = iota
	// KindFormat is a mark applied or removed.
	KindFormat
	// KindUndo is a snapshot restored by undo.
	KindUndo
	// KindRedo is a snapshot restored by redo.
	KindRedo
	// KindLoad is a document replaced wholesale, e.g. from host HTML.
	KindLoad
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindEdit:
		return "edit"
	case KindFormat:
		return "format"
	case KindUndo:
		return "undo"
	case KindRedo:
		return "redo"
	case KindLoad:
		return "load"
	default:
		return "unknown"
	}
}

// Change is a document change event.
type Change struct {
	// Kind is the kind of change.
	Kind Kind
	// Session identifies the session that changed.
	Session string
	// Value is the new document.
	Value doc.Value
	// Mark names the mark for KindFormat changes.
	Mark string
}

// Observer is called when a change occurs.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

type subscriber struct {
	observer Observer
	kind     Kind
	allKinds bool
}

// Notifier manages change subscriptions.
type Notifier struct {
	mu sync.RWMutex

	subscribers map[uint64]subscriber
	nextID      uint64

	async  bool
	buffer chan Change
	done   chan struct{}
	wg     sync.WaitGroup
	closed bool

	log *logging.Logger
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithAsync enables asynchronous delivery through a buffer of the given
// size.
func WithAsync(bufferSize int) Option {
	return func(n *Notifier) {
		if bufferSize > 0 {
			n.async = true
			n.buffer = make(chan Change, bufferSize)
		}
	}
}

// WithLogger sets the logger used to report observer panics.
func WithLogger(l *logging.Logger) Option {
	return func(n *Notifier) {
		n.log = l
	}
}

// New creates a new Notifier.
func New(opts ...Option) *Notifier {
	n := &Notifier{
		subscribers: make(map[uint64]subscriber),
		done:        make(chan struct{}),
		log:         logging.Nop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.log = n.log.WithComponent("notify")

	if n.async {
		n.wg.Add(1)
		go n.processAsync()
	}
	return n
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	return n.add(subscriber{observer: observer, allKinds: true})
}

// SubscribeKind registers an observer for changes of one kind.
func (n *Notifier) SubscribeKind(kind Kind, observer Observer) *Subscription {
	return n.add(subscriber{observer: observer, kind: kind})
}

func (n *Notifier) add(s subscriber) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.subscribers[id] = s
	return &Subscription{id: id, notifier: n}
}

// Notify sends a change to all matching observers.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}
	n.mu.RUnlock()

	if n.async {
		select {
		case n.buffer <- change:
		case <-n.done:
		}
		return
	}
	n.deliver(change)
}

// Len returns the number of active subscriptions.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subscribers)
}

// Close shuts down the notifier, delivering any buffered changes first. It
// is safe to call Close multiple times.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	n.mu.Unlock()

	close(n.done)
	n.wg.Wait()
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.subscribers, id)
}

// deliver calls matching observers in subscription order, outside the lock.
func (n *Notifier) deliver(change Change) {
	n.mu.RLock()
	ids := make([]uint64, 0, len(n.subscribers))
	for id, s := range n.subscribers {
		if s.allKinds || s.kind == change.Kind {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	observers := make([]Observer, len(ids))
	for i, id := range ids {
		observers[i] = n.subscribers[id].observer
	}
	n.mu.RUnlock()

	for _, obs := range observers {
		n.call(obs, change)
	}
}

func (n *Notifier) call(obs Observer, change Change) {
	defer func() {
		if r := recover(); r != nil {
			n.log.Error("observer panic on %s: %v", change.Kind, r)
		}
	}()
	obs(change)
}

func (n *Notifier) processAsync() {
	defer n.wg.Done()

	for {
		select {
		case change := <-n.buffer:
			n.deliver(change)
		case <-n.done:
			// Drain remaining buffered changes
			for {
				select {
				case change := <-n.buffer:
					n.deliver(change)
				default:
					return
				}
			}
		}
	}
}
