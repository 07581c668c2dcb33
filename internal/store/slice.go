package store

import (
	"strconv"
	"sync"

	"github.com/mytherion/client/internal/logger"
)

// Status is the async lifecycle part shared by every slice.
type Status struct {
	// Loading is true while any operation of the slice is in flight.
	Loading bool
	// Error is the message of the last rejected operation, or empty.
	Error string
}

// slice holds one partition of the store. All mutations go through
// begin, settle and update, which hold mu while the reducer runs.
//
// Reducers must be copy-on-write: a snapshot handed to a subscriber or
// returned by State shares backing arrays with later states.
type slice[S any] struct {
	name   string
	status func(*S) *Status
	log    *logger.Logger

	mu       sync.Mutex
	state    S
	initial  S
	version  uint64
	tickets  map[string]uint64
	pending  map[string]int
	inflight int
	opSeq    int64
	subs     map[int]*subscriber[S]
	nextSub  int
}

// subscriber runs fn on one goroutine at a time. A snapshot committed
// while fn is busy is handed to the running delivery instead, and only the
// newest one is kept, so fn always ends on the latest state. A dispatch
// from inside fn queues rather than deadlocks.
type subscriber[S any] struct {
	fn func(S)

	mu       sync.Mutex
	running  bool
	seen     uint64
	next     uint64
	snapshot S
}

func (sub *subscriber[S]) deliver(version uint64, snapshot S) {
	sub.mu.Lock()
	if version <= sub.next {
		sub.mu.Unlock()
		return
	}
	sub.next, sub.snapshot = version, snapshot
	if sub.running {
		sub.mu.Unlock()
		return
	}
	sub.running = true
	for sub.seen < sub.next {
		sub.seen = sub.next
		current := sub.snapshot
		sub.mu.Unlock()
		sub.fn(current)
		sub.mu.Lock()
	}
	sub.running = false
	sub.mu.Unlock()
}

func newSlice[S any](name string, initial S, status func(*S) *Status, log *logger.Logger) *slice[S] {
	return &slice[S]{
		name:    name,
		status:  status,
		log:     log.Child(logger.Fields{"slice": name}),
		state:   initial,
		initial: initial,
		tickets: make(map[string]uint64),
		pending: make(map[string]int),
		subs:    make(map[int]*subscriber[S]),
	}
}

// State returns the current snapshot.
func (s *slice[S]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to receive a snapshot after every transition.
// fn runs on a dispatching goroutine after the lock is released. While fn
// is busy, intermediate snapshots may be skipped but the latest one is
// always delivered last.
func (s *slice[S]) Subscribe(fn func(S)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = &subscriber[S]{fn: fn}
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// begin issues a ticket for key and commits the pending transition.
func (s *slice[S]) begin(key string) uint64 {
	s.mu.Lock()
	s.tickets[key]++
	ticket := s.tickets[key]
	s.pending[key]++
	s.inflight++

	st := s.status(&s.state)
	st.Loading = true
	st.Error = ""
	s.commit()
	return ticket
}

// settle applies reduce if ticket is still the latest issued for key.
// A superseded result is dropped; only the loading flag moves.
func (s *slice[S]) settle(key string, ticket uint64, reduce func(*S)) bool {
	s.mu.Lock()
	s.inflight--
	current := s.tickets[key] == ticket
	if current {
		reduce(&s.state)
	} else {
		s.log.Debug("Discarding stale result", logger.Fields{"key": key, "ticket": ticket})
	}
	if s.pending[key]--; s.pending[key] == 0 {
		// nothing left to fence against on this key
		delete(s.pending, key)
		delete(s.tickets, key)
	}
	s.status(&s.state).Loading = s.inflight > 0
	s.commit()
	return current
}

// fulfill settles a successful operation.
func (s *slice[S]) fulfill(key string, ticket uint64, reduce func(*S)) {
	s.settle(key, ticket, func(state *S) {
		if reduce != nil {
			reduce(state)
		}
		s.status(state).Error = ""
	})
}

// reject settles a failed operation with a user-facing message.
func (s *slice[S]) reject(key string, ticket uint64, msg string) {
	s.settle(key, ticket, func(state *S) {
		s.status(state).Error = msg
	})
}

// update runs a synchronous reducer.
func (s *slice[S]) update(reduce func(*S)) {
	s.mu.Lock()
	reduce(&s.state)
	s.commit()
}

// reset restores the initial data and supersedes every in-flight ticket.
// Superseded operations keep Loading set until they settle.
func (s *slice[S]) reset() {
	s.mu.Lock()
	for key := range s.tickets {
		s.tickets[key]++
	}
	s.state = s.initial
	s.status(&s.state).Loading = s.inflight > 0
	s.commit()
}

// uniqueKey returns a key no other operation shares, such as create:3.
// Operations on unique keys are only superseded by reset.
func (s *slice[S]) uniqueKey(op string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opSeq++
	return ticketKey(op, s.opSeq)
}

// ticketKey builds per-record keys such as update:9.
func ticketKey(op string, id int64) string {
	return op + ":" + strconv.FormatInt(id, 10)
}

// commit snapshots the state, releases mu and notifies subscribers.
// The caller must hold mu.
func (s *slice[S]) commit() {
	s.version++
	version := s.version
	snapshot := s.state
	subs := make([]*subscriber[S], 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub.deliver(version, snapshot)
	}
}
