// Package timer drives the session's periodic status poll and its delayed
// reconnect attempts. Fired timers are delivered as Events on a channel so
// the session handles them on its own goroutine.
package timer

import (
	"sync"
	"time"
)

// Event reports a fired timer. Name is the label given to After or Every,
// e.g. "poll" or "reconnect".
type Event struct {
	ID        int
	Name      string
	Repeating bool
}

// Service owns a set of named timers. A repeating timer is re-armed before
// its event is delivered, so a slow receiver does not stretch the period.
type Service struct {
	mu     sync.Mutex
	out    chan<- Event
	active map[int]*pending
	lastID int
}

type pending struct {
	name   string
	period time.Duration // zero for one-shot timers
	timer  *time.Timer
}

// NewService returns a Service delivering to out. Sends never block: an
// event the receiver has no room for is dropped.
func NewService(out chan<- Event) *Service {
	return &Service{out: out, active: make(map[int]*pending)}
}

// After fires name once after d and returns the timer ID.
func (s *Service) After(name string, d time.Duration) int {
	return s.start(name, d, 0)
}

// Every fires name every d until cancelled and returns the timer ID.
func (s *Service) Every(name string, d time.Duration) int {
	return s.start(name, d, d)
}

func (s *Service) start(name string, delay, period time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	id := s.lastID
	s.active[id] = &pending{
		name:   name,
		period: period,
		timer:  time.AfterFunc(delay, func() { s.expire(id) }),
	}
	return id
}

func (s *Service) expire(id int) {
	s.mu.Lock()
	p, ok := s.active[id]
	if !ok {
		// Cancelled while the callback was in flight.
		s.mu.Unlock()
		return
	}
	if p.period > 0 {
		p.timer = time.AfterFunc(p.period, func() { s.expire(id) })
	} else {
		delete(s.active, id)
	}
	ev := Event{ID: id, Name: p.name, Repeating: p.period > 0}
	s.mu.Unlock()

	select {
	case s.out <- ev:
	default:
	}
}

// Cancel stops the timer with the given ID. Unknown IDs are ignored.
func (s *Service) Cancel(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.active[id]; ok {
		p.timer.Stop()
		delete(s.active, id)
	}
}

// Pending returns the number of armed timers.
func (s *Service) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

// CancelAll stops every timer, as on shutdown.
func (s *Service) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.active {
		p.timer.Stop()
		delete(s.active, id)
	}
}
