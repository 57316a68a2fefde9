package widget

import "sync"

// Command is a deferred tree mutation. Commands are the only way goroutines
// other than the UI goroutine change the tree.
type Command func(*Tree)

// Commands is a queue of pending tree mutations. Queue may be called from
// any goroutine; Apply runs on the UI goroutine before a frame is laid out,
// so every frame sees a consistent tree.
type Commands struct {
	mu      sync.Mutex
	pending []Command
}

// Queue appends commands in order. Commands queued in one call are applied
// together in the same frame.
func (q *Commands) Queue(cmds ...Command) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, c := range cmds {
		if c != nil {
			q.pending = append(q.pending, c)
		}
	}
}

// Len returns the number of pending commands.
func (q *Commands) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Apply runs every pending command against t and reports how many ran.
func (q *Commands) Apply(t *Tree) int {
	q.mu.Lock()
	pending := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, c := range pending {
		c(t)
	}
	return len(pending)
}

// DespawnAll removes every root widget and its subtree. It is queued on
// every screen transition.
func DespawnAll(t *Tree) {
	t.DespawnRoots()
}

// Batch combines commands into one.
func Batch(cmds ...Command) Command {
	return func(t *Tree) {
		for _, c := range cmds {
			if c != nil {
				c(t)
			}
		}
	}
}
