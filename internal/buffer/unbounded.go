// Package buffer holds the session's event bus: a channel pair that never
// blocks the sender, so dial and album art goroutines can post results
// while the session loop is busy with an MPD call.
package buffer

import "log/slog"

// Unbounded returns a send channel and a receive channel joined by a
// growing queue. Items come out in the order they went in. Once hardLimit
// items are waiting, each new item evicts the oldest and the eviction is
// logged. Closing in flushes the queue and then closes out.
func Unbounded[T any](initialCap, hardLimit int, logger *slog.Logger) (chan<- T, <-chan T) {
	if logger == nil {
		logger = slog.Default()
	}
	in := make(chan T, 10)
	out := make(chan T, 10)
	go pump(in, out, initialCap, hardLimit, logger)
	return in, out
}

func pump[T any](in <-chan T, out chan<- T, initialCap, hardLimit int, logger *slog.Logger) {
	defer close(out)

	queue := make([]T, 0, initialCap)
	var evicted int
	for {
		// A nil send channel disables that case while the queue is empty.
		var send chan<- T
		var head T
		if len(queue) > 0 {
			send, head = out, queue[0]
		}

		select {
		case v, ok := <-in:
			if !ok {
				for _, item := range queue {
					out <- item
				}
				return
			}
			if len(queue) >= hardLimit {
				evicted++
				logger.Warn("event bus full, evicting oldest event", "limit", hardLimit, "evicted", evicted)
				queue = queue[1:]
			}
			queue = append(queue, v)
		case send <- head:
			queue = queue[1:]
		}
	}
}
