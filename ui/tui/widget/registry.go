package widget

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// DrawFunc renders one node. It is invoked once per frame through a
// Context that is only valid for the duration of the call.
type DrawFunc func(ctx *Context)

// Registry maps widget kinds to draw operations. It is filled during
// startup and read by the Renderer every frame.
type Registry struct {
	mu     sync.RWMutex
	ops    map[Kind]DrawFunc
	logger *slog.Logger
}

// NewRegistry creates an empty registry. A nil logger uses slog.Default.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		ops:    make(map[Kind]DrawFunc),
		logger: logger,
	}
}

// Register binds kind to op. Registering a kind twice keeps the first
// operation, logs a warning and returns ErrDuplicateKind.
func (r *Registry) Register(kind Kind, op DrawFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ops[kind]; ok {
		r.logger.Warn("widget kind already registered, keeping the first draw operation", "kind", string(kind))
		return fmt.Errorf("%w: %q", ErrDuplicateKind, kind)
	}
	r.ops[kind] = op
	return nil
}

// Lookup returns the draw operation for kind.
func (r *Registry) Lookup(kind Kind) (DrawFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.ops[kind]
	return op, ok
}

// Kinds returns the registered kinds, sorted.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]Kind, 0, len(r.ops))
	for k := range r.ops {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Register binds kind to a draw operation over the concrete data type T.
// Nodes tagged with kind whose data is not a T are skipped.
func Register[T Widget](r *Registry, kind Kind, draw func(ctx *Context, data T)) error {
	return r.Register(kind, func(ctx *Context) {
		data, ok := ctx.Widget().(T)
		if !ok {
			ctx.logger.Warn("widget data does not match its kind", "kind", string(kind), "entity", ctx.Entity().String())
			return
		}
		draw(ctx, data)
	})
}
