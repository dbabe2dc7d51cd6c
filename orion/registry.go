package orion

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/oliverbestmann/twinframe/pulse"
)

// Registry maps window labels to their graphics context. The registry lock
// is only held to look up or copy entries, never while rendering.
type Registry struct {
	state guarded[map[string]*pulse.GraphicsContext]
}

// Entry is a registered context together with the label of its window.
type Entry struct {
	Label   string
	Context *pulse.GraphicsContext
}

func NewRegistry() *Registry {
	r := &Registry{}
	r.state.value = map[string]*pulse.GraphicsContext{}
	return r
}

// Insert registers ctx for the window. A context previously registered
// for the same window is released.
func (r *Registry) Insert(label string, ctx *pulse.GraphicsContext) error {
	var previous *pulse.GraphicsContext

	err := r.state.with(func(contexts *map[string]*pulse.GraphicsContext) {
		previous = (*contexts)[label]
		(*contexts)[label] = ctx
	})

	if err != nil {
		return err
	}

	if previous != nil && previous != ctx {
		slog.Info("Replace graphics context", slog.String("window", label))
		previous.Release()
	}

	return nil
}

// Get returns the context registered for the window.
func (r *Registry) Get(label string) (ctx *pulse.GraphicsContext, ok bool, err error) {
	err = r.state.with(func(contexts *map[string]*pulse.GraphicsContext) {
		ctx, ok = (*contexts)[label]
	})

	return
}

// Remove unregisters and releases the context of the window.
// Removing an unknown window does nothing.
func (r *Registry) Remove(label string) error {
	var removed *pulse.GraphicsContext

	err := r.state.with(func(contexts *map[string]*pulse.GraphicsContext) {
		removed = (*contexts)[label]
		delete(*contexts, label)
	})

	if err != nil {
		return err
	}

	if removed != nil {
		removed.Release()
	}

	return nil
}

// Entries returns a snapshot of all registered contexts, in no particular order.
func (r *Registry) Entries() ([]Entry, error) {
	var entries []Entry

	err := r.state.with(func(contexts *map[string]*pulse.GraphicsContext) {
		entries = make([]Entry, 0, len(*contexts))
		for label, ctx := range *contexts {
			entries = append(entries, Entry{Label: label, Context: ctx})
		}
	})

	return entries, err
}

// ForEach calls fn for every registered context. The registry is not
// locked while fn runs, so fn may call back into the registry.
func (r *Registry) ForEach(fn func(label string, ctx *pulse.GraphicsContext)) error {
	entries, err := r.Entries()
	if err != nil {
		return err
	}

	for _, entry := range entries {
		fn(entry.Label, entry.Context)
	}

	return nil
}

func (r *Registry) Len() (n int, err error) {
	err = r.state.with(func(contexts *map[string]*pulse.GraphicsContext) {
		n = len(*contexts)
	})

	return
}

// Labels returns the sorted labels of all registered windows.
func (r *Registry) Labels() (labels []string, err error) {
	err = r.state.with(func(contexts *map[string]*pulse.GraphicsContext) {
		labels = slices.Sorted(maps.Keys(*contexts))
	})

	return
}

// Clear removes and releases all contexts.
func (r *Registry) Clear() error {
	var removed []*pulse.GraphicsContext

	err := r.state.with(func(contexts *map[string]*pulse.GraphicsContext) {
		removed = slices.Collect(maps.Values(*contexts))
		clear(*contexts)
	})

	for _, ctx := range removed {
		ctx.Release()
	}

	return err
}
