// Package chain tracks the topology of a pipeline. A pipeline is a linear
// chain: every stage has at most one upstream and one downstream, and links
// never form a cycle. The registry enforces that shape at wiring time and
// yields the source-to-sink order the shutdown cascade follows.
package chain

import (
	"sync"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
)

var (
	ErrStageExists  = errors.New("stage already registered")
	ErrUnknownStage = errors.New("stage not registered")
	ErrFanOut       = errors.New("stage already has a downstream")
	ErrFanIn        = errors.New("stage already has an upstream")
)

// Registry records stages and the links between them.
type Registry struct {
	mu    sync.Mutex
	graph graph.Graph[string, string]
	down  map[string]string
	up    map[string]string
	added []string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		graph: graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles()),
		down:  make(map[string]string),
		up:    make(map[string]string),
	}
}

// AddStage registers a stage name.
func (r *Registry) AddStage(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.graph.AddVertex(name)
	if err != nil {
		if errors.Is(err, graph.ErrVertexAlreadyExists) {
			return errors.Wrap(ErrStageExists, name)
		}

		return errors.Wrapf(err, "unable to add stage %s", name)
	}
	r.added = append(r.added, name)

	return nil
}

// AddLink records that from feeds to. Both stages must be registered, neither
// end may already be linked on that side, and the link must not close a
// cycle.
func (r *Registry) AddLink(from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.down[from]; ok {
		return errors.Wrap(ErrFanOut, from)
	}
	if _, ok := r.up[to]; ok {
		return errors.Wrap(ErrFanIn, to)
	}

	err := r.graph.AddEdge(from, to)
	if err != nil {
		if errors.Is(err, graph.ErrVertexNotFound) {
			return errors.Wrapf(ErrUnknownStage, "%s -> %s", from, to)
		}

		return errors.Wrapf(err, "unable to link %s to %s", from, to)
	}
	r.down[from] = to
	r.up[to] = from

	return nil
}

// Upstream returns the producer feeding name, if any.
func (r *Registry) Upstream(name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	up, ok := r.up[name]

	return up, ok
}

// Order returns every registered stage sorted source to sink. Each chain is
// listed head first, following its links downstream; disjoint chains appear
// in the order their heads were registered.
func (r *Registry) Order() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ordered := make([]string, 0, len(r.added))
	for _, name := range r.added {
		if _, hasUp := r.up[name]; hasUp {
			continue
		}
		for cur := name; ; {
			ordered = append(ordered, cur)
			next, ok := r.down[cur]
			if !ok {
				break
			}
			cur = next
		}
	}

	return ordered
}
