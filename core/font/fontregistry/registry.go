package fontregistry

import (
	"context"
	"sort"
	"sync"

	"github.com/npillmayer/schuko/tracing"
)

// PrepareFunc fetches and rasterizes a font source, returning the directory
// holding its glyph containers.
type PrepareFunc func(ctx context.Context) (string, error)

// Registry is a type for holding information about prepared font sources.
// A source used by more than one style is prepared only once per registry.
type Registry struct {
	sync.Mutex
	builds map[string]*build
}

type build struct {
	done chan struct{}
	dir  string
	err  error
}

var globalRegistry *Registry

var globalRegistryCreation sync.Once

// GlobalRegistry is an application-wide singleton to hold information about
// prepared font sources.
func GlobalRegistry() *Registry {
	globalRegistryCreation.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		builds: make(map[string]*build),
	}
}

// Prepare returns the glyph directory of source. If source has not been
// prepared yet, prepare is called; concurrent callers for the same source
// wait for this call to finish. Failed preparations are not remembered,
// i.e. a later call will try again.
func (r *Registry) Prepare(ctx context.Context, source string, prepare PrepareFunc) (string, error) {
	r.Lock()
	if b, ok := r.builds[source]; ok {
		r.Unlock()
		tracer().Debugf("registry waits for source %s", source)
		select {
		case <-b.done:
			return b.dir, b.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	b := &build{done: make(chan struct{})}
	r.builds[source] = b
	r.Unlock()
	//
	b.dir, b.err = prepare(ctx)
	if b.err != nil {
		r.Lock()
		delete(r.builds, source)
		r.Unlock()
	} else {
		tracer().Debugf("registry stores source %s as %s", source, b.dir)
	}
	close(b.done)
	return b.dir, b.err
}

// Lookup returns the glyph directory of a successfully prepared source.
func (r *Registry) Lookup(source string) (string, bool) {
	r.Lock()
	b, ok := r.builds[source]
	r.Unlock()
	if !ok {
		return "", false
	}
	select {
	case <-b.done:
		return b.dir, b.err == nil
	default:
		return "", false
	}
}

// Sources lists the sources prepared so far, sorted.
func (r *Registry) Sources() []string {
	r.Lock()
	defer r.Unlock()
	srcs := make([]string, 0, len(r.builds))
	for s, b := range r.builds {
		select {
		case <-b.done:
			if b.err == nil {
				srcs = append(srcs, s)
			}
		default:
		}
	}
	sort.Strings(srcs)
	return srcs
}

// LogBuildList is a helper function to dump the list of prepared sources
// to the trace-file (log-level Info).
func (r *Registry) LogBuildList() {
	level := tracer().GetTraceLevel()
	tracer().SetTraceLevel(tracing.LevelInfo)
	defer tracer().SetTraceLevel(level)
	tracer().Infof("--- prepared sources ---")
	for _, s := range r.Sources() {
		dir, _ := r.Lookup(s)
		tracer().Infof("source [%s] = %s", s, dir)
	}
	tracer().Infof("------------------------")
}
