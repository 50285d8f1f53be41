//go:generate mockgen -source=reducer.go -destination=mocks/mock_reducer.go -package=mocks

package reduce

import (
	"fmt"
	"sort"
	"sync"

	apperrors "github.com/agbru/sumbench/internal/errors"
)

// Reducer is one summation strategy. The benchmark harness only sees this
// interface, so strategies can be swapped without touching the partition and
// reduce logic.
type Reducer interface {
	// Name returns a human-readable label for reports.
	Name() string
	// Sum returns the total of workload. workers is the degree of
	// parallelism; sequential strategies ignore it.
	Sum(workload []int32, workers int) (int64, error)
}

// SequentialReducer is the single-goroutine baseline.
type SequentialReducer struct{}

// Name implements Reducer.
func (SequentialReducer) Name() string { return "Sequential" }

// Sum implements Reducer.
func (SequentialReducer) Sum(workload []int32, _ int) (int64, error) {
	return SequentialSum(workload), nil
}

// ThreadReducer is the hand-partitioned goroutine reduction.
type ThreadReducer struct{}

// Name implements Reducer.
func (ThreadReducer) Name() string { return "Parallel (goroutines)" }

// Sum implements Reducer.
func (ThreadReducer) Sum(workload []int32, workers int) (int64, error) {
	return ParallelSum(workload, workers)
}

// PargoReducer hands the reduction to pargo's data-parallel range reducer.
type PargoReducer struct{}

// Name implements Reducer.
func (PargoReducer) Name() string { return "Parallel (pargo)" }

// Sum implements Reducer.
func (PargoReducer) Sum(workload []int32, workers int) (int64, error) {
	return pargoSum(workload, workers)
}

// Factory manages the registered reducers by short name.
type Factory struct {
	mu       sync.RWMutex
	reducers map[string]Reducer
	order    []string // registration order
}

// NewFactory returns an empty factory.
func NewFactory() *Factory {
	return &Factory{reducers: make(map[string]Reducer)}
}

// NewDefaultFactory returns a factory with the three built-in strategies
// registered as "sequential", "threads" and "pargo".
func NewDefaultFactory() *Factory {
	f := NewFactory()
	f.Register("sequential", SequentialReducer{})
	f.Register("threads", ThreadReducer{})
	f.Register("pargo", PargoReducer{})
	return f
}

var (
	globalFactory     *Factory
	globalFactoryOnce sync.Once
)

// GlobalFactory returns a process-wide default factory.
func GlobalFactory() *Factory {
	globalFactoryOnce.Do(func() { globalFactory = NewDefaultFactory() })
	return globalFactory
}

// Register adds or replaces a reducer under name.
func (f *Factory) Register(name string, r Reducer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.reducers[name]; !exists {
		f.order = append(f.order, name)
	}
	f.reducers[name] = r
}

// Get returns the reducer registered under name.
func (f *Factory) Get(name string) (Reducer, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	r, ok := f.reducers[name]
	if !ok {
		return nil, apperrors.NewConfigError("unknown strategy %q (available: %v)", name, f.listLocked())
	}
	return r, nil
}

// MustGet is like Get but panics on unknown names.
func (f *Factory) MustGet(name string) Reducer {
	r, err := f.Get(name)
	if err != nil {
		panic(err)
	}
	return r
}

// List returns the registered names in sorted order.
func (f *Factory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.listLocked()
}

func (f *Factory) listLocked() []string {
	names := make([]string, 0, len(f.reducers))
	for name := range f.reducers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select resolves a strategy selector: "all" returns every reducer in
// registration order, anything else a single reducer.
func (f *Factory) Select(name string) ([]Reducer, error) {
	if name != "all" {
		r, err := f.Get(name)
		if err != nil {
			return nil, err
		}
		return []Reducer{r}, nil
	}
	f.mu.RLock()
	out := make([]Reducer, 0, len(f.order))
	for _, n := range f.order {
		out = append(out, f.reducers[n])
	}
	f.mu.RUnlock()
	if len(out) == 0 {
		return nil, fmt.Errorf("no strategies registered")
	}
	return out, nil
}
