// SPDX-License-Identifier: MIT

package cluster

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/glls/label"
)

// Sentinel errors.
var (
	// ErrStartNotFound is returned when the start response is absent.
	ErrStartNotFound = errors.New("cluster: start response not found")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("cluster: invalid option supplied")
)

// DefaultThreshold is the ck above which two responses are neighbors.
const DefaultThreshold = 0.9

// Option configures a walk.
type Option func(*Options)

// Options holds the walk parameters.
type Options struct {
	// Ctx allows cancellation.
	Ctx context.Context

	// Threshold is the minimum |ck| of an edge, in (0, 1].
	Threshold float64

	// MaxDepth, if > 0, stops exploring beyond this hop count.
	MaxDepth int

	// OnVisit is called for each visited response; an error aborts the walk.
	OnVisit func(r label.Response, depth int) error

	err error
}

// DefaultOptions returns threshold 0.9, no depth limit and a no-op hook.
func DefaultOptions() Options {
	return Options{
		Ctx:       context.Background(),
		Threshold: DefaultThreshold,
		OnVisit:   func(label.Response, int) error { return nil },
	}
}

// WithContext sets a context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithThreshold sets the edge threshold; t must be in (0, 1].
func WithThreshold(t float64) Option {
	return func(o *Options) {
		if math.IsNaN(t) || t <= 0 || t > 1 {
			o.err = fmt.Errorf("%w: threshold %g outside (0, 1]", ErrOptionViolation, t)
			return
		}
		o.Threshold = t
	}
}

// WithMaxDepth limits the hop count; 0 means no limit.
func WithMaxDepth(d int) Option {
	return func(o *Options) {
		if d < 0 {
			o.err = fmt.Errorf("%w: MaxDepth cannot be negative (%d)", ErrOptionViolation, d)
			return
		}
		o.MaxDepth = d
	}
}

// WithOnVisit registers a visit hook.
func WithOnVisit(fn func(r label.Response, depth int) error) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnVisit = fn
		}
	}
}

// Result is the outcome of Reach.
type Result struct {
	Order  []label.Response
	Depth  map[label.Response]int
	Parent map[label.Response]label.Response
}

// PathTo returns the chain from the start response to dest.
func (r *Result) PathTo(dest label.Response) ([]label.Response, error) {
	if _, ok := r.Depth[dest]; !ok {
		return nil, fmt.Errorf("cluster: %s not reached", dest)
	}
	path := []label.Response{}
	for cur := dest; ; {
		path = append(path, cur)
		prev, ok := r.Parent[cur]
		if !ok {
			break
		}
		cur = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, nil
}

// Family is one connected component.
type Family struct {
	Members []label.Response
}

// Contains reports whether r belongs to f.
func (f Family) Contains(r label.Response) bool {
	for _, m := range f.Members {
		if m == r {
			return true
		}
	}
	return false
}
