// SPDX-License-Identifier: MIT

package cluster

import (
	"fmt"
	"math"

	"github.com/katalvlaran/glls/label"
	"github.com/katalvlaran/glls/stats"
)

type queueItem struct {
	pos   int
	depth int
}

// walker holds the mutable state of one breadth-first walk.
type walker struct {
	ck      stats.Covariance[label.Response]
	idx     label.Index[label.Response]
	opts    Options
	queue   []queueItem
	visited []bool
}

func newWalker(ck stats.Covariance[label.Response], opts []Option) (*walker, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	return &walker{
		ck:      ck,
		idx:     ck.Labels(),
		opts:    o,
		visited: make([]bool, ck.Len()),
	}, nil
}

// Reach walks breadth-first from start over responses whose |ck| with the
// current one reaches the threshold.
func Reach(ck stats.Covariance[label.Response], start label.Response, opts ...Option) (*Result, error) {
	w, err := newWalker(ck, opts)
	if err != nil {
		return nil, err
	}
	s, ok := w.idx.Pos(start)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStartNotFound, start)
	}
	res := &Result{
		Depth:  make(map[label.Response]int),
		Parent: make(map[label.Response]label.Response),
	}
	err = w.walk(s, func(pos, depth, parent int) {
		r := w.idx.At(pos)
		res.Order = append(res.Order, r)
		res.Depth[r] = depth
		if parent >= 0 {
			res.Parent[r] = w.idx.At(parent)
		}
	})

	return res, err
}

// Families partitions the responses of ck into connected components.
// MaxDepth is ignored.
func Families(ck stats.Covariance[label.Response], opts ...Option) ([]Family, error) {
	w, err := newWalker(ck, opts)
	if err != nil {
		return nil, err
	}
	w.opts.MaxDepth = 0

	var out []Family
	for s := 0; s < w.idx.Len(); s++ {
		if w.visited[s] {
			continue
		}
		var f Family
		if err := w.walk(s, func(pos, _, _ int) {
			f.Members = append(f.Members, w.idx.At(pos))
		}); err != nil {
			return nil, err
		}
		out = append(out, f)
	}

	return out, nil
}

// walk runs one breadth-first search from start, calling record for each
// visited position with its depth and parent (-1 for the root).
func (w *walker) walk(start int, record func(pos, depth, parent int)) error {
	w.visited[start] = true
	w.queue = append(w.queue[:0], queueItem{pos: start})
	parents := map[int]int{start: -1}

	for len(w.queue) > 0 {
		select {
		case <-w.opts.Ctx.Done():
			return w.opts.Ctx.Err()
		default:
		}

		item := w.queue[0]
		w.queue = w.queue[1:]
		record(item.pos, item.depth, parents[item.pos])
		if err := w.opts.OnVisit(w.idx.At(item.pos), item.depth); err != nil {
			return fmt.Errorf("cluster: OnVisit error at %s: %w", w.idx.At(item.pos), err)
		}

		next := item.depth + 1
		if w.opts.MaxDepth > 0 && next > w.opts.MaxDepth {
			continue
		}
		for j := 0; j < w.idx.Len(); j++ {
			if w.visited[j] || j == item.pos {
				continue
			}
			v, err := w.ck.AtPos(item.pos, j)
			if err != nil {
				return err
			}
			if math.IsNaN(v) || math.Abs(v) < w.opts.Threshold {
				continue
			}
			w.visited[j] = true
			parents[j] = item.pos
			w.queue = append(w.queue, queueItem{pos: j, depth: next})
		}
	}

	return nil
}
