// SPDX-License-Identifier: MIT

package sensitivity

import (
	"fmt"

	"github.com/katalvlaran/glls/label"
	"github.com/katalvlaran/glls/matrix"
	"github.com/katalvlaran/glls/stats"
)

// Model is an immutable labeled sensitivity matrix.
type Model struct {
	s stats.Matrix[label.Response, label.Parameter]
}

// New builds a model from data, one row per response.
// Response kinds must be valid.
func New(responses label.Index[label.Response], params label.Index[label.Parameter], data [][]float64) (*Model, error) {
	if err := validKinds(responses); err != nil {
		return nil, err
	}
	s, err := stats.NewMatrix(responses, params, data)
	if err != nil {
		return nil, fmt.Errorf("sensitivity.New: %w", err)
	}

	return &Model{s: s}, nil
}

// FromMatrix wraps an existing labeled matrix.
func FromMatrix(s stats.Matrix[label.Response, label.Parameter]) (*Model, error) {
	if err := validKinds(s.RowLabels()); err != nil {
		return nil, err
	}

	return &Model{s: s}, nil
}

func validKinds(responses label.Index[label.Response]) error {
	for i := 0; i < responses.Len(); i++ {
		if r := responses.At(i); !r.Kind.Valid() {
			return fmt.Errorf("sensitivity: response %q: %w", r.Title, label.ErrUnknownKind)
		}
	}

	return nil
}

// Responses returns the row labels.
func (m *Model) Responses() label.Index[label.Response] { return m.s.RowLabels() }

// Parameters returns the column labels.
func (m *Model) Parameters() label.Index[label.Parameter] { return m.s.ColLabels() }

// Dims returns (M, N).
func (m *Model) Dims() (int, int) { return m.s.Dims() }

// Matrix returns the labeled matrix.
func (m *Model) Matrix() stats.Matrix[label.Response, label.Parameter] { return m.s }

// Row returns the sensitivity profile of one response.
func (m *Model) Row(r label.Response) (stats.Vector[label.Parameter], error) {
	return m.s.Row(r)
}

// SubResponses keeps the rows for responses, in the order given.
func (m *Model) SubResponses(responses []label.Response) (*Model, error) {
	s, err := m.s.SubRows(responses)
	if err != nil {
		return nil, fmt.Errorf("sensitivity.SubResponses: %w", err)
	}

	return &Model{s: s}, nil
}

// SubParameters keeps the columns for params, in the order given.
func (m *Model) SubParameters(params []label.Parameter) (*Model, error) {
	s, err := m.s.SubCols(params)
	if err != nil {
		return nil, fmt.Errorf("sensitivity.SubParameters: %w", err)
	}

	return &Model{s: s}, nil
}

// ResponsesOfKind lists the responses of kind k in row order.
func (m *Model) ResponsesOfKind(k label.Kind) []label.Response {
	var out []label.Response
	rs := m.Responses()
	for i := 0; i < rs.Len(); i++ {
		if rs.At(i).Kind == k {
			out = append(out, rs.At(i))
		}
	}

	return out
}

// Covers checks that the model columns are exactly params, in order.
// It fails with label.ErrLabelMismatch otherwise.
func (m *Model) Covers(params label.Index[label.Parameter]) error {
	if err := stats.Compatible("sensitivity columns", params, m.Parameters()); err != nil {
		return fmt.Errorf("sensitivity.Covers: %w", err)
	}

	return nil
}

// Align reorders the columns onto params. Parameters the model does not
// know get zero sensitivity; model parameters missing from params fail with
// label.ErrLabelMismatch.
func (m *Model) Align(params label.Index[label.Parameter]) (*Model, error) {
	own := m.Parameters()
	pos, err := params.Positions(own.Keys())
	if err != nil {
		return nil, fmt.Errorf("sensitivity.Align: %w", err)
	}
	rows, _ := m.Dims()
	data := make([][]float64, rows)
	for i := range data {
		data[i] = make([]float64, params.Len())
		for j, p := range pos {
			data[i][p], _ = m.s.AtPos(i, j)
		}
	}

	return New(m.Responses(), params, data)
}

// Concat stacks other below m. Both must share the same parameters, and
// their responses must be disjoint. A nil other fails with
// matrix.ErrInvalidDimension.
func (m *Model) Concat(other *Model) (*Model, error) {
	if m == nil || other == nil {
		return nil, fmt.Errorf("sensitivity.Concat: nil model: %w", matrix.ErrInvalidDimension)
	}
	if err := stats.Compatible("sensitivity.Concat", m.Parameters(), other.Parameters()); err != nil {
		return nil, err
	}
	keys := append(m.Responses().Keys(), other.Responses().Keys()...)
	responses, err := label.NewIndex(keys)
	if err != nil {
		return nil, fmt.Errorf("sensitivity.Concat: %w", err)
	}
	data := append(denseRows(m), denseRows(other)...)

	return New(responses, m.Parameters(), data)
}

// View returns the underlying matrix without copying; nil when empty.
func (m *Model) View() *matrix.Dense { return m.s.View() }

func denseRows(m *Model) [][]float64 {
	r, c := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = make([]float64, c)
		for j := range out[i] {
			out[i][j], _ = m.s.AtPos(i, j)
		}
	}

	return out
}
