// SPDX-License-Identifier: MIT

package problem

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/glls/label"
)

// ErrInvalidProblem wraps every structural problem of a document.
var ErrInvalidProblem = errors.New("problem: invalid document")

var validate = validator.New()

// Document is the YAML form of a problem.
type Document struct {
	Groups       []float64         `yaml:"groups,omitempty"`
	Prior        []PriorEntry      `yaml:"prior" validate:"required,min=1,dive"`
	Covariance   []CovarianceBlock `yaml:"covariance,omitempty" validate:"dive"`
	Benchmarks   []ResponseEntry   `yaml:"benchmarks,omitempty" validate:"dive"`
	Correlations []Correlation     `yaml:"correlations,omitempty" validate:"dive"`
	Applications []ResponseEntry   `yaml:"applications,omitempty" validate:"dive"`
}

// ParameterRef names one parameter. Reaction, when set, is a Serpent
// perturbation name and replaces MT.
type ParameterRef struct {
	ZAI      int    `yaml:"zai" validate:"gt=0"`
	MT       int    `yaml:"mt,omitempty" validate:"gte=0"`
	Reaction string `yaml:"reaction,omitempty"`
	Group    int    `yaml:"group" validate:"gte=-1"`
}

// PriorEntry is one prior parameter value.
type PriorEntry struct {
	ParameterRef `yaml:",inline"`
	Value        float64 `yaml:"value"`
}

// CovarianceBlock is one covariance block, typically one nuclide.
type CovarianceBlock struct {
	Parameters []ParameterRef `yaml:"parameters" validate:"required,min=1,dive"`
	// Relative marks relative covariances, scaled by the prior values.
	Relative bool        `yaml:"relative,omitempty"`
	Lower    [][]float64 `yaml:"lower,omitempty"`
	Full     [][]float64 `yaml:"full,omitempty"`
}

// SensitivityEntry is one sensitivity coefficient. Std is its statistical
// standard deviation; it is kept for benchmarks only.
type SensitivityEntry struct {
	ParameterRef `yaml:",inline"`
	Value        float64 `yaml:"value"`
	Std          float64 `yaml:"std,omitempty" validate:"gte=0"`
}

// ResponseEntry describes a benchmark or an application.
type ResponseEntry struct {
	Title         string             `yaml:"title" validate:"required"`
	Kind          label.Kind         `yaml:"kind" validate:"required"`
	Measured      float64            `yaml:"measured,omitempty"`
	MeasuredStd   float64            `yaml:"measured_std,omitempty" validate:"gte=0"`
	Calculated    float64            `yaml:"calculated"`
	CalculatedStd float64            `yaml:"calculated_std,omitempty" validate:"gte=0"`
	Sensitivity   []SensitivityEntry `yaml:"sensitivity" validate:"dive"`
}

// Correlation correlates the measurements of two benchmarks.
type Correlation struct {
	A   string  `yaml:"a" validate:"required"`
	B   string  `yaml:"b" validate:"required,nefield=A"`
	Rho float64 `yaml:"rho" validate:"gte=-1,lte=1"`
}

// Parameter resolves r to a label.
func (r ParameterRef) Parameter() (label.Parameter, error) {
	mt := r.MT
	if r.Reaction != "" {
		mt = label.MTFromSerpent(r.Reaction)
		if mt == label.UnknownMT {
			return label.Parameter{}, fmt.Errorf("%w: unknown reaction %q", ErrInvalidProblem, r.Reaction)
		}
	}
	if mt <= 0 {
		return label.Parameter{}, fmt.Errorf("%w: nuclide %d: missing mt or reaction", ErrInvalidProblem, r.ZAI)
	}

	return label.Parameter{ZAI: r.ZAI, MT: mt, Group: r.Group}, nil
}

// ParseDocument decodes and validates a YAML document. Unknown keys are
// rejected.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProblem, err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProblem, err)
	}

	return &doc, nil
}

// LoadDocument reads and parses the document at path.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read problem %s: %w", path, err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("problem %s: %w", path, err)
	}

	return doc, nil
}

// Load reads, parses and builds the problem at path.
func Load(path string) (*Problem, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	p, err := doc.Build()
	if err != nil {
		return nil, fmt.Errorf("problem %s: %w", path, err)
	}

	return p, nil
}
