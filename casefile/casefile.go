// SPDX-License-Identifier: MIT

package casefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/katalvlaran/gridflow/network"
	"github.com/katalvlaran/gridflow/pflow"
	"gopkg.in/yaml.v3"
)

// ErrFormat indicates an unsupported case file format.
var ErrFormat = errors.New("casefile: unsupported format")

// Format is a case file encoding.
type Format uint8

const (
	TOML Format = iota
	YAML
)

// String returns "toml", "yaml" or "unknown".
func (f Format) String() string {
	switch f {
	case TOML:
		return "toml"
	case YAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatOf maps a file extension to its Format.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrFormat, path)
	}
}

// Solver holds optional solver settings; zero fields keep the defaults.
type Solver struct {
	MaxIterations int     `toml:"max_iterations" yaml:"max_iterations"`
	Tolerance     float64 `toml:"tolerance" yaml:"tolerance"`
	SBase         float64 `toml:"sbase" yaml:"sbase"`
}

// Options converts the non-zero settings to solver options.
func (s Solver) Options() []pflow.Option {
	var opts []pflow.Option
	if s.MaxIterations != 0 {
		opts = append(opts, pflow.WithMaxIterations(s.MaxIterations))
	}
	if s.Tolerance != 0 {
		opts = append(opts, pflow.WithTolerance(s.Tolerance))
	}
	if s.SBase != 0 {
		opts = append(opts, pflow.WithSBase(s.SBase))
	}
	return opts
}

// Case is a decoded case file.
type Case struct {
	Name    string
	Solver  Solver
	Network *network.Network
}

// Load reads the case at path, choosing the decoder from its extension.
func Load(path string) (*Case, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("casefile: %w", err)
	}
	c, err := Decode(bytes.NewReader(data), f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if c.Name == "" {
		c.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return c, nil
}

// Decode parses a case from r and builds its network.
func Decode(r io.Reader, f Format) (*Case, error) {
	var raw document
	switch f {
	case TOML:
		if _, err := toml.NewDecoder(r).Decode(&raw); err != nil {
			return nil, fmt.Errorf("casefile: toml: %w", err)
		}
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("casefile: yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrFormat, f)
	}

	net, err := raw.build()
	if err != nil {
		return nil, err
	}
	return &Case{Name: raw.Name, Solver: raw.Solver, Network: net}, nil
}
