package main

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed scenarios.yaml
var defaultScenarios []byte

type Op string

const (
	OpReplace Op = "replace"
	OpUpdate  Op = "update"
	OpSwap    Op = "swap"
	OpReverse Op = "reverse"
	OpShuffle Op = "shuffle"
	OpAppend  Op = "append"
	OpRemove  Op = "remove"
)

var (
	ErrNoScenarios = errors.New("no scenarios")
	ErrUnknownOp   = errors.New("unknown op")
)

type Scenario struct {
	Name       string `yaml:"name"`
	Rows       int    `yaml:"rows"`
	Op         Op     `yaml:"op"`
	Iterations int    `yaml:"iterations"`
	// Stride is the distance between updated rows for OpUpdate.
	Stride int `yaml:"stride,omitempty"`
	// Count is the number of rows added per OpAppend.
	Count int   `yaml:"count,omitempty"`
	Seed  int64 `yaml:"seed,omitempty"`
	// Components renders each row as a child component.
	Components bool `yaml:"components,omitempty"`
}

type ScenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

func (s *Scenario) Validate() error {
	if s.Name == "" {
		return errors.New("scenario name is required")
	}
	if s.Rows < 0 || s.Iterations <= 0 {
		return fmt.Errorf("scenario %q: rows must be >= 0 and iterations > 0", s.Name)
	}
	switch s.Op {
	case OpReplace, OpSwap, OpReverse, OpShuffle, OpRemove:
	case OpUpdate:
		if s.Stride <= 0 {
			s.Stride = 1
		}
	case OpAppend:
		if s.Count <= 0 {
			s.Count = 1
		}
	default:
		return fmt.Errorf("scenario %q: %w %q", s.Name, ErrUnknownOp, s.Op)
	}
	return nil
}

func parseScenarios(data []byte) ([]Scenario, error) {
	var file ScenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if len(file.Scenarios) == 0 {
		return nil, ErrNoScenarios
	}
	for i := range file.Scenarios {
		if err := file.Scenarios[i].Validate(); err != nil {
			return nil, err
		}
	}
	return file.Scenarios, nil
}

// loadScenarios reads path, or the built in scenarios when path is empty.
func loadScenarios(path string) ([]Scenario, error) {
	if path == "" {
		return parseScenarios(defaultScenarios)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseScenarios(data)
}
