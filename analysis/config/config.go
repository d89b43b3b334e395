// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	// The global config file
	configFile string
)

// SetGlobalConfig sets the global config filename
func SetGlobalConfig(filename string) {
	configFile = filename
}

// LoadGlobal loads the config file that has been set by SetGlobalConfig. If no file has been set, it returns the
// default config.
func LoadGlobal() (*Config, error) {
	if configFile == "" {
		return NewDefault(), nil
	}
	return Load(configFile)
}

// Config contains the options of the tools and the analyses they run by default.
// If some field is not defined in the config file, it will have its default value in the struct.
// private fields are not populated from a yaml file, but computed after initialization
type Config struct {
	Options `yaml:"options"`

	sourceFile string

	// Analyses lists the names of the analyses run by the dataflow tool when none is given on the command line
	Analyses []string `yaml:"analyses"`
}

// Options are the settings of the dataflow solver and of the tools
type Options struct {
	// Loglevel controls the verbosity of the tool
	LogLevel int `yaml:"log-level"`

	// MaxSweeps bounds the number of sweeps of the solver over the blocks of a function. If MaxSweeps <= 0, the
	// solver runs until it reaches a fixed point.
	MaxSweeps int `yaml:"max-sweeps"`

	// Parallelism is the number of functions analyzed concurrently
	Parallelism int `yaml:"parallelism"`

	// VisitOrder is the order in which the solver visits blocks in each sweep, either "program" or
	// "reverse-postorder"
	VisitOrder string `yaml:"visit-order"`

	// Suppress warnings
	SilenceWarn bool `yaml:"silence-warn"`
}

// NewDefault returns a default config.
func NewDefault() *Config {
	return &Config{
		sourceFile: "",
		Analyses:   nil,
		Options: Options{
			LogLevel:    int(InfoLevel),
			MaxSweeps:   DefaultMaxSweeps,
			Parallelism: DefaultParallelism,
			VisitOrder:  VisitOrderProgram,
			SilenceWarn: false,
		},
	}
}

// Load reads a configuration from a file
func Load(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	return Parse(filename, b)
}

// Parse reads a configuration from the contents b of the file filename
func Parse(filename string, b []byte) (*Config, error) {
	cfg := NewDefault()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file %s: %w", filename, err)
	}
	cfg.sourceFile = filename

	// If logLevel has not been specified (i.e. it is 0) set the default to Info
	if cfg.LogLevel == 0 {
		cfg.LogLevel = int(InfoLevel)
	}
	if cfg.LogLevel < int(ErrLevel) || cfg.LogLevel > int(TraceLevel) {
		return nil, fmt.Errorf("log-level should be between %d and %d, got %d", ErrLevel, TraceLevel, cfg.LogLevel)
	}
	if cfg.MaxSweeps < 0 {
		cfg.MaxSweeps = DefaultMaxSweeps
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = DefaultParallelism
	}
	switch cfg.VisitOrder {
	case "":
		cfg.VisitOrder = VisitOrderProgram
	case VisitOrderProgram, VisitOrderReversePostorder:
	default:
		return nil, fmt.Errorf("unknown visit-order %q, expected %q or %q",
			cfg.VisitOrder, VisitOrderProgram, VisitOrderReversePostorder)
	}
	return cfg, nil
}

// SourceFile returns the name of the file the config has been loaded from, or "" for a default config
func (c Config) SourceFile() string {
	return c.sourceFile
}
