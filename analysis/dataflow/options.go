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

package dataflow

import (
	"fmt"

	"github.com/awslabs/ar-bril-tools/analysis/config"
)

// VisitOrder is the order in which the solver visits the blocks in a sweep. The order changes the number of sweeps
// needed, not the fixed point.
type VisitOrder int

const (
	// ProgramOrder visits blocks in program order, or reverse program order for backward analyses
	ProgramOrder VisitOrder = iota

	// ReversePostorder visits blocks in reverse postorder of the CFG, or in postorder for backward analyses
	ReversePostorder
)

// Options configure a Solver
type Options struct {
	// MaxSweeps bounds the number of sweeps. If MaxSweeps <= 0, the solver runs until a fixed point is reached.
	MaxSweeps int

	// Order is the block visiting order
	Order VisitOrder

	// Logger receives sweep counts at debug level and per-sweep changes at trace level. It can be nil.
	Logger *config.LogGroup
}

// OptionsFromConfig returns the solver options set in the config
func OptionsFromConfig(c *config.Config, logger *config.LogGroup) (Options, error) {
	opts := Options{MaxSweeps: c.MaxSweeps, Logger: logger}
	switch c.VisitOrder {
	case "", config.VisitOrderProgram:
		opts.Order = ProgramOrder
	case config.VisitOrderReversePostorder:
		opts.Order = ReversePostorder
	default:
		return opts, fmt.Errorf("unknown visit order %q", c.VisitOrder)
	}
	return opts, nil
}
