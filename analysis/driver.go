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

package analysis

import (
	"fmt"

	"github.com/awslabs/ar-bril-tools/analysis/bril"
	"github.com/awslabs/ar-bril-tools/analysis/cfg"
	"github.com/awslabs/ar-bril-tools/analysis/config"
	"github.com/awslabs/ar-bril-tools/analysis/constprop"
	"github.com/awslabs/ar-bril-tools/analysis/dataflow"
	"github.com/awslabs/ar-bril-tools/analysis/liveness"
	"github.com/awslabs/ar-bril-tools/analysis/opt"
	"github.com/awslabs/ar-bril-tools/analysis/reaching"
	"github.com/awslabs/ar-bril-tools/internal/formatutil"
	"github.com/awslabs/ar-bril-tools/internal/funcutil"
)

// FunctionResult holds the states computed by an analysis on a function, formatted for display
type FunctionResult struct {
	// Name is the name of the function
	Name string

	// Before holds the state before each operation of the function, in program order. Labels have no state.
	Before []string

	// After is the state after the last operation of the function. It is none when the function has no operation.
	After funcutil.Optional[string]

	// Sweeps is the number of sweeps the solver needed to reach a fixed point
	Sweeps int
}

// AnalyzeFunction runs the analysis kind on fn with the solver options of c, and formats the resulting states.
func AnalyzeFunction(kind Kind, fn *bril.Function, c *config.Config, logger *config.LogGroup) (FunctionResult, error) {
	opts, err := dataflow.OptionsFromConfig(c, logger)
	if err != nil {
		return FunctionResult{}, err
	}
	switch kind {
	case LiveVariables:
		s, err := liveness.Analyze(fn, opts)
		if err != nil {
			return FunctionResult{}, err
		}
		return collectStates(s, liveness.VarSet.String)
	case ReachingDefinitions:
		s, lattice, err := reaching.Analyze(fn, opts)
		if err != nil {
			return FunctionResult{}, err
		}
		return collectStates(s, lattice.Format)
	case ConstantPropagation:
		s, err := constprop.Analyze(fn, opts)
		if err != nil {
			return FunctionResult{}, err
		}
		return collectStates(s, constprop.Env.String)
	}
	return FunctionResult{}, fmt.Errorf("unknown analysis %s", kind)
}

// collectStates formats the state before every operation of the solved function, and the state after the last one
func collectStates[T any](s *dataflow.Solver[T], format func(T) string) (FunctionResult, error) {
	fn := s.Function()
	res := FunctionResult{Name: fn.Name, After: funcutil.None[string](), Sweeps: s.Sweeps()}
	last := -1
	for i, instr := range fn.Instrs {
		if !instr.IsOp() {
			continue
		}
		state, err := s.StateBeforeInstr(cfg.InstrID(i))
		if err != nil {
			return res, fmt.Errorf("function %s: %w", fn.Name, err)
		}
		res.Before = append(res.Before, format(state))
		last = i
	}
	if last >= 0 {
		state, err := s.StateAfterInstr(cfg.InstrID(last))
		if err != nil {
			return res, fmt.Errorf("function %s: %w", fn.Name, err)
		}
		res.After = funcutil.Some(format(state))
	}
	return res, nil
}

type functionOutcome[T any] struct {
	value T
	err   error
}

// forEachFunction applies f to every function of prog using c.Parallelism goroutines. Results are in program order,
// and the error returned is the one of the first function, in program order, that failed.
func forEachFunction[T any](prog *bril.Program, c *config.Config, f func(fn *bril.Function) (T, error)) ([]T, error) {
	indices := make([]int, len(prog.Functions))
	for i := range indices {
		indices[i] = i
	}
	outcomes := funcutil.MapParallel(indices, func(i int) functionOutcome[T] {
		v, err := f(&prog.Functions[i])
		return functionOutcome[T]{value: v, err: err}
	}, c.Parallelism)

	values := make([]T, len(outcomes))
	for i, o := range outcomes {
		if o.err != nil {
			return nil, o.err
		}
		values[i] = o.value
	}
	return values, nil
}

// AnalyzeProgram runs the analysis kind on every function of prog. Functions are analyzed in parallel, each with its
// own solver; the results are in program order.
func AnalyzeProgram(kind Kind, prog *bril.Program, c *config.Config, logger *config.LogGroup) ([]FunctionResult,
	error) {
	return forEachFunction(prog, c, func(fn *bril.Function) (FunctionResult, error) {
		res, err := AnalyzeFunction(kind, fn, c, logger)
		if err == nil {
			logger.Debugf("%s analysis of %s: %d operation(s), %d sweep(s)", kind, formatutil.Sanitize(fn.Name),
				len(res.Before), res.Sweeps)
		}
		return res, err
	})
}

// EliminateDeadCode runs dead code elimination on every function of prog, in parallel, and returns for each function
// whether it has been modified. The functions of prog are modified in place.
func EliminateDeadCode(prog *bril.Program, c *config.Config, logger *config.LogGroup) ([]bool, error) {
	opts, err := dataflow.OptionsFromConfig(c, logger)
	if err != nil {
		return nil, err
	}
	return forEachFunction(prog, c, func(fn *bril.Function) (bool, error) {
		before := len(fn.Instrs)
		changed, err := opt.EliminateDeadCode(fn, opts)
		if err == nil {
			logger.Debugf("dead code elimination of %s: %d instruction(s) removed", formatutil.Sanitize(fn.Name),
				before-len(fn.Instrs))
		}
		return changed, err
	})
}
