// Package pipeline runs the five compilation stages in order.
//
// Stage order is strict: parse, symbol table, type resolution,
// linking, emission. No stage begins before its predecessor completes
// for all inputs, because forward references require a fully populated
// symbol table. Once a stage records any error the run stops after
// that stage; later stages would only compound meaningless input.
//
// Parsing is the one stage safe to parallelize: units are independent
// until their declarations meet in the shared name table, so each unit
// parses in its own goroutine with its own diagnostic bag, and the
// bags merge in input order so diagnostics stay reproducible.
package pipeline

import (
	"sync"

	"github.com/google/uuid"

	"github.com/shanehandley/servo/internal/diag"
	"github.com/shanehandley/servo/internal/emitter"
	"github.com/shanehandley/servo/internal/ir"
	"github.com/shanehandley/servo/internal/linker"
	"github.com/shanehandley/servo/internal/parser"
	"github.com/shanehandley/servo/internal/resolver"
	"github.com/shanehandley/servo/internal/symbols"
)

// Stage names the pipeline stage a run reached.
type Stage string

const (
	StageParse    Stage = "parse"
	StageSymbols  Stage = "symbols"
	StageResolve  Stage = "resolve"
	StageLink     Stage = "link"
	StageEmit     Stage = "emit"
	StageComplete Stage = "complete"
)

// Unit is one declaration unit: already-read UTF-8 text plus an
// identifier for diagnostics. Loading text from disk or elsewhere is
// the caller's concern; the pipeline performs no I/O.
type Unit struct {
	Name   string
	Source string
}

// Options configures one compilation run.
type Options struct {
	// RunID stamps the emitted contract set. Empty means a fresh
	// random ID; tests pass a fixed one for determinism.
	RunID string
}

// Result is the outcome of one run. Contracts is nil unless Stage is
// StageComplete; Diagnostics always holds everything collected up to
// and including the first stage that had an error.
type Result struct {
	RunID        string
	Stage        Stage
	Declarations []*ir.Declaration
	Table        *symbols.Table
	Graph        *ir.Graph
	Contracts    *ir.ContractSet
	Diagnostics  []diag.Diagnostic
}

// Errored reports whether the run stopped before completing.
func (r *Result) Errored() bool {
	return r.Stage != StageComplete
}

// Run compiles the given units. The returned error is reserved for
// internal failures (a bug, not bad input); every input problem is
// reported through Result.Diagnostics.
func Run(units []Unit, opts Options) (*Result, error) {
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	result := &Result{RunID: runID}
	bag := diag.NewBag()

	// Stage 1: parse, one goroutine per unit.
	decls := parseAll(units, bag)
	result.Declarations = decls
	if bag.HasErrors() {
		result.Stage = StageParse
		result.Diagnostics = bag.Diagnostics()
		return result, nil
	}

	// Stage 2: symbol table.
	table := symbols.Build(decls, bag)
	result.Table = table
	if bag.HasErrors() {
		result.Stage = StageSymbols
		result.Diagnostics = bag.Diagnostics()
		return result, nil
	}

	// Stage 3: type resolution.
	resolver.Resolve(table, decls, bag)
	if bag.HasErrors() {
		result.Stage = StageResolve
		result.Diagnostics = bag.Diagnostics()
		return result, nil
	}

	// Stage 4: inheritance and mixin linking.
	graph := linker.Link(table, bag)
	result.Graph = graph
	if bag.HasErrors() {
		result.Stage = StageLink
		result.Diagnostics = bag.Diagnostics()
		return result, nil
	}

	// Stage 5: contract emission.
	contracts, err := emitter.Emit(graph, runID)
	if err != nil {
		return nil, err
	}
	result.Contracts = contracts
	result.Stage = StageComplete
	result.Diagnostics = bag.Diagnostics()
	return result, nil
}

// parseAll parses every unit concurrently, then merges declarations
// and diagnostics in input order.
func parseAll(units []Unit, bag *diag.Bag) []*ir.Declaration {
	type unitResult struct {
		decls []*ir.Declaration
		bag   *diag.Bag
	}

	results := make([]unitResult, len(units))
	var wg sync.WaitGroup
	for i, u := range units {
		wg.Add(1)
		go func(i int, u Unit) {
			defer wg.Done()
			unitBag := diag.NewBag()
			results[i] = unitResult{
				decls: parser.ParseUnit(u.Name, u.Source, unitBag),
				bag:   unitBag,
			}
		}(i, u)
	}
	wg.Wait()

	var decls []*ir.Declaration
	for _, r := range results {
		decls = append(decls, r.decls...)
		bag.Merge(r.bag)
	}
	return decls
}
