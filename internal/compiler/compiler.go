package compiler

import (
	"io"

	"typeengine/colors"
	"typeengine/internal/compctx"
	"typeengine/internal/diagnostics"
	"typeengine/internal/frontend/ast"
	"typeengine/internal/phase"
	"typeengine/internal/semantics/collector"
	"typeengine/internal/semantics/typechecker"
)

// Options for analysis
type Options struct {
	// File the module was parsed from; stamped on every diagnostic
	FilePath string
	// Source text of FilePath. When set, emitted diagnostics quote it
	// instead of reading the file from disk.
	Source string
	// Debug output
	Debug bool
	Log   io.Writer
	// ANSI colour in emitted diagnostics
	Color bool
	// Widest union common-type inference may build (0 means the default)
	MaxUnionWidth int
	// Members of built-in receivers (nil means length on Str and List only)
	Builtins compctx.MemberResolver
}

// Result of analysis
type Result struct {
	Success     bool
	Diagnostics *diagnostics.DiagnosticBag
	// Symbol table, expression types and phase of the analysed module
	Module *compctx.Module
}

// Emit renders every diagnostic followed by a summary
func (r *Result) Emit(w io.Writer) {
	r.Diagnostics.EmitAll(w)
}

// Analyze runs both semantic passes over a parsed module: declaration
// collection, then type checking of every statement and body
func Analyze(tree *ast.Module, opts Options) *Result {
	filePath := opts.FilePath
	if filePath == "" && tree != nil {
		filePath = tree.FullPath
	}

	ctx := compctx.New(&compctx.Config{
		FilePath:      filePath,
		Debug:         opts.Debug,
		Color:         opts.Color,
		MaxUnionWidth: opts.MaxUnionWidth,
		Builtins:      opts.Builtins,
		Log:           opts.Log,
	})
	if opts.Source != "" {
		ctx.Diagnostics.AddSourceContent(filePath, opts.Source)
	}

	mod := compctx.NewModule(filePath, tree)

	collector.CollectModule(ctx, mod)
	advance(ctx, mod, phase.PhaseCollected)

	typechecker.CheckModule(ctx, mod)
	advance(ctx, mod, phase.PhaseTypeChecked)

	ctx.Trace(colors.BLUE, "%s: %d error(s)", filePath, ctx.Diagnostics.ErrorCount())
	return &Result{
		Success:     !ctx.HasErrors(),
		Diagnostics: ctx.Diagnostics,
		Module:      mod,
	}
}

func advance(ctx *compctx.CompilerContext, mod *compctx.Module, target phase.ModulePhase) {
	if mod.AdvancePhase(target) {
		ctx.Trace(colors.GREEN, "%s -> %s", mod.FilePath, target)
		return
	}
	ctx.Trace(colors.RED, "%s cannot advance from %s to %s", mod.FilePath, mod.Phase, target)
}
