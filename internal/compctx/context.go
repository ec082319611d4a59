// Package compctx holds the state shared by both semantic passes: the
// compiler-wide context (configuration, diagnostics, debug output) and the
// per-module state (scopes, narrowing stack, current function and class,
// expression annotations).
package compctx

import (
	"fmt"
	"io"
	"os"

	"typeengine/colors"
	"typeengine/internal/diagnostics"
	"typeengine/internal/semantics/inference"
	"typeengine/internal/types"
)

// MemberResolver resolves members of receivers the checker has no
// declaration for (strings, lists, maps). It reports false for unknown members.
type MemberResolver func(receiver types.SemType, member string) (types.SemType, bool)

// DefaultBuiltins knows only the length of strings and lists
func DefaultBuiltins(receiver types.SemType, member string) (types.SemType, bool) {
	if member != "length" {
		return nil, false
	}
	switch receiver.(type) {
	case *types.ListType:
		return types.TypeInt, true
	}
	if types.IsStr(receiver) {
		return types.TypeInt, true
	}
	return nil, false
}

// Config holds analysis configuration
type Config struct {
	FilePath      string         // Originating file stamped on diagnostics
	Debug         bool           // Print pass traces to Log
	Color         bool           // ANSI colour in emitted diagnostics
	MaxUnionWidth int            // Widest union common-type inference may build (default 5)
	Builtins      MemberResolver // Members of built-in receivers
	Log           io.Writer      // Debug trace destination (default os.Stderr)
}

// CompilerContext is the state shared by every module analysed with one configuration
type CompilerContext struct {
	Config      *Config
	Diagnostics *diagnostics.DiagnosticBag
	Debug       bool
	Log         io.Writer
}

// New creates a compiler context, filling unset configuration with defaults
func New(config *Config) *CompilerContext {
	if config == nil {
		config = &Config{}
	}
	if config.MaxUnionWidth <= 0 {
		config.MaxUnionWidth = inference.DefaultMaxUnionWidth
	}
	if config.Builtins == nil {
		config.Builtins = DefaultBuiltins
	}
	if config.Log == nil {
		config.Log = os.Stderr
	}
	colors.Enable(config.Color)

	return &CompilerContext{
		Config:      config,
		Diagnostics: diagnostics.NewDiagnosticBag(),
		Debug:       config.Debug,
		Log:         config.Log,
	}
}

// HasErrors returns true if any errors have been reported
func (ctx *CompilerContext) HasErrors() bool {
	return ctx.Diagnostics.HasErrors()
}

// Report records an error. Diagnostics are stamped with the configured file;
// any other error becomes a plain error diagnostic.
func (ctx *CompilerContext) Report(err error) {
	if err == nil {
		return
	}
	diag, ok := err.(*diagnostics.Diagnostic)
	if !ok {
		diag = diagnostics.NewError(err.Error())
	}
	ctx.Diagnostics.Add(diag.WithFile(ctx.Config.FilePath))
}

// Trace prints a debug line in the given colour when debugging is enabled
func (ctx *CompilerContext) Trace(c colors.COLOR, format string, args ...any) {
	if !ctx.Debug {
		return
	}
	c.Fprintf(ctx.Log, format, args...)
	fmt.Fprintln(ctx.Log)
}
