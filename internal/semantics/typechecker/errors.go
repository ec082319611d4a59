package typechecker

import (
	"fmt"

	"typeengine/internal/compctx"
	"typeengine/internal/diagnostics"
	"typeengine/internal/frontend/ast"
)

// at attaches node's position to a diagnostic produced by one of the pure
// engines. Diagnostics that already carry a location are left alone.
func at(mod *compctx.Module, node ast.Node, diag *diagnostics.Diagnostic, label string) error {
	if diag == nil {
		return nil
	}
	if !diag.Located() {
		diag.WithPrimaryLabel(mod.FilePath, node.Loc(), label)
	}
	return diag
}

func typeMismatch(mod *compctx.Module, node ast.Node, format string, args ...any) error {
	return diagnostics.NewError(fmt.Sprintf(format, args...)).
		WithCode(diagnostics.ErrTypeMismatch).
		WithPrimaryLabel(mod.FilePath, node.Loc(), "type mismatch")
}

func invalidOperation(mod *compctx.Module, node ast.Node, format string, args ...any) error {
	return diagnostics.NewError(fmt.Sprintf(format, args...)).
		WithCode(diagnostics.ErrInvalidOperation).
		WithPrimaryLabel(mod.FilePath, node.Loc(), "invalid operation")
}

func contextError(mod *compctx.Module, node ast.Node, code, message, help string) error {
	d := diagnostics.NewError(message).
		WithCode(code).
		WithPrimaryLabel(mod.FilePath, node.Loc(), "not allowed here")
	if help != "" {
		d.WithHelp(help)
	}
	return d
}
