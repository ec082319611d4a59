package controlflow

import (
	"fmt"
	"sort"

	"typeengine/colors"
	"typeengine/internal/compctx"
	"typeengine/internal/diagnostics"
	"typeengine/internal/frontend/ast"
	"typeengine/internal/source"
	"typeengine/internal/types"
)

// ControlFlowGraph represents the control flow structure of a function body
type ControlFlowGraph struct {
	Entry *BasicBlock // Entry block
	Exit  *BasicBlock // Virtual exit block
}

// BasicBlock represents a sequence of statements with single entry and exit
type BasicBlock struct {
	ID           int              // Unique identifier
	Nodes        []ast.Node       // Statements in this block
	Successors   []*BasicBlock    // Possible next blocks
	Predecessors []*BasicBlock    // Blocks that can reach this one
	Terminator   ControlFlowKind  // How this block ends
	Location     *source.Location // Location for diagnostics
	Reachable    bool             // Whether this block is reachable
	Returns      bool             // Whether this block leaves the function (return or throw)
	CanFallThru  bool             // Whether execution can fall through
	BranchKind   string           // "if", "else", "case", "catch", etc.
	OriginNode   ast.Node         // The AST node that created this branch
}

// ControlFlowKind represents how a basic block terminates
type ControlFlowKind int

const (
	FlowFallthrough ControlFlowKind = iota // Normal flow to next block
	FlowReturn                             // Return statement
	FlowThrow                              // Throw statement
	FlowBreak                              // Break statement
	FlowContinue                           // Continue statement
	FlowConditional                        // If/switch branch
	FlowLoop                               // Loop construct
)

// CFGBuilder builds control flow graphs from function bodies
type CFGBuilder struct {
	ctx          *compctx.CompilerContext
	mod          *compctx.Module
	blockCounter int
	targets      *jumpTargets // innermost loop or switch
}

// jumpTargets tracks where break and continue go. A switch has a break
// target only; continue directly inside it is rejected by the checker.
type jumpTargets struct {
	breakTarget    *BasicBlock
	continueTarget *BasicBlock
}

// NewCFGBuilder creates a new control flow graph builder
func NewCFGBuilder(ctx *compctx.CompilerContext, mod *compctx.Module) *CFGBuilder {
	return &CFGBuilder{ctx: ctx, mod: mod}
}

func (b *CFGBuilder) newBlock() *BasicBlock {
	b.blockCounter++
	return &BasicBlock{
		ID:          b.blockCounter,
		Terminator:  FlowFallthrough,
		CanFallThru: true,
	}
}

func addEdge(from, to *BasicBlock) {
	if from != nil && to != nil {
		from.Successors = append(from.Successors, to)
		to.Predecessors = append(to.Predecessors, from)
	}
}

// BuildFunctionCFG builds the graph of a function body and warns about
// statements that can never run
func (b *CFGBuilder) BuildFunctionCFG(body *ast.Block, loc *source.Location) *ControlFlowGraph {
	cfg := &ControlFlowGraph{
		Entry: b.newBlock(),
		Exit:  b.newBlock(),
	}
	cfg.Entry.Reachable = true
	cfg.Entry.Location = loc

	current := b.buildBlock(body, cfg.Entry, cfg.Exit)
	if current != nil && current.CanFallThru {
		addEdge(current, cfg.Exit)
	}
	return cfg
}

func (b *CFGBuilder) buildBlock(block *ast.Block, current *BasicBlock, exitBlock *BasicBlock) *BasicBlock {
	if block == nil {
		return current
	}

	var unreachableStart, unreachableEnd ast.Node
	for _, node := range block.Nodes {
		if _, isDecl := node.(ast.Decl); isDecl {
			// hoisted; declarations never execute in place
			if current != nil {
				current.Nodes = append(current.Nodes, node)
			}
			continue
		}
		if current == nil {
			if unreachableStart == nil {
				unreachableStart = node
			}
			unreachableEnd = node
			continue
		}
		if unreachableStart != nil {
			b.reportUnreachableCodeRange(unreachableStart, unreachableEnd)
			unreachableStart, unreachableEnd = nil, nil
		}
		current = b.buildNode(node, current, exitBlock)
	}
	if unreachableStart != nil {
		b.reportUnreachableCodeRange(unreachableStart, unreachableEnd)
	}
	return current
}

func (b *CFGBuilder) buildNode(node ast.Node, current *BasicBlock, exitBlock *BasicBlock) *BasicBlock {
	if node == nil || current == nil {
		return current
	}

	switch n := node.(type) {
	case *ast.ReturnStmt:
		return b.leave(n, current, exitBlock, FlowReturn)
	case *ast.ThrowStmt:
		return b.leave(n, current, exitBlock, FlowThrow)
	case *ast.BreakStmt:
		return b.buildBreak(n, current)
	case *ast.ContinueStmt:
		return b.buildContinue(n, current)
	case *ast.IfStmt:
		return b.buildIf(n, current, exitBlock)
	case *ast.ForStmt:
		return b.buildLoop(n, n.Body, isInfinite(n.Cond, n.Cond == nil), current, exitBlock)
	case *ast.ForOfStmt:
		return b.buildLoop(n, n.Body, false, current, exitBlock)
	case *ast.WhileStmt:
		return b.buildLoop(n, n.Body, isInfinite(n.Cond, false), current, exitBlock)
	case *ast.SwitchStmt:
		return b.buildSwitch(n, current, exitBlock)
	case *ast.TryStmt:
		return b.buildTry(n, current, exitBlock)
	case *ast.Block:
		return b.buildBlock(n, current, exitBlock)
	}
	current.Nodes = append(current.Nodes, node)
	return current
}

// leave ends the block with a return or throw
func (b *CFGBuilder) leave(node ast.Node, current, exitBlock *BasicBlock, kind ControlFlowKind) *BasicBlock {
	current.Nodes = append(current.Nodes, node)
	current.Terminator = kind
	current.Returns = true
	current.CanFallThru = false
	addEdge(current, exitBlock)
	return nil
}

// buildBreak jumps to the innermost loop or switch exit. A stray break is
// reported by the checker and does not change the flow here.
func (b *CFGBuilder) buildBreak(stmt *ast.BreakStmt, current *BasicBlock) *BasicBlock {
	if b.targets == nil {
		return current
	}
	current.Nodes = append(current.Nodes, stmt)
	current.Terminator = FlowBreak
	current.CanFallThru = false
	addEdge(current, b.targets.breakTarget)
	return nil
}

func (b *CFGBuilder) buildContinue(stmt *ast.ContinueStmt, current *BasicBlock) *BasicBlock {
	if b.targets == nil || b.targets.continueTarget == nil {
		return current
	}
	current.Nodes = append(current.Nodes, stmt)
	current.Terminator = FlowContinue
	current.CanFallThru = false
	addEdge(current, b.targets.continueTarget)
	return nil
}

func (b *CFGBuilder) branch(from *BasicBlock, loc *source.Location, kind string, origin ast.Node) *BasicBlock {
	blk := b.newBlock()
	blk.Reachable = from.Reachable
	blk.Location = loc
	blk.BranchKind = kind
	blk.OriginNode = origin
	addEdge(from, blk)
	return blk
}

func fallsThrough(blk *BasicBlock) bool {
	return blk != nil && blk.CanFallThru
}

func (b *CFGBuilder) buildIf(stmt *ast.IfStmt, current *BasicBlock, exitBlock *BasicBlock) *BasicBlock {
	current.Nodes = append(current.Nodes, stmt)
	current.Terminator = FlowConditional

	afterIf := b.buildBlock(stmt.Body, b.branch(current, stmt.Body.Loc(), "if", stmt), exitBlock)

	var afterElse *BasicBlock
	if stmt.Else != nil {
		elseBlock := b.branch(current, stmt.Else.Loc(), "else", stmt)
		afterElse = b.buildNode(stmt.Else, elseBlock, exitBlock)
	}

	merge := b.newBlock()
	merge.Location = stmt.Loc()
	if fallsThrough(afterIf) {
		addEdge(afterIf, merge)
		merge.Reachable = true
	}
	if stmt.Else == nil {
		addEdge(current, merge)
		merge.Reachable = true
		return merge
	}
	if fallsThrough(afterElse) {
		addEdge(afterElse, merge)
		merge.Reachable = true
	}
	if !merge.Reachable {
		return nil
	}
	return merge
}

// isInfinite reports whether a loop condition is the literal true. A for
// loop without a condition never ends on its own either.
func isInfinite(cond ast.Expression, missing bool) bool {
	if missing {
		return true
	}
	for {
		p, ok := cond.(*ast.ParenExpr)
		if !ok {
			break
		}
		cond = p.X
	}
	lit, ok := cond.(*ast.BasicLit)
	return ok && lit.Kind == ast.BOOL && lit.Value == "true"
}

// buildLoop handles while, for and for-of loops. The loop is left when its
// condition fails or through break; an infinite loop only through break.
func (b *CFGBuilder) buildLoop(stmt ast.Node, body *ast.Block, infinite bool, current *BasicBlock, exitBlock *BasicBlock) *BasicBlock {
	header := b.newBlock()
	header.Reachable = current.Reachable
	header.Location = stmt.Loc()
	header.Terminator = FlowLoop
	addEdge(current, header)

	bodyBlock := b.newBlock()
	bodyBlock.Reachable = header.Reachable
	bodyBlock.Location = body.Loc()
	addEdge(header, bodyBlock)

	after := b.newBlock()
	after.Location = stmt.Loc()
	if !infinite {
		addEdge(header, after)
	}

	saved := b.targets
	b.targets = &jumpTargets{breakTarget: after, continueTarget: header}
	last := b.buildBlock(body, bodyBlock, exitBlock)
	if fallsThrough(last) {
		addEdge(last, header)
	}
	b.targets = saved

	after.Reachable = len(after.Predecessors) > 0
	if !after.Reachable {
		return nil
	}
	return after
}

// buildSwitch treats every case as a branch. Without a default the tag may
// match nothing, so the switch can always fall through.
func (b *CFGBuilder) buildSwitch(stmt *ast.SwitchStmt, current *BasicBlock, exitBlock *BasicBlock) *BasicBlock {
	current.Nodes = append(current.Nodes, stmt)
	current.Terminator = FlowConditional

	after := b.newBlock()
	after.Location = stmt.Loc()

	saved := b.targets
	b.targets = &jumpTargets{breakTarget: after}
	hasDefault := false
	for _, clause := range stmt.Cases {
		if len(clause.Exprs) == 0 {
			hasDefault = true
		}
		last := b.buildBlock(clause.Body, b.branch(current, clause.Body.Loc(), "case", stmt), exitBlock)
		if fallsThrough(last) {
			addEdge(last, after)
		}
	}
	b.targets = saved

	if !hasDefault {
		addEdge(current, after)
	}
	after.Reachable = len(after.Predecessors) > 0
	if !after.Reachable {
		return nil
	}
	return after
}

// buildTry joins the try body with the catch handler. A finally block runs
// on every path, so it is built after the join.
func (b *CFGBuilder) buildTry(stmt *ast.TryStmt, current *BasicBlock, exitBlock *BasicBlock) *BasicBlock {
	current.Nodes = append(current.Nodes, stmt)
	current.Terminator = FlowConditional

	merge := b.newBlock()
	merge.Location = stmt.Loc()

	afterTry := b.buildBlock(stmt.Body, b.branch(current, stmt.Body.Loc(), "try", stmt), exitBlock)
	if fallsThrough(afterTry) {
		addEdge(afterTry, merge)
	}
	if stmt.Catch != nil {
		afterCatch := b.buildBlock(stmt.Catch, b.branch(current, stmt.Catch.Loc(), "catch", stmt), exitBlock)
		if fallsThrough(afterCatch) {
			addEdge(afterCatch, merge)
		}
	}

	merge.Reachable = len(merge.Predecessors) > 0
	if stmt.Finally == nil {
		if !merge.Reachable {
			return nil
		}
		return merge
	}
	if !merge.Reachable {
		// every path leaves the try, but finally still runs on the way out
		fin := b.newBlock()
		fin.Reachable = true
		fin.Location = stmt.Finally.Loc()
		b.buildBlock(stmt.Finally, fin, exitBlock)
		return nil
	}
	return b.buildBlock(stmt.Finally, merge, exitBlock)
}

// reportUnreachableCodeRange warns once for a run of statements that can never execute
func (b *CFGBuilder) reportUnreachableCodeRange(start, end ast.Node) {
	startLoc := start.Loc()
	endLoc := end.Loc()
	rangeLocation := startLoc
	if startLoc.Start != nil && endLoc.End != nil {
		rangeLocation = &source.Location{
			Filename: startLoc.Filename,
			Start:    startLoc.Start,
			End:      endLoc.End,
		}
	}

	b.ctx.Trace(colors.ORANGE, "    unreachable code in %s", b.mod.FilePath)
	b.ctx.Report(
		diagnostics.NewWarning("unreachable code").
			WithCode(diagnostics.WarnUnreachableCode).
			WithPrimaryLabel(b.mod.FilePath, rangeLocation, "this code will never execute").
			WithHelp("remove this code or restructure control flow"),
	)
}

// AnalyzeReturns reports a function whose declared result needs a value
// but which can reach its end without returning one
func AnalyzeReturns(ctx *compctx.CompilerContext, mod *compctx.Module, name string, loc *source.Location, declared types.SemType, cfg *ControlFlowGraph) {
	if f, ok := declared.(*types.FutureType); ok {
		declared = f.Inner
	}
	if declared == nil || types.IsVoid(declared) || types.IsAbsorbing(declared) {
		return
	}
	if allPathsReturn(cfg) {
		return
	}

	diag := diagnostics.NewError(
		fmt.Sprintf("not all code paths in function %s return a value of type %s", name, declared)).
		WithCode(diagnostics.ErrMissingReturn).
		WithPrimaryLabel(mod.FilePath, loc, "missing return on some paths")

	for _, block := range findMissingReturnBranches(cfg) {
		if block.Location == nil || block.Location.Start == nil {
			continue
		}
		diag.WithSecondaryLabel(mod.FilePath, block.Location,
			fmt.Sprintf("missing return in %s at line %d", block.BranchKind, block.Location.Start.Line))
	}

	diag.WithHelp("make sure every branch returns, or add a final return at the end of the function")
	ctx.Report(diag)
}

func allPathsReturn(cfg *ControlFlowGraph) bool {
	return !canReachExitWithoutReturn(cfg.Entry, cfg.Exit, make(map[*BasicBlock]bool))
}

func canReachExitWithoutReturn(current, exit *BasicBlock, visited map[*BasicBlock]bool) bool {
	if current == nil || visited[current] {
		return false
	}
	visited[current] = true

	if current == exit {
		return true
	}
	if current.Returns {
		return false
	}
	for _, succ := range current.Successors {
		if canReachExitWithoutReturn(succ, exit, visited) {
			return true
		}
	}
	return false
}

// findMissingReturnBranches finds the branch blocks from which the exit is
// reachable without a return, in block order
func findMissingReturnBranches(cfg *ControlFlowGraph) []*BasicBlock {
	reachingExit := make(map[*BasicBlock]bool)
	visited := make(map[*BasicBlock]bool)

	var walk func(*BasicBlock)
	walk = func(block *BasicBlock) {
		if block == nil || visited[block] || block == cfg.Exit {
			return
		}
		visited[block] = true
		for _, succ := range block.Successors {
			if succ == cfg.Exit && !block.Returns {
				reachingExit[block] = true
			}
		}
		for _, succ := range block.Successors {
			walk(succ)
		}
	}
	walk(cfg.Entry)

	seen := make(map[*BasicBlock]bool)
	var missing []*BasicBlock
	for block := range reachingExit {
		for _, branch := range traceToAllBranches(block) {
			if !seen[branch] {
				seen[branch] = true
				missing = append(missing, branch)
			}
		}
	}
	sortByID(missing)
	return missing
}

// traceToAllBranches walks backwards from block to the branch blocks that lead to it
func traceToAllBranches(block *BasicBlock) []*BasicBlock {
	var branches []*BasicBlock
	visited := make(map[*BasicBlock]bool)
	queue := []*BasicBlock{block}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true

		if current.BranchKind != "" {
			branches = append(branches, current)
			continue
		}
		queue = append(queue, current.Predecessors...)
	}
	return branches
}

func sortByID(blocks []*BasicBlock) {
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].ID < blocks[j].ID })
}
