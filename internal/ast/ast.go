// Copyright 2026 The SIN Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ast defines the statement and expression node variants the
// parser is contracted to produce; the parser itself is an external
// collaborator this package does not implement. The hierarchy is a
// tagged union expressed as Go interfaces with one concrete struct per
// variant, the same shape real Go compiler IRs use: a sum type over
// concrete node kinds rather than a class hierarchy with virtual
// dispatch.
package ast

// Stmt is implemented by every statement node.
type Stmt interface {
	stmtNode()
	Line() int
}

// Expr is implemented by every expression node.
type Expr interface {
	exprNode()
	Line() int
	// IsConst reports whether the parser marked this expression as
	// compile-time evaluable.
	IsConst() bool
	// ConstInt reports the expression's value if it is reducible to a
	// compile-time integer constant; satisfies types.ConstIntExpr so
	// array-length expressions can be deferred to the const evaluator.
	ConstInt() (int64, bool)
}

type baseExpr struct {
	LineNo  int
	Const   bool
}

func (b baseExpr) Line() int     { return b.LineNo }
func (b baseExpr) IsConst() bool { return b.Const }
func (b baseExpr) ConstInt() (int64, bool) { return 0, false }
func (b baseExpr) exprNode() {}

type baseStmt struct {
	LineNo int
}

func (b baseStmt) Line() int { return b.LineNo }
func (b baseStmt) stmtNode() {}
