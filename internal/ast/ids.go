// Package ast is the declaration/expression model IR locations refer to.
// It only carries what the IR layer needs to recover: literal text, the
// checked type of an expression and the declared type of a declaration.
package ast

type (
	StmtID uint32
	ExprID uint32
	DeclID uint32
)

const (
	NoStmtID StmtID = 0
	NoExprID ExprID = 0
	NoDeclID DeclID = 0
)

func (id StmtID) IsValid() bool { return id != NoStmtID }
func (id ExprID) IsValid() bool { return id != NoExprID }
func (id DeclID) IsValid() bool { return id != NoDeclID }
