/*
Package kernels builds fully unrolled WENO kernels as small expression trees and
renders them as source text for a set of targets.
*/
package kernels

import (
	"github.com/notargets/goweno/types"
)

// Expr is a node of the kernel expression tree
type Expr interface {
	isExpr()
}

type (
	// Lit is a coefficient, rendered as a numeric literal or verbatim text
	Lit struct {
		C types.Coeff
	}
	// Var is a scalar variable
	Var struct {
		Name string
	}
	// Elem is the array element Array[Scale*i + Offset]
	Elem struct {
		Array         string
		Scale, Offset int
	}
	Sum struct {
		Terms []Expr
	}
	Prod struct {
		Factors []Expr
	}
	Quo struct {
		Num, Den Expr
	}
)

func (Lit) isExpr()  {}
func (Var) isExpr()  {}
func (Elem) isExpr() {}
func (Sum) isExpr()  {}
func (Prod) isExpr() {}
func (Quo) isExpr()  {}

func lit(v float64) Lit { return Lit{C: types.Lit(v)} }

type AssignOp uint8

const (
	Set AssignOp = iota
	AddTo
	DivBy
)

func (op AssignOp) String() string {
	switch op {
	case AddTo:
		return "+="
	case DivBy:
		return "/="
	}
	return "="
}

// Assign is the only statement: Dst Op Value, Dst is a Var or an Elem
type Assign struct {
	Dst   Expr
	Op    AssignOp
	Value Expr
}

type Param struct {
	Name   string
	Output bool
}

/*
Kernel is one generated unit. A kernel with an empty Name is an inline fragment:
it has no signature or loop and its scalar variables must be declared by the code
it is pasted into.
*/
type Kernel struct {
	Name   string
	Kind   types.KernelKind
	K, N   int
	Grid   types.Grid
	Params []Param
	Body   []Assign
}

func (k *Kernel) Inline() bool { return k.Name == "" }

// Locals lists the scalar variables used by the kernel in order of first use.
func (k *Kernel) Locals() (names []string) {
	var (
		seen = make(map[string]bool)
		walk func(e Expr)
	)
	walk = func(e Expr) {
		switch v := e.(type) {
		case Var:
			if !seen[v.Name] {
				seen[v.Name] = true
				names = append(names, v.Name)
			}
		case Sum:
			for _, t := range v.Terms {
				walk(t)
			}
		case Prod:
			for _, f := range v.Factors {
				walk(f)
			}
		case Quo:
			walk(v.Num)
			walk(v.Den)
		}
	}
	for _, st := range k.Body {
		walk(st.Dst)
		walk(st.Value)
	}
	return
}

// Arrays lists the array names referenced by the body
func (k *Kernel) Arrays() (names []string) {
	var (
		seen = make(map[string]bool)
		walk func(e Expr)
	)
	walk = func(e Expr) {
		switch v := e.(type) {
		case Elem:
			if !seen[v.Array] {
				seen[v.Array] = true
				names = append(names, v.Array)
			}
		case Sum:
			for _, t := range v.Terms {
				walk(t)
			}
		case Prod:
			for _, f := range v.Factors {
				walk(f)
			}
		case Quo:
			walk(v.Num)
			walk(v.Den)
		}
	}
	for _, st := range k.Body {
		walk(st.Dst)
		walk(st.Value)
	}
	return
}

// CountOp counts the statements using op
func (k *Kernel) CountOp(op AssignOp) (n int) {
	for _, st := range k.Body {
		if st.Op == op {
			n++
		}
	}
	return
}
