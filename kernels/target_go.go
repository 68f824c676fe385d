package kernels

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/notargets/goweno/types"
)

// goTarget renders kernels as Go functions through jennifer
type goTarget struct {
	dt types.DataType
}

func newGoTarget(dt types.DataType) *goTarget { return &goTarget{dt: dt} }

func (t *goTarget) Name() string              { return "go" }
func (t *goTarget) Ext() string               { return "go" }
func (t *goTarget) Precision() types.DataType { return t.dt }
func (t *goTarget) Sequential() bool          { return true }

func (t *goTarget) real() *jen.Statement {
	if t.dt == types.Float32 {
		return jen.Float32()
	}
	return jen.Float64()
}

func (t *goTarget) Render(kn *Kernel) (text string, err error) {
	if kn.Inline() {
		var lines []string
		for _, st := range kn.Body {
			buf := &bytes.Buffer{}
			if err = t.statement(st).Render(buf); err != nil {
				return "", fmt.Errorf("rendering inline %v statement: %w", kn.Kind, err)
			}
			lines = append(lines, buf.String())
		}
		return strings.Join(lines, "\n") + "\n", nil
	}
	buf := &bytes.Buffer{}
	if err = t.Func(kn).Render(buf); err != nil {
		return "", fmt.Errorf("rendering %s: %w", kn.Name, err)
	}
	return buf.String() + "\n", nil
}

// Func builds the named kernel as a jennifer function declaration
func (t *goTarget) Func(kn *Kernel) *jen.Statement {
	var (
		arrays []jen.Code
		body   []jen.Code
	)
	for _, p := range kn.Params {
		arrays = append(arrays, jen.Id(p.Name))
	}
	if locals := kn.Locals(); len(locals) != 0 {
		ids := make([]jen.Code, len(locals))
		for i, name := range locals {
			ids[i] = jen.Id(name)
		}
		body = append(body, jen.Var().List(ids...).Add(t.real()))
	}
	for _, st := range kn.Body {
		body = append(body, t.statement(st))
	}
	return jen.Func().Id(kn.Name).Params(
		jen.List(arrays...).Index().Add(t.real()),
		jen.Id(IndexVar).Int(),
	).Block(body...)
}

func (t *goTarget) statement(st Assign) *jen.Statement {
	return t.expr(st.Dst).Op(st.Op.String()).Add(t.expr(st.Value))
}

func (t *goTarget) expr(e Expr) *jen.Statement {
	switch v := e.(type) {
	case Lit:
		if v.C.Kind == types.Preformatted {
			return jen.Op(v.C.Text)
		}
		return jen.Op(FormatFloat(v.C.Value))
	case Var:
		return jen.Id(v.Name)
	case Elem:
		return jen.Id(v.Array).Index(t.index(v))
	case Sum:
		s := jen.Null()
		for i, term := range v.Terms {
			if i == 0 {
				s.Add(t.expr(term))
				continue
			}
			if abs, neg := negativeTerm(term); neg {
				s.Op("-").Add(t.expr(abs))
			} else {
				s.Op("+").Add(t.expr(term))
			}
		}
		return s
	case Prod:
		s := jen.Null()
		for i, f := range v.Factors {
			if i != 0 {
				s.Op("*")
			}
			switch f.(type) {
			case Sum, Quo:
				s.Parens(t.expr(f))
			default:
				s.Add(t.expr(f))
			}
		}
		return s
	case Quo:
		s := jen.Null()
		if _, ok := v.Num.(Sum); ok {
			s.Parens(t.expr(v.Num))
		} else {
			s.Add(t.expr(v.Num))
		}
		s.Op("/")
		switch v.Den.(type) {
		case Sum, Prod, Quo:
			s.Parens(t.expr(v.Den))
		default:
			s.Add(t.expr(v.Den))
		}
		return s
	}
	panic(fmt.Errorf("unknown expression node %T", e))
}

func (t *goTarget) index(e Elem) *jen.Statement {
	var s *jen.Statement
	switch e.Scale {
	case 0:
		return jen.Lit(e.Offset)
	case 1:
		s = jen.Id(IndexVar)
	default:
		s = jen.Id(IndexVar).Op("*").Lit(e.Scale)
	}
	switch {
	case e.Offset > 0:
		s.Op("+").Lit(e.Offset)
	case e.Offset < 0:
		s.Op("-").Lit(-e.Offset)
	}
	return s
}

// GoFunc builds the named kernel kn as a jennifer function declaration
func GoFunc(kn *Kernel, dt types.DataType) *jen.Statement { return newGoTarget(dt).Func(kn) }
