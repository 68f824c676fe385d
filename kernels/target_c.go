package kernels

import (
	"fmt"
	"strings"

	"github.com/notargets/goweno/types"
)

type dialect uint8

const (
	dialectC dialect = iota
	dialectOpenCL
	dialectOCCA
)

// cFamily renders C, OpenCL C and OCCA kernel language text
type cFamily struct {
	dialect dialect
	dt      types.DataType
}

func newCFamily(d dialect, dt types.DataType) *cFamily { return &cFamily{dialect: d, dt: dt} }

func (t *cFamily) Name() string {
	switch t.dialect {
	case dialectOpenCL:
		return "opencl"
	case dialectOCCA:
		return "occa"
	}
	return "c"
}

func (t *cFamily) Ext() string {
	switch t.dialect {
	case dialectOpenCL:
		return "cl"
	case dialectOCCA:
		return "okl"
	}
	return "c"
}

func (t *cFamily) Precision() types.DataType { return t.dt }

func (t *cFamily) Sequential() bool { return t.dialect == dialectC }

func (t *cFamily) real() string {
	if t.dt == types.Float32 {
		return "float"
	}
	return "double"
}

func (t *cFamily) Render(kn *Kernel) (text string, err error) {
	var (
		b      strings.Builder
		indent = "  "
	)
	if kn.Inline() {
		for _, st := range kn.Body {
			b.WriteString(t.statement(st))
			b.WriteString("\n")
		}
		return b.String(), nil
	}
	b.WriteString(t.signature(kn))
	b.WriteString("\n{\n")
	switch t.dialect {
	case dialectOpenCL:
		fmt.Fprintf(&b, "%sint %s = get_global_id(0);\n", indent, IndexVar)
	case dialectOCCA:
		first, trailing := interiorBounds(kn.K)
		fmt.Fprintf(&b, "%sfor (int %s = %d; %s < N - %d; ++%s; @tile(64, @outer, @inner)) {\n",
			indent, IndexVar, first, IndexVar, trailing, IndexVar)
		indent += "  "
	}
	if locals := kn.Locals(); len(locals) != 0 {
		fmt.Fprintf(&b, "%s%s %s;\n", indent, t.real(), strings.Join(locals, ", "))
	}
	for _, st := range kn.Body {
		b.WriteString(indent)
		b.WriteString(t.statement(st))
		b.WriteString("\n")
	}
	if t.dialect == dialectOCCA {
		b.WriteString("  }\n")
	}
	b.WriteString("}\n")
	return b.String(), nil
}

func (t *cFamily) signature(kn *Kernel) string {
	var (
		params []string
		real   = t.real()
	)
	for _, p := range kn.Params {
		var s string
		switch t.dialect {
		case dialectC:
			if p.Output {
				s = fmt.Sprintf("%s *restrict %s", real, p.Name)
			} else {
				s = fmt.Sprintf("const %s *restrict %s", real, p.Name)
			}
		case dialectOpenCL:
			if p.Output {
				s = fmt.Sprintf("__global %s *%s", real, p.Name)
			} else {
				s = fmt.Sprintf("__global const %s *%s", real, p.Name)
			}
		case dialectOCCA:
			if p.Output {
				s = fmt.Sprintf("@restrict %s *%s", real, p.Name)
			} else {
				s = fmt.Sprintf("@restrict const %s *%s", real, p.Name)
			}
		}
		params = append(params, s)
	}
	switch t.dialect {
	case dialectC:
		params = append(params, "int "+IndexVar)
		return fmt.Sprintf("void %s(%s)", kn.Name, strings.Join(params, ", "))
	case dialectOpenCL:
		return fmt.Sprintf("__kernel void %s(%s)", kn.Name, strings.Join(params, ", "))
	}
	params = append([]string{"const int N"}, params...)
	return fmt.Sprintf("@kernel void %s(%s)", kn.Name, strings.Join(params, ", "))
}

func (t *cFamily) statement(st Assign) string {
	return fmt.Sprintf("%s %s %s;", t.expr(st.Dst), st.Op, t.expr(st.Value))
}

func (t *cFamily) expr(e Expr) string {
	switch v := e.(type) {
	case Lit:
		return FormatLiteral(v.C, t.dt)
	case Var:
		return v.Name
	case Elem:
		return v.Array + "[" + indexText(v) + "]"
	case Sum:
		var b strings.Builder
		for i, term := range v.Terms {
			if i == 0 {
				b.WriteString(t.expr(term))
				continue
			}
			if abs, neg := negativeTerm(term); neg {
				b.WriteString(" - ")
				b.WriteString(t.expr(abs))
			} else {
				b.WriteString(" + ")
				b.WriteString(t.expr(term))
			}
		}
		return b.String()
	case Prod:
		parts := make([]string, len(v.Factors))
		for i, f := range v.Factors {
			parts[i] = t.expr(f)
			switch f.(type) {
			case Sum, Quo:
				parts[i] = "(" + parts[i] + ")"
			}
		}
		return strings.Join(parts, "*")
	case Quo:
		num, den := t.expr(v.Num), t.expr(v.Den)
		if _, ok := v.Num.(Sum); ok {
			num = "(" + num + ")"
		}
		switch v.Den.(type) {
		case Sum, Prod, Quo:
			den = "(" + den + ")"
		}
		return num + "/" + den
	}
	panic(fmt.Errorf("unknown expression node %T", e))
}

// indexText renders Scale*i + Offset, e.g. "i - 2", "i*3 + 1", "i"
func indexText(e Elem) string {
	var s string
	switch e.Scale {
	case 0:
		return fmt.Sprintf("%d", e.Offset)
	case 1:
		s = IndexVar
	default:
		s = fmt.Sprintf("%s*%d", IndexVar, e.Scale)
	}
	switch {
	case e.Offset > 0:
		s += fmt.Sprintf(" + %d", e.Offset)
	case e.Offset < 0:
		s += fmt.Sprintf(" - %d", -e.Offset)
	}
	return s
}

/*
negativeTerm returns the term with the sign of its leading literal removed, true
when the term was negative. Preformatted text is never inspected.
*/
func negativeTerm(e Expr) (Expr, bool) {
	switch v := e.(type) {
	case Lit:
		if v.C.Kind == types.Literal && v.C.Value < 0 {
			return lit(-v.C.Value), true
		}
	case Prod:
		if len(v.Factors) == 0 {
			return e, false
		}
		if l, ok := v.Factors[0].(Lit); ok && l.C.Kind == types.Literal && l.C.Value < 0 {
			factors := append([]Expr{lit(-l.C.Value)}, v.Factors[1:]...)
			return Prod{Factors: factors}, true
		}
	}
	return e, false
}
