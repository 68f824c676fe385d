package types

import (
	"strconv"
	"strings"
)

type CoeffKind uint8

const (
	Literal CoeffKind = iota
	Preformatted
)

/*
Coeff is a single table entry handed from the derivation engine to the kernel
generator. A Literal carries a real value which is formatted when rendered, a
Preformatted entry carries source text which is emitted verbatim.
*/
type Coeff struct {
	Kind  CoeffKind
	Value float64
	Text  string
}

func Lit(v float64) Coeff { return Coeff{Kind: Literal, Value: v} }

func Text(s string) Coeff { return Coeff{Kind: Preformatted, Text: s} }

func (c Coeff) IsZero() bool {
	return c.Kind == Literal && c.Value == 0
}

// Float returns the numeric value; preformatted text is parsed when it is a plain number.
func (c Coeff) Float() (v float64, ok bool) {
	if c.Kind == Literal {
		return c.Value, true
	}
	var err error
	if v, err = strconv.ParseFloat(strings.TrimSpace(c.Text), 64); err != nil {
		return 0, false
	}
	return v, true
}

func (c Coeff) String() string {
	if c.Kind == Preformatted {
		return c.Text
	}
	return strconv.FormatFloat(c.Value, 'g', -1, 64)
}

func LitVector(v []float64) (C []Coeff) {
	C = make([]Coeff, len(v))
	for i, val := range v {
		C[i] = Lit(val)
	}
	return
}

/*
PointWeights holds the optimal linear weights of one evaluation point. When Split
is set the weights are Varpi = SigmaPlus*Plus - SigmaMinus*Minus where Plus and
Minus are nonnegative and each sum to one.
*/
type PointWeights struct {
	Varpi                 []Coeff
	Split                 bool
	Plus, Minus           []Coeff
	SigmaPlus, SigmaMinus Coeff
}
