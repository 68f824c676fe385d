package weno

import (
	"math/big"
)

const floatPrec = 256

// ratPoly is an exact polynomial, coefficients in ascending powers
type ratPoly []*big.Rat

func newRatPoly(c ...int64) (p ratPoly) {
	p = make(ratPoly, len(c))
	for i, v := range c {
		p[i] = big.NewRat(v, 1)
	}
	return
}

func (p ratPoly) degree() int { return len(p) - 1 }

func (p ratPoly) scale(a *big.Rat) (r ratPoly) {
	r = make(ratPoly, len(p))
	for i := range p {
		r[i] = new(big.Rat).Mul(p[i], a)
	}
	return
}

// mulLinear multiplies by (x + a)
func (p ratPoly) mulLinear(a *big.Rat) (r ratPoly) {
	r = make(ratPoly, len(p)+1)
	for i := range r {
		r[i] = new(big.Rat)
	}
	for i, c := range p {
		r[i+1].Add(r[i+1], c)
		r[i].Add(r[i], new(big.Rat).Mul(c, a))
	}
	return
}

func (p ratPoly) add(q ratPoly) (r ratPoly) {
	n := len(p)
	if len(q) > n {
		n = len(q)
	}
	r = make(ratPoly, n)
	for i := range r {
		r[i] = new(big.Rat)
		if i < len(p) {
			r[i].Add(r[i], p[i])
		}
		if i < len(q) {
			r[i].Add(r[i], q[i])
		}
	}
	return
}

func (p ratPoly) mul(q ratPoly) (r ratPoly) {
	if len(p) == 0 || len(q) == 0 {
		return ratPoly{}
	}
	r = make(ratPoly, len(p)+len(q)-1)
	for i := range r {
		r[i] = new(big.Rat)
	}
	tmp := new(big.Rat)
	for i, a := range p {
		for j, b := range q {
			r[i+j].Add(r[i+j], tmp.Mul(a, b))
		}
	}
	return
}

func (p ratPoly) diff() (r ratPoly) {
	if len(p) <= 1 {
		return ratPoly{new(big.Rat)}
	}
	r = make(ratPoly, len(p)-1)
	for i := range r {
		r[i] = new(big.Rat).Mul(p[i+1], big.NewRat(int64(i+1), 1))
	}
	return
}

// integrate01 is the exact integral over [0,1]
func (p ratPoly) integrate01() (s *big.Rat) {
	s = new(big.Rat)
	for i, c := range p {
		s.Add(s, new(big.Rat).Quo(c, big.NewRat(int64(i+1), 1)))
	}
	return
}

func (p ratPoly) evalRat(x *big.Rat) (y *big.Rat) {
	y = new(big.Rat)
	for i := len(p) - 1; i >= 0; i-- {
		y.Mul(y, x)
		y.Add(y, p[i])
	}
	return
}

// eval evaluates at a float64 abscissa in extended precision
func (p ratPoly) eval(x float64) float64 {
	return p.evalFloat(new(big.Float).SetPrec(floatPrec).SetFloat64(x))
}

// evalRef evaluates at the cell coordinate (1+xi)/2 of the reference abscissa xi in [-1,1]
func (p ratPoly) evalRef(xi float64) float64 {
	X := new(big.Float).SetPrec(floatPrec).SetFloat64(xi)
	X.Add(X, new(big.Float).SetPrec(floatPrec).SetInt64(1))
	X.Quo(X, new(big.Float).SetPrec(floatPrec).SetInt64(2))
	return p.evalFloat(X)
}

func (p ratPoly) evalFloat(X *big.Float) float64 {
	var (
		y = new(big.Float).SetPrec(floatPrec)
	)
	for i := len(p) - 1; i >= 0; i-- {
		y.Mul(y, X)
		y.Add(y, new(big.Float).SetPrec(floatPrec).SetRat(p[i]))
	}
	v, _ := y.Float64()
	return v
}

/*
primitiveBasis returns the derivatives of the Lagrange basis of the primitive
function through the k+1 integer nodes -r, -r+1, ..., k-r, summed so that entry j
multiplies the average of cell -r+j:

	q_j(x) = sum_{b=j+1..k} L_b'(x)
*/
func primitiveBasis(k, r int) (q []ratPoly) {
	var (
		nodes = make([]*big.Rat, k+1)
		L     = make([]ratPoly, k+1)
	)
	for b := 0; b <= k; b++ {
		nodes[b] = big.NewRat(int64(b-r), 1)
	}
	for b := 0; b <= k; b++ {
		l := newRatPoly(1)
		denom := big.NewRat(1, 1)
		for c := 0; c <= k; c++ {
			if c == b {
				continue
			}
			l = l.mulLinear(new(big.Rat).Neg(nodes[c]))
			denom.Mul(denom, new(big.Rat).Sub(nodes[b], nodes[c]))
		}
		L[b] = l.scale(new(big.Rat).Inv(denom)).diff()
	}
	q = make([]ratPoly, k)
	for j := 0; j < k; j++ {
		sum := ratPoly{new(big.Rat)}
		for b := j + 1; b <= k; b++ {
			sum = sum.add(L[b])
		}
		q[j] = sum
	}
	return
}

func ratFloat(r *big.Rat) float64 {
	v, _ := r.Float64()
	return v
}
