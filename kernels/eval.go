package kernels

import (
	"fmt"

	"github.com/notargets/goweno/types"
)

/*
Evaluate interprets the kernel body at grid index i. Arrays are read and written in
place, scalar variables live in scope. Named kernels start from an empty scope,
inline fragments expect the caller's scalars in scope.
*/
func Evaluate(kn *Kernel, i int, arrays map[string][]float64, scope map[string]float64) (err error) {
	ev := evaluator{i: i, arrays: arrays, scope: scope}
	for _, st := range kn.Body {
		var v float64
		if v, err = ev.eval(st.Value); err != nil {
			return
		}
		if st.Op != Set {
			var old float64
			if old, err = ev.eval(st.Dst); err != nil {
				return
			}
			switch st.Op {
			case AddTo:
				v = old + v
			case DivBy:
				v = old / v
			}
		}
		if err = ev.store(st.Dst, v); err != nil {
			return
		}
	}
	return
}

type evaluator struct {
	i      int
	arrays map[string][]float64
	scope  map[string]float64
}

func (ev evaluator) element(e Elem) (a []float64, ind int, err error) {
	var ok bool
	if a, ok = ev.arrays[e.Array]; !ok {
		return nil, 0, fmt.Errorf("array %q is not bound", e.Array)
	}
	ind = e.Scale*ev.i + e.Offset
	if ind < 0 || ind >= len(a) {
		return nil, 0, fmt.Errorf("index %d out of range for %s[%d] at i = %d", ind, e.Array, len(a), ev.i)
	}
	return
}

func (ev evaluator) store(dst Expr, v float64) error {
	switch d := dst.(type) {
	case Var:
		ev.scope[d.Name] = v
		return nil
	case Elem:
		a, ind, err := ev.element(d)
		if err != nil {
			return err
		}
		a[ind] = v
		return nil
	}
	return fmt.Errorf("cannot assign to %T", dst)
}

func (ev evaluator) eval(e Expr) (v float64, err error) {
	switch x := e.(type) {
	case Lit:
		var ok bool
		if v, ok = x.C.Float(); !ok {
			err = fmt.Errorf("preformatted coefficient %q is not a number", x.C.Text)
		}
		return
	case Var:
		var ok bool
		if v, ok = ev.scope[x.Name]; !ok {
			err = fmt.Errorf("variable %q is not in scope", x.Name)
		}
		return
	case Elem:
		var (
			a   []float64
			ind int
		)
		if a, ind, err = ev.element(x); err != nil {
			return
		}
		return a[ind], nil
	case Sum:
		for _, t := range x.Terms {
			var tv float64
			if tv, err = ev.eval(t); err != nil {
				return
			}
			v += tv
		}
		return
	case Prod:
		v = 1
		for _, f := range x.Factors {
			var fv float64
			if fv, err = ev.eval(f); err != nil {
				return
			}
			v *= fv
		}
		return
	case Quo:
		var n, d float64
		if n, err = ev.eval(x.Num); err != nil {
			return
		}
		if d, err = ev.eval(x.Den); err != nil {
			return
		}
		return n / d, nil
	}
	return 0, fmt.Errorf("unknown expression node %T", e)
}

/*
Pipeline runs named kernels in order over the interior cells k-1 <= i <= cells-k,
the arrays sigma, omega and value are allocated per run. Arrays holds the extra
inputs of non-uniform kernels.
*/
type Pipeline struct {
	K, N    int
	Kernels []*Kernel
	Arrays  map[string][]float64
}

func NewPipeline(kernels ...*Kernel) (p *Pipeline, err error) {
	if len(kernels) == 0 {
		return nil, fmt.Errorf("%w: empty pipeline", ErrKernel)
	}
	p = &Pipeline{K: kernels[0].K, N: 1, Arrays: make(map[string][]float64)}
	for _, kn := range kernels {
		if kn.Inline() {
			return nil, fmt.Errorf("%w: pipeline needs named kernels, %v kernel is inline", ErrKernel, kn.Kind)
		}
		if kn.K != p.K {
			return nil, fmt.Errorf("%w: mixed orders %d and %d in pipeline", ErrKernel, p.K, kn.K)
		}
		if kn.Kind != types.SmoothnessKernel {
			p.N = kn.N
		}
	}
	p.Kernels = kernels
	return
}

// Run returns value[i*N + l] for the cell averages f, zero outside the interior.
func (p *Pipeline) Run(f []float64) (value []float64, err error) {
	var (
		cells  = len(f)
		arrays = map[string][]float64{
			ArrayInput: f,
			ArraySigma: make([]float64, cells*p.K),
			ArrayOmega: make([]float64, cells*p.N*p.K),
			ArrayValue: make([]float64, cells*p.N),
		}
	)
	if cells < 2*p.K-1 {
		return nil, fmt.Errorf("%w: %d cells, need at least %d", ErrKernel, cells, 2*p.K-1)
	}
	for name, a := range p.Arrays {
		arrays[name] = a
	}
	for _, kn := range p.Kernels {
		for i := p.K - 1; i <= cells-p.K; i++ {
			if err = Evaluate(kn, i, arrays, make(map[string]float64)); err != nil {
				return nil, fmt.Errorf("%s at cell %d: %w", kn.Name, i, err)
			}
		}
	}
	return arrays[ArrayValue], nil
}
