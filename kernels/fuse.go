package kernels

import (
	"fmt"

	"github.com/notargets/goweno/types"
)

/*
Fuse composes the smoothness, weights and reconstruction fragments into one named
kernel with parameters (f, value). The indicators, weights and stencil values stay
in local scalars, only the blended values are stored.
*/
func Fuse(name string, k, n int, beta [][][]types.Coeff, varpi []types.PointWeights,
	coeffs [][][]types.Coeff) (kn *Kernel, err error) {
	if name == "" {
		return nil, fmt.Errorf("%w: fused kernel needs a name", ErrKernel)
	}
	var (
		cfg = Config{Names: DefaultNames()}
		s   *Kernel
		b   = newBinding(cfg, k, n)
	)
	if s, err = SmoothnessKernel(k, beta, cfg); err != nil {
		return
	}
	if _, err = WeightsKernel(k, varpi, n, cfg); err != nil {
		return
	}
	if _, err = ReconstructionKernel(k, coeffs, n, cfg); err != nil {
		return
	}
	b.outputArray = true
	kn = &Kernel{
		Name:   name,
		Kind:   types.FusedKernel,
		K:      k,
		N:      n,
		Params: []Param{{Name: ArrayInput}, {Name: ArrayValue, Output: true}},
	}
	kn.Body = append(kn.Body, s.Body...)
	kn.Body = append(kn.Body, weightsBody(b, varpi)...)
	kn.Body = append(kn.Body, reconstructionBody(b, coeffs)...)
	return
}
