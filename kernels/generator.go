package kernels

import (
	"errors"
	"fmt"

	"github.com/notargets/goweno/types"
	"go.uber.org/zap"
)

// ErrKernel is wrapped by every invalid kernel request
var ErrKernel = errors.New("kernels: invalid kernel request")

/*
Generator renders the three WENO kernel kinds for one target. It holds no state
besides the target, identical requests give byte identical text.
*/
type Generator struct {
	target Target
	log    *zap.Logger
}

func NewGenerator(target Target, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{
		target: target,
		log:    log.With(zap.String("target", target.Name())),
	}
}

func (g *Generator) Target() Target { return g.target }

func (g *Generator) Smoothness(k int, beta [][][]types.Coeff, cfg Config) (string, error) {
	kn, err := SmoothnessKernel(k, beta, cfg)
	if err != nil {
		return "", err
	}
	return g.Render(kn)
}

func (g *Generator) Weights(k int, varpi []types.PointWeights, n int, cfg Config) (string, error) {
	kn, err := WeightsKernel(k, varpi, n, cfg)
	if err != nil {
		return "", err
	}
	return g.Render(kn)
}

func (g *Generator) Reconstruction(k int, coeffs [][][]types.Coeff, n int, cfg Config) (string, error) {
	kn, err := ReconstructionKernel(k, coeffs, n, cfg)
	if err != nil {
		return "", err
	}
	return g.Render(kn)
}

func (g *Generator) Fused(name string, k, n int, beta [][][]types.Coeff, varpi []types.PointWeights,
	coeffs [][][]types.Coeff) (string, error) {
	kn, err := Fuse(name, k, n, beta, varpi, coeffs)
	if err != nil {
		return "", err
	}
	return g.Render(kn)
}

func (g *Generator) Render(kn *Kernel) (text string, err error) {
	if text, err = g.target.Render(kn); err != nil {
		return "", fmt.Errorf("%v kernel %q for %s: %w", kn.Kind, kn.Name, g.target.Name(), err)
	}
	g.log.Debug("generated kernel",
		zap.String("kind", kn.Kind.String()),
		zap.String("name", kn.Name),
		zap.Int("k", kn.K),
		zap.Int("points", kn.N),
		zap.Int("statements", len(kn.Body)),
		zap.Int("bytes", len(text)))
	return
}
