package weno

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/notargets/goweno/utils"
)

// ErrDerivation is matched by every *DerivationError.
var ErrDerivation = errors.New("weno: derivation failed")

// DerivationError reports an order / point set for which no coefficient table exists.
type DerivationError struct {
	K       int
	Xi      []float64
	Op      string // "smoothness", "weights", "reconstruction", "nonuniform"
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *DerivationError) Error() string {
	var b strings.Builder
	b.WriteString("weno: derivation error")
	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}
	fmt.Fprintf(&b, " (k=%d", e.K)
	if len(e.Xi) != 0 {
		fmt.Fprintf(&b, ", xi=%v", e.Xi)
	}
	b.WriteString(")")
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *DerivationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrDerivation.
func (e *DerivationError) Is(target error) bool {
	return target == ErrDerivation
}

func newDerivationError(op string, k int, xi []float64, message string, cause error) *DerivationError {
	var x []float64
	if len(xi) != 0 {
		x = append(x, xi...)
	}
	return &DerivationError{
		K:       k,
		Xi:      x,
		Op:      op,
		Message: message,
		Cause:   cause,
	}
}

func checkOrder(op string, k int) error {
	if k < 2 {
		return newDerivationError(op, k, nil, "order must be at least 2", nil)
	}
	return nil
}

func checkPoints(op string, k int, xi []float64) error {
	if err := checkOrder(op, k); err != nil {
		return err
	}
	if len(xi) == 0 {
		return newDerivationError(op, k, xi, "no evaluation points", nil)
	}
	if utils.IsNan(xi) {
		return newDerivationError(op, k, xi, "evaluation point is NaN", nil)
	}
	for _, x := range xi {
		if x < -1 || x > 1 {
			return newDerivationError(op, k, xi,
				fmt.Sprintf("evaluation point %v outside the reference cell [-1,1]", x), nil)
		}
	}
	sorted := append([]float64{}, xi...)
	sort.Float64s(sorted)
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return newDerivationError(op, k, xi,
				fmt.Sprintf("duplicate evaluation point %v", sorted[i]), nil)
		}
	}
	return nil
}
