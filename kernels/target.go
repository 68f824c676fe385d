package kernels

import (
	"fmt"
	"sort"
	"strings"

	"github.com/notargets/goweno/types"
)

// Target renders a kernel as source text in one language / execution model
type Target interface {
	Name() string
	Ext() string
	Precision() types.DataType
	// Sequential targets process one grid index per call, the caller iterates
	Sequential() bool
	Render(kn *Kernel) (string, error)
}

var targetConstructors = map[string]func(dt types.DataType) Target{
	"c":      func(dt types.DataType) Target { return newCFamily(dialectC, dt) },
	"opencl": func(dt types.DataType) Target { return newCFamily(dialectOpenCL, dt) },
	"occa":   func(dt types.DataType) Target { return newCFamily(dialectOCCA, dt) },
	"go":     func(dt types.DataType) Target { return newGoTarget(dt) },
}

func NewTarget(name string, dt types.DataType) (Target, error) {
	ctor, ok := targetConstructors[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: unknown target %q, have %v", ErrKernel, name, TargetNames())
	}
	return ctor(dt), nil
}

func TargetNames() (names []string) {
	for name := range targetConstructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// interior cell range shared by the loops of all targets, [k-1, N-k]
func interiorBounds(k int) (first, trailing int) { return k - 1, k - 1 }
