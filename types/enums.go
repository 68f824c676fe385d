package types

import (
	"fmt"
	"strings"
)

type Family uint8

const (
	Left Family = iota
	Right
	GaussLegendre
	GaussLobatto
	GaussRadau
)

var familyNames = []string{"left", "right", "gauss_legendre", "gauss_lobatto", "gauss_radau"}

var FamilyNameMap = map[string]Family{
	"left":           Left,
	"right":          Right,
	"gauss_legendre": GaussLegendre,
	"legendre":       GaussLegendre,
	"gauss_lobatto":  GaussLobatto,
	"lobatto":        GaussLobatto,
	"gauss_radau":    GaussRadau,
	"radau":          GaussRadau,
}

func AllFamilies() []Family {
	return []Family{Left, Right, GaussLegendre, GaussLobatto, GaussRadau}
}

func (f Family) String() string {
	if int(f) < len(familyNames) {
		return familyNames[f]
	}
	return fmt.Sprintf("Family(%d)", f)
}

func NewFamily(label string) (f Family, err error) {
	var ok bool
	if f, ok = FamilyNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unknown point family %q", label)
	}
	return
}

type KernelKind uint8

const (
	SmoothnessKernel KernelKind = iota
	WeightsKernel
	ReconstructionKernel
	FusedKernel
)

func (k KernelKind) String() string {
	switch k {
	case SmoothnessKernel:
		return "smoothness"
	case WeightsKernel:
		return "weights"
	case ReconstructionKernel:
		return "reconstruction"
	case FusedKernel:
		return "fused"
	}
	return fmt.Sprintf("KernelKind(%d)", k)
}

type Grid uint8

const (
	Uniform Grid = iota
	NonUniform
)

func (g Grid) String() string {
	if g == NonUniform {
		return "nonuniform"
	}
	return "uniform"
}

func NewGrid(label string) (Grid, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "uniform":
		return Uniform, nil
	case "nonuniform", "non-uniform", "non_uniform":
		return NonUniform, nil
	}
	return Uniform, fmt.Errorf("unknown grid type %q", label)
}

// DataType represents the precision of the generated kernels
type DataType uint8

const (
	Float64 DataType = iota
	Float32
)

func (d DataType) String() string {
	if d == Float32 {
		return "float32"
	}
	return "float64"
}

func NewDataType(label string) (DataType, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "float64", "double":
		return Float64, nil
	case "float32", "float", "single":
		return Float32, nil
	}
	return Float64, fmt.Errorf("unknown precision %q", label)
}
