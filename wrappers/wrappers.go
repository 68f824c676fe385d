/*
Package wrappers composes rendered kernels into complete source files: the file
preamble of the target and, for sequential targets, an outer loop over the
interior cells of the grid.
*/
package wrappers

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/notargets/goweno/kernels"
	"github.com/notargets/goweno/types"
)

var ErrWrap = errors.New("wrappers: cannot wrap fragment")

const header = "Code generated by goweno. DO NOT EDIT."

// Fragment is a rendered kernel together with the tree it was rendered from
type Fragment struct {
	Kernel *kernels.Kernel
	Text   string
}

type Wrapper interface {
	// Wrap composes the fragments into one buildable unit named base
	Wrap(base string, fragments ...Fragment) (string, error)
}

type Options struct {
	// Package clause of generated Go files
	Package string
}

// New returns the default wrapper of target
func New(target kernels.Target, opts Options) (Wrapper, error) {
	if opts.Package == "" {
		opts.Package = "weno"
	}
	switch target.Name() {
	case "c":
		return &cWrapper{dt: target.Precision()}, nil
	case "opencl":
		return &openCLWrapper{dt: target.Precision()}, nil
	case "occa":
		return &occaWrapper{}, nil
	case "go":
		return &goWrapper{dt: target.Precision(), pkg: opts.Package}, nil
	}
	return nil, fmt.Errorf("%w: no wrapper for target %q", ErrWrap, target.Name())
}

func check(fragments []Fragment) error {
	if len(fragments) == 0 {
		return fmt.Errorf("%w: nothing to wrap", ErrWrap)
	}
	for _, fr := range fragments {
		if fr.Kernel == nil {
			return fmt.Errorf("%w: fragment without kernel", ErrWrap)
		}
		if fr.Kernel.Inline() {
			return fmt.Errorf("%w: inline %v fragment has free variables %v, fuse it into a named kernel",
				ErrWrap, fr.Kernel.Kind, fr.Kernel.Locals())
		}
	}
	return nil
}

// AllName is the name of the outer loop over kernel name
func AllName(name string) string { return name + "_all" }

type cWrapper struct {
	dt types.DataType
}

func (w *cWrapper) Wrap(base string, fragments ...Fragment) (string, error) {
	if err := check(fragments); err != nil {
		return "", err
	}
	var (
		b    strings.Builder
		real = "double"
	)
	if w.dt == types.Float32 {
		real = "float"
	}
	fmt.Fprintf(&b, "/* %s: %s */\n", base, header)
	for _, fr := range fragments {
		kn := fr.Kernel
		b.WriteString("\n")
		b.WriteString(fr.Text)
		var params, args []string
		for _, p := range kn.Params {
			if p.Output {
				params = append(params, fmt.Sprintf("%s *restrict %s", real, p.Name))
			} else {
				params = append(params, fmt.Sprintf("const %s *restrict %s", real, p.Name))
			}
			args = append(args, p.Name)
		}
		params = append(params, "int n")
		args = append(args, "i")
		fmt.Fprintf(&b, "\nvoid %s(%s)\n{\n", AllName(kn.Name), strings.Join(params, ", "))
		fmt.Fprintf(&b, "  for (int i = %d; i < n - %d; i++)\n", kn.K-1, kn.K-1)
		fmt.Fprintf(&b, "    %s(%s);\n}\n", kn.Name, strings.Join(args, ", "))
	}
	return b.String(), nil
}

type openCLWrapper struct {
	dt types.DataType
}

func (w *openCLWrapper) Wrap(base string, fragments ...Fragment) (string, error) {
	if err := check(fragments); err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "/* %s: %s */\n", base, header)
	if w.dt == types.Float64 {
		b.WriteString("#pragma OPENCL EXTENSION cl_khr_fp64 : enable\n")
	}
	for _, fr := range fragments {
		b.WriteString("\n")
		b.WriteString(fr.Text)
	}
	return b.String(), nil
}

type occaWrapper struct{}

func (w *occaWrapper) Wrap(base string, fragments ...Fragment) (string, error) {
	if err := check(fragments); err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "// %s: %s\n", base, header)
	for _, fr := range fragments {
		b.WriteString("\n")
		b.WriteString(fr.Text)
	}
	return b.String(), nil
}

// goWrapper renders the kernel trees again through a jennifer file
type goWrapper struct {
	dt  types.DataType
	pkg string
}

func (w *goWrapper) Wrap(base string, fragments ...Fragment) (string, error) {
	if err := check(fragments); err != nil {
		return "", err
	}
	var (
		f    = jen.NewFile(w.pkg)
		real = jen.Float64
	)
	if w.dt == types.Float32 {
		real = jen.Float32
	}
	f.HeaderComment(header)
	f.HeaderComment(base)
	for _, fr := range fragments {
		kn := fr.Kernel
		var (
			arrays, args []jen.Code
		)
		for _, p := range kn.Params {
			arrays = append(arrays, jen.Id(p.Name))
			args = append(args, jen.Id(p.Name))
		}
		args = append(args, jen.Id("i"))
		f.Add(kernels.GoFunc(kn, w.dt))
		f.Line()
		f.Func().Id(AllName(kn.Name)).Params(
			jen.List(arrays...).Index().Add(real()),
			jen.Id("n").Int(),
		).Block(
			jen.For(
				jen.Id("i").Op(":=").Lit(kn.K-1),
				jen.Id("i").Op("<").Id("n").Op("-").Lit(kn.K-1),
				jen.Id("i").Op("++"),
			).Block(
				jen.Id(kn.Name).Call(args...),
			),
		)
	}
	buf := &bytes.Buffer{}
	if err := f.Render(buf); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrWrap, base, err)
	}
	return buf.String(), nil
}
