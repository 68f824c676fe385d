package kernels

import (
	"strconv"
	"strings"

	"github.com/notargets/goweno/types"
)

// Digits is the minimum number of significant digits of a rendered literal
const Digits = 15

/*
FormatFloat renders v with Digits significant digits, or with as many as needed to
parse back to exactly v. The result always carries a decimal point or an exponent.
*/
func FormatFloat(v float64) (s string) {
	s = strconv.FormatFloat(v, 'g', Digits, 64)
	if p, err := strconv.ParseFloat(s, 64); err != nil || p != v {
		s = strconv.FormatFloat(v, 'g', -1, 64)
	}
	if !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}
	return
}

// FormatLiteral renders a coefficient for the C family of targets. Preformatted text is returned verbatim.
func FormatLiteral(c types.Coeff, dt types.DataType) string {
	if c.Kind == types.Preformatted {
		return c.Text
	}
	s := FormatFloat(c.Value)
	if dt == types.Float32 {
		s += "f"
	}
	return s
}
