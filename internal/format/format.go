package format

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

type Separator string

const (
	SeparatorNone  Separator = "none"
	SeparatorComma Separator = "comma"
	SeparatorSpace Separator = "space"
)

const NotFinite = "Result is not finite"

type Options struct {
	Precision int
	Separator Separator
}

var DefaultOptions = Options{
	Precision: 6,
	Separator: SeparatorNone,
}

// Format renders v for display. Very large and very small magnitudes switch to
// exponential notation.
func (o Options) Format(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return NotFinite
	}
	if v == 0 {
		return "0"
	}

	precision := o.Precision
	if precision < 0 {
		precision = 0
	}
	if abs := math.Abs(v); abs >= 1e6 || abs <= 1e-4 {
		return strconv.FormatFloat(v, 'e', precision, 64)
	}

	switch o.Separator {
	case SeparatorComma:
		return grouped(v, precision)
	case SeparatorSpace:
		return strings.ReplaceAll(grouped(v, precision), ",", " ")
	default:
		s := strconv.FormatFloat(v, 'f', precision, 64)
		if strings.IndexByte(s, '.') != -1 {
			s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
		}
		if s == "-0" {
			return "0"
		}
		return s
	}
}

func grouped(v float64, precision int) string {
	return message.NewPrinter(language.English).Sprint(number.Decimal(v, number.MaxFractionDigits(precision)))
}
