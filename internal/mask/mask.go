// Package mask formats raw digit strings into display masks and strips them
// back. Every function is total: malformed input yields a best-effort result.
package mask

import "strings"

type Kind string

const (
	KindNone     Kind = ""
	KindCPF      Kind = "cpf"
	KindCNPJ     Kind = "cnpj"
	KindRG       Kind = "rg"
	KindPhone    Kind = "phone"
	KindCurrency Kind = "currency"
)

// Kinds lists every kind with a mask, in display order.
var Kinds = []Kind{KindCPF, KindCNPJ, KindRG, KindPhone, KindCurrency}

// segment is one run of digits and the literal written before it.
type segment struct {
	prefix string
	size   int
}

// layouts hold the segment sequence of every fixed-length kind. A prefix of
// n digits fills the segments in order, so partial input is masked the same
// way a complete value is.
var layouts = map[Kind][]segment{
	KindCPF:   {{"", 3}, {".", 3}, {".", 3}, {"-", 2}},
	KindCNPJ:  {{"", 2}, {".", 3}, {".", 3}, {"/", 4}, {"-", 2}},
	KindRG:    {{"", 2}, {".", 3}, {".", 3}, {"-", 1}},
	KindPhone: {{"(", 2}, {") ", 5}, {"-", 4}},
}

// ParseKind maps a kind name to a Kind. Unknown names map to KindNone.
func ParseKind(name string) Kind {
	k := Kind(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Kinds {
		if k == known {
			return k
		}
	}
	return KindNone
}

// MaxDigits returns how many digits the kind keeps. Currency and KindNone are
// unbounded and report false.
func MaxDigits(kind Kind) (int, bool) {
	segments, ok := layouts[kind]
	if !ok {
		return 0, false
	}
	total := 0
	for _, s := range segments {
		total += s.size
	}
	return total, true
}

// Strip removes every character that is not an ASCII decimal digit.
func Strip(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for i := 0; i < len(input); i++ {
		if c := input[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Remove drops a mask, keeping only the digits. It is the same operation as
// Strip: a mask never holds information the digits don't.
func Remove(input string) string {
	return Strip(input)
}

// Apply formats input according to kind. Unknown kinds, including KindNone,
// return the input unchanged.
func Apply(input string, kind Kind) string {
	if kind == KindCurrency {
		return Currency(input)
	}

	segments, ok := layouts[kind]
	if !ok {
		return input
	}

	digits := Strip(input)
	if limit, _ := MaxDigits(kind); len(digits) > limit {
		digits = digits[:limit]
	}
	return applySegments(digits, segments)
}

func applySegments(digits string, segments []segment) string {
	var b strings.Builder
	for _, s := range segments {
		// A literal is only written once its segment has a digit to follow it.
		if digits == "" {
			break
		}
		b.WriteString(s.prefix)
		n := min(s.size, len(digits))
		b.WriteString(digits[:n])
		digits = digits[n:]
	}
	return b.String()
}

// Currency treats the digits of input as a cents amount and formats it as
// Brazilian reais, e.g. "12345" -> "R$ 123,45". Input without digits yields "".
func Currency(input string) string {
	digits := Strip(input)
	if digits == "" {
		return ""
	}

	digits = strings.TrimLeft(digits, "0")
	for len(digits) < 3 {
		digits = "0" + digits
	}

	whole, cents := digits[:len(digits)-2], digits[len(digits)-2:]
	return "R$ " + GroupThousands(whole, ".") + "," + cents
}

// GroupThousands inserts sep between every group of three digits counted from
// the right.
func GroupThousands(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
