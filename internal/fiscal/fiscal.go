// Package fiscal validates Brazilian taxpayer identifiers (CPF and CNPJ)
// using their modulo-11 check digits. Inputs must already be unmasked.
package fiscal

const (
	CPFLength  = 11
	CNPJLength = 14
)

// ValidCPF reports whether digits is an 11-digit CPF whose two check digits match.
func ValidCPF(digits string) bool {
	d, ok := parseDigits(digits, CPFLength)
	if !ok {
		return false
	}

	if checkDigit(d[:9], cpfWeights(10)) != d[9] {
		return false
	}
	return checkDigit(d[:10], cpfWeights(11)) == d[10]
}

// ValidCNPJ reports whether digits is a 14-digit CNPJ whose two check digits match.
func ValidCNPJ(digits string) bool {
	d, ok := parseDigits(digits, CNPJLength)
	if !ok {
		return false
	}

	if checkDigit(d[:12], cnpjWeights(12)) != d[12] {
		return false
	}
	return checkDigit(d[:13], cnpjWeights(13)) == d[13]
}

// cpfWeights returns the descending weights start, start-1, ..., 2.
func cpfWeights(start int) []int {
	weights := make([]int, 0, start-1)
	for w := start; w >= 2; w-- {
		weights = append(weights, w)
	}
	return weights
}

// cnpjWeights returns n weights starting at n-7 and descending to 2,
// wrapping back to 9 whenever the next weight would drop below 2.
// For n=12 that is 5,4,3,2,9,8,7,6,5,4,3,2.
func cnpjWeights(n int) []int {
	weights := make([]int, n)
	w := n - 7
	for i := range weights {
		weights[i] = w
		w--
		if w < 2 {
			w = 9
		}
	}
	return weights
}

func checkDigit(base, weights []int) int {
	sum := 0
	for i, digit := range base {
		sum += digit * weights[i]
	}
	remainder := sum % 11
	if remainder < 2 {
		return 0
	}
	return 11 - remainder
}

// parseDigits converts s into its digit values. It fails on the wrong length,
// on any non-digit byte and on sequences made of one repeated digit.
func parseDigits(s string, length int) ([]int, bool) {
	if len(s) != length {
		return nil, false
	}

	digits := make([]int, length)
	repeated := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return nil, false
		}
		digits[i] = int(c - '0')
		if c != s[0] {
			repeated = false
		}
	}
	if repeated {
		return nil, false
	}
	return digits, true
}
