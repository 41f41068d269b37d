package property24

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParsePrice converts listing price text such as "R1,250,000" to a number by
// dropping the first character (the currency symbol) and every comma.
//
//	"R1,250,000" → 1250000
//	"R850"       → 850
func ParsePrice(text string) (float64, error) {
	text = strings.TrimSpace(text)
	_, size := utf8.DecodeRuneInString(text)
	digits := strings.TrimSpace(strings.ReplaceAll(text[size:], ",", ""))

	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, &PriceFormatError{Text: text, Err: err}
	}
	return v, nil
}
