package investment

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrAmountAbsent is returned for a record without an amount field.
	ErrAmountAbsent = errors.New("amount is absent")
	// ErrUnparsableAmount is returned when an amount cannot be read as a number.
	ErrUnparsableAmount = errors.New("amount is not a number")
)

// amountNoise is stripped from textual amounts before parsing.
var amountNoise = strings.NewReplacer(" ", "", "₽", "", "RUB", "")

// ParseAmount converts an amount into a signed float.
func ParseAmount(a Amount) (float64, error) {
	var v float64

	switch a.kind {
	case amountNumber:
		v = a.number
	case amountText:
		clean := amountNoise.Replace(strings.TrimSpace(a.text))
		parsed, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			return 0, ErrUnparsableAmount
		}
		v = parsed
	case amountInvalid:
		return 0, ErrUnparsableAmount
	default:
		return 0, ErrAmountAbsent
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrUnparsableAmount
	}
	return v, nil
}
