package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// MaxScale is the number of fractional digits an amount or balance may carry.
	MaxScale = 2
	// MaxIntegerDigits caps the integer part of an amount or balance.
	MaxIntegerDigits = 24
)

// CheckPrecision rejects values outside the supported scale or magnitude.
// It reads only the exponent and the coefficient's digit count and never
// rescales, so it must run before any comparison or arithmetic.
func CheckPrecision(d decimal.Decimal) error {
	exp := d.Exponent()
	if exp < -MaxScale || exp > MaxIntegerDigits {
		return ErrUnsupportedPrecision
	}
	if d.NumDigits()+int(exp) > MaxIntegerDigits {
		return ErrUnsupportedPrecision
	}
	return nil
}

// ValidateAmount accepts a strictly positive amount within the supported precision.
func ValidateAmount(amount decimal.Decimal) error {
	if err := CheckPrecision(amount); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
