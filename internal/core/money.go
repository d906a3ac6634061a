// Package core holds the domain types for the ledger: monetary values,
// accounts, transactions and period windows.
//
// This file contains the fixed-point money representation. Amounts are kept
// as an integer number of minor units (cents) so aggregation is exact; no
// monetary value ever passes through a binary float.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// MaxCents bounds the representable magnitude. Sums and parses beyond this
// fail with ErrAmountOverflow instead of wrapping.
const MaxCents int64 = 1_000_000_000_000_000 // 10^13 currency units

// Money is a currency amount in minor units.
type Money struct {
	Cents int64
}

// ParseAmount converts a decimal string to Money with half-up rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// rounds half-up on the third decimal place. Negative input is rejected;
// zero is allowed (an unset budget or an empty aggregate is 0.00).
//
// Examples:
//
//	ParseAmount("12.34")  -> 1234 cents
//	ParseAmount("12,34")  -> 1234 cents
//	ParseAmount("12.346") -> 1235 cents (rounds up)
//	ParseAmount("100")    -> 10000 cents
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only unsigned values allowed
		return Money{}, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" && fracPart == "" {
		// "." alone
		return Money{}, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		// Digits only at this point, so failure means out of int64 range
		return Money{}, ErrAmountOverflow
	}
	// Take the first two fractional digits, half-up rounding on the third
	var fracCents int64
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracCents = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracCents += d2
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	if iv > (MaxCents-fracCents)/100 {
		return Money{}, ErrAmountOverflow
	}
	return Money{Cents: iv*100 + fracCents}, nil
}

// Add returns the exact sum of two amounts.
func (m Money) Add(o Money) (Money, error) {
	c := m.Cents + o.Cents
	if c > MaxCents || c < 0 {
		return Money{}, ErrAmountOverflow
	}
	return Money{Cents: c}, nil
}

// SumAmounts adds a sequence of amounts with overflow checking.
func SumAmounts(amounts []Money) (Money, error) {
	var total Money
	for _, a := range amounts {
		var err error
		total, err = total.Add(a)
		if err != nil {
			return Money{}, err
		}
	}
	return total, nil
}

// Compare returns -1, 0 or 1 as m is less than, equal to or greater than o.
func (m Money) Compare(o Money) int {
	switch {
	case m.Cents < o.Cents:
		return -1
	case m.Cents > o.Cents:
		return 1
	default:
		return 0
	}
}

// IsZero reports whether the amount is exactly 0.00.
func (m Money) IsZero() bool {
	return m.Cents == 0
}

// String formats the amount with a dot separator and exactly two fractional
// digits, so ParseAmount(s).String() yields the normalized form of s.
func (m Money) String() string {
	c := m.Cents
	neg := c < 0
	if neg {
		c = -c
	}
	s := fmt.Sprintf("%d.%02d", c/100, c%100)
	if neg {
		return "-" + s
	}
	return s
}
