// Package safemath is checked unsigned arithmetic for chip accounting.
// Every failure wraps an appErr integrity error.
package safemath

import (
	"fmt"
	"math/bits"

	appErr "github.com/niqqow96/Backend-PKROnchain/pkg/errors"
)

func Add(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, fmt.Errorf("%w: %d + %d", appErr.ErrArithmeticOverflow, a, b)
	}
	return sum, nil
}

func Sub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, fmt.Errorf("%w: %d - %d", appErr.ErrArithmeticUnderflow, a, b)
	}
	return diff, nil
}

func Mul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, fmt.Errorf("%w: %d * %d", appErr.ErrArithmeticOverflow, a, b)
	}
	return lo, nil
}
