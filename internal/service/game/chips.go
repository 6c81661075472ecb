package game

import "github.com/niqqow96/Backend-PKROnchain/pkg/utils/safemath"

var (
	addChips = safemath.Add
	subChips = safemath.Sub
	mulChips = safemath.Mul
)
