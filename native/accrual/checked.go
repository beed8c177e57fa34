package accrual

import (
	"math"

	"bankvest/native/common"
)

// CheckedAdd returns a+b or ErrArithmeticOverflow when the sum wraps.
func CheckedAdd(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, common.ErrArithmeticOverflow
	}
	return a + b, nil
}

// CheckedSub returns a-b or ErrArithmeticOverflow when b exceeds a.
func CheckedSub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, common.ErrArithmeticOverflow
	}
	return a - b, nil
}

// CheckedMul returns a*b or ErrArithmeticOverflow when the product wraps.
func CheckedMul(a, b uint64) (uint64, error) {
	if a != 0 && b > math.MaxUint64/a {
		return 0, common.ErrArithmeticOverflow
	}
	return a * b, nil
}

// CheckedDiv returns a/b or ErrArithmeticOverflow when b is zero.
func CheckedDiv(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, common.ErrArithmeticOverflow
	}
	return a / b, nil
}

// CheckedPow returns base**exp or ErrArithmeticOverflow when any partial
// product wraps.
func CheckedPow(base uint64, exp uint32) (uint64, error) {
	result := uint64(1)
	for i := uint32(0); i < exp; i++ {
		next, err := CheckedMul(result, base)
		if err != nil {
			return 0, err
		}
		result = next
	}
	return result, nil
}
