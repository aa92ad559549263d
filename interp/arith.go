/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package interp

import "math"

// The arithmetic corner cases of spec §4.F, factored out of the dispatch
// switch so the round-trip/invariant tests in §8 can exercise them
// directly without building a Frame.

func idiv(a, b int32) (int32, error) {
	if b == 0 {
		return 0, errArithmetic("/ by zero")
	}
	if a == math.MinInt32 && b == -1 {
		return math.MinInt32, nil
	}
	return a / b, nil
}

func irem(a, b int32) (int32, error) {
	if b == 0 {
		return 0, errArithmetic("/ by zero")
	}
	if a == math.MinInt32 && b == -1 {
		return 0, nil
	}
	return a % b, nil
}

func ldiv(a, b int64) (int64, error) {
	if b == 0 {
		return 0, errArithmetic("/ by zero")
	}
	if a == math.MinInt64 && b == -1 {
		return math.MinInt64, nil
	}
	return a / b, nil
}

func lrem(a, b int64) (int64, error) {
	if b == 0 {
		return 0, errArithmetic("/ by zero")
	}
	if a == math.MinInt64 && b == -1 {
		return 0, nil
	}
	return a % b, nil
}

// ishl/ishr/iushr mask the shift amount to the low 5 bits; lshl/lshr/lushr
// to the low 6 bits (spec §4.F).
func ishl(a, s int32) int32  { return a << (uint32(s) & 31) }
func ishr(a, s int32) int32  { return a >> (uint32(s) & 31) }
func iushr(a, s int32) int32 { return int32(uint32(a) >> (uint32(s) & 31)) }
func lshl(a int64, s int32) int64  { return a << (uint64(s) & 63) }
func lshr(a int64, s int32) int64  { return a >> (uint64(s) & 63) }
func lushr(a int64, s int32) int64 { return int64(uint64(a) >> (uint64(s) & 63)) }

func lcmp(a, b int64) int32 {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

// fcmpl/fcmpg/dcmpl/dcmpg: equal sign-wise comparisons are identical;
// they differ only in which value NaN produces (spec §4.F).
func fcmpl(a, b float32) int32 { return cmpNaN(float64(a), float64(b), -1) }
func fcmpg(a, b float32) int32 { return cmpNaN(float64(a), float64(b), 1) }
func dcmpl(a, b float64) int32 { return cmpNaN(a, b, -1) }
func dcmpg(a, b float64) int32 { return cmpNaN(a, b, 1) }

func cmpNaN(a, b float64, nanResult int32) int32 {
	if math.IsNaN(a) || math.IsNaN(b) {
		return nanResult
	}
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

// float/double -> int/long conversions: round-toward-zero, NaN maps to 0,
// out-of-range values saturate (spec §4.F). Go's own float-to-int
// conversion is undefined on overflow, so these are done by hand.
func f2i(f float32) int32 { return d2iGeneric(float64(f), math.MinInt32, math.MaxInt32) }
func d2i(d float64) int32 { return d2iGeneric(d, math.MinInt32, math.MaxInt32) }

func d2iGeneric(d float64, lo, hi int64) int32 {
	if math.IsNaN(d) {
		return 0
	}
	if d <= float64(lo) {
		return int32(lo)
	}
	if d >= float64(hi) {
		return int32(hi)
	}
	return int32(math.Trunc(d))
}

func f2l(f float32) int64 { return d2lGeneric(float64(f)) }
func d2l(d float64) int64 { return d2lGeneric(d) }

func d2lGeneric(d float64) int64 {
	if math.IsNaN(d) {
		return 0
	}
	if d <= float64(math.MinInt64) {
		return math.MinInt64
	}
	if d >= float64(math.MaxInt64) {
		return math.MaxInt64
	}
	return int64(math.Trunc(d))
}
