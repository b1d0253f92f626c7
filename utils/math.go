package utils

import "math"

// Px is a device independent pixel length. Layout arithmetic on Px
// values must go through the saturating helpers below, so that
// absurd style input (width:2147483647px and friends) clamps instead
// of wrapping.
type Px = int32

const (
	MaxPx Px = math.MaxInt32
	MinPx Px = math.MinInt32
)

func SatAdd(a, b Px) Px {
	return clamp64(int64(a) + int64(b))
}

func SatSub(a, b Px) Px {
	return clamp64(int64(a) - int64(b))
}

func SatMul(a, b Px) Px {
	return clamp64(int64(a) * int64(b))
}

func SatNeg(a Px) Px {
	if a == MinPx {
		return MaxPx
	}
	return -a
}

func clamp64(s int64) Px {
	if s > int64(MaxPx) {
		return MaxPx
	}
	if s < int64(MinPx) {
		return MinPx
	}
	return Px(s)
}

// SatPx clamps a float value, from percentage or font relative
// resolution, to a pixel count.
func SatPx(v float64) Px {
	if v >= float64(MaxPx) {
		return MaxPx
	}
	if v <= float64(MinPx) {
		return MinPx
	}
	return Px(v)
}

func MinPxs(x, y Px) Px {
	if x < y {
		return x
	}
	return y
}

func MaxPxs(x, y Px) Px {
	if x > y {
		return x
	}
	return y
}

func MinInt(x, y int) int {
	if x < y {
		return x
	}
	return y
}

func MaxInt(x, y int) int {
	if x > y {
		return x
	}
	return y
}

// Maxs returns the maximum of the values, 0 for an empty list.
func Maxs(values ...Px) Px {
	var max Px
	for i, w := range values {
		if i == 0 || w > max {
			max = w
		}
	}
	return max
}

func Abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
