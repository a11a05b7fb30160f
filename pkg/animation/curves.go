package animation

import "math"

// Easing curves transform linear animation progress into natural-feeling motion.
//
// Each curve is a function that takes a value t in [0, 1] and returns a
// transformed value. Curves must map 0 to 0 and 1 to 1 exactly so that an
// animation lands on its target.
//
// Standard curves: [LinearCurve], [Decelerate], [EaseOut], [EaseInOut].
// Use [CubicBezier] to create custom curves matching CSS cubic-bezier().
// [CurveByName] resolves the standard curves from configuration.

// Curve maps linear progress in [0, 1] to eased progress.
type Curve func(float64) float64

// LinearCurve returns linear progress (no easing).
func LinearCurve(t float64) float64 {
	return t
}

// Decelerate returns a curve that starts fast and slows to a stop:
// 1 - (1-t)^(2*factor). A factor of 1 gives the quadratic ease-out
// 1 - (1-t)², whose slope is zero at t = 1.
func Decelerate(factor float64) Curve {
	if factor <= 0 {
		factor = 1
	}
	return func(t float64) float64 {
		t = clampUnit(t)
		if factor == 1 {
			inv := 1 - t
			return 1 - inv*inv
		}
		return 1 - math.Pow(1-t, 2*factor)
	}
}

// DecelerateCurve is Decelerate(1), the curve used for margin reveal and hide.
var DecelerateCurve = Decelerate(1)

// EaseOut starts quickly and decelerates. Equivalent to CSS ease-out.
var EaseOut = CubicBezier(0.0, 0.0, 0.2, 1.0)

// EaseInOut starts and ends slowly with acceleration in the middle.
// Equivalent to CSS ease-in-out.
var EaseInOut = CubicBezier(0.4, 0.0, 0.2, 1.0)

// CurveNames lists the names accepted by CurveByName.
var CurveNames = []string{"decelerate", "easeOut", "easeInOut", "linear"}

// CurveByName returns the standard curve with the given name.
func CurveByName(name string) (Curve, bool) {
	switch name {
	case "decelerate":
		return DecelerateCurve, true
	case "easeOut":
		return EaseOut, true
	case "easeInOut":
		return EaseInOut, true
	case "linear":
		return LinearCurve, true
	}
	return nil, false
}

// CubicBezier returns a cubic-bezier easing function matching CSS cubic-bezier().
// The parameters define the two control points (x1,y1) and (x2,y2) of the curve.
// The curve starts at (0,0) and ends at (1,1).
func CubicBezier(x1, y1, x2, y2 float64) Curve {
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}

		u := t
		// Newton-Raphson converges quickly for most values.
		for range 8 {
			x := sampleCurve(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				return sampleCurve(y1, y2, clampUnit(u))
			}
			dx := sampleCurveDerivative(x1, x2, u)
			if math.Abs(dx) < 1e-7 {
				break
			}
			u -= x / dx
		}

		// Fall back to bisection for a stable solution in [0,1].
		lo, hi := 0.0, 1.0
		u = clampUnit(u)
		for range 12 {
			x := sampleCurve(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				break
			}
			if x > 0 {
				hi = u
			} else {
				lo = u
			}
			u = (lo + hi) * 0.5
		}

		return sampleCurve(y1, y2, u)
	}
}

func sampleCurve(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*t*a + 3*inv*t*t*b + t*t*t
}

func sampleCurveDerivative(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*a + 6*inv*t*(b-a) + 3*t*t*(1-b)
}

func clampUnit(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
