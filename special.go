package gosymbolic

import "math"

// sincSmall is the |x| threshold below which sinc and its derivative
// switch to their Taylor expansions.
const sincSmall = 1e-4

// atan2 reads a zero y or x as +0. Trees carry no signed zero, so a -0
// left by arithmetic must not land on the far side of the branch cut.
func atan2(y, x float64) float64 {
	if y == 0 {
		y = 0
	}
	if x == 0 {
		x = 0
	}
	return math.Atan2(y, x)
}

func sinc(x float64) float64 {
	if math.Abs(x) < sincSmall {
		x2 := x * x
		return 1 - x2/6 + x2*x2/120
	}
	return math.Sin(x) / x
}

// dsinc is d/dx sin(x)/x. The closed form (x cos x - sin x)/x^2
// cancels catastrophically near zero, so small inputs use -x/3 + x^3/30.
func dsinc(x float64) float64 {
	if math.Abs(x) < sincSmall {
		return -x/3 + x*x*x/30
	}
	return (x*math.Cos(x) - math.Sin(x)) / (x * x)
}

// digamma via upward recurrence into the asymptotic expansion.
func digamma(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, -1) {
		return math.NaN()
	}
	if x <= 0 && x == math.Trunc(x) {
		return math.NaN()
	}
	if x < 0 {
		// reflection: psi(1-x) - psi(x) = pi cot(pi x)
		return digamma(1-x) - math.Pi/math.Tan(math.Pi*x)
	}
	r := 0.0
	for x < 6 {
		r -= 1 / x
		x++
	}
	f := 1 / (x * x)
	t := f * (-1.0/12 + f*(1.0/120+f*(-1.0/252+f*(1.0/240+f*(-1.0/132)))))
	return r + math.Log(x) - 0.5/x + t
}

func trigamma(x float64) float64 {
	if math.IsNaN(x) {
		return x
	}
	if x <= 0 && x == math.Trunc(x) {
		return math.Inf(1)
	}
	if x < 0 {
		// reflection: psi1(1-x) + psi1(x) = pi^2 / sin^2(pi x)
		s := math.Sin(math.Pi * x)
		return -trigamma(1-x) + math.Pi*math.Pi/(s*s)
	}
	r := 0.0
	for x < 6 {
		r += 1 / (x * x)
		x++
	}
	f := 1 / (x * x)
	t := 1/x + f/2 + f/x*(1.0/6+f*(-1.0/30+f*(1.0/42+f*(-1.0/30))))
	return r + t
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	case x == 0:
		return 0
	}
	return math.NaN()
}
