package types

import "math"

// discountedCashFlows values n periodic coupons c plus par repaid with the last
// coupon, discounted at the periodic rate r. The i-th flow (i = 1..n) is paid
// after first+i-1 periods, so first is 1 for whole periods and the accrual
// fraction for a stub first period.
//
// Returns:
//
//	Price as a fraction of par and its derivative with respect to r.
func discountedCashFlows(n int, r, c, first float64) (float64, float64) {
	price := 0.0
	derivative := 0.0

	for i := 1; i <= n; i++ {
		t := first + float64(i-1)

		cashFlow := c
		if i == n {
			cashFlow += 1
		}

		discountFactor := math.Pow(1+r, -t)

		price += cashFlow * discountFactor
		derivative += -t * cashFlow * discountFactor / (1 + r)
	}

	return price, derivative
}

// Price calculates the price of a bond with n whole coupon periods remaining.
//
// Parameters:
//
//	n:    Number of coupon periods.
//	r:    Periodic discount rate (as a percentage).
//	c:    Periodic coupon (as a percentage).
//
// Returns:
//
//	Price as a fraction of face value.
func Price(n int, r, c float64) float64 {
	p, _ := discountedCashFlows(n, r/100, c/100, 1)
	return p
}

// PriceDerivative returns dP/dr of Price, with r as a decimal rate.
func PriceDerivative(n int, r, c float64) float64 {
	_, d := discountedCashFlows(n, r/100, c/100, 1)
	return d
}

// YieldToMaturity calculates the periodic yield of a bond with n whole periods
// remaining using the Newton-Raphson method seeded at zero.
//
// Parameters:
//
//	n:    Number of coupon periods.
//	P:    Price as a percentage of face value.
//	c:    Periodic coupon (as a percentage).
//	s:    Solver tolerance and iteration limit.
//
// Returns:
//
//	Periodic yield as a percentage.
func YieldToMaturity(n int, P, c float64, s Solver) (float64, error) {
	target := P / 100
	cd := c / 100

	r, err := s.Solve(func(r float64) (float64, float64) {
		p, d := discountedCashFlows(n, r, cd, 1)
		return p - target, d
	}, 0)
	if err != nil {
		return 0, err
	}

	return r * 100, nil
}

// PV01 is the price change of a bond for a one basis point move in r.
func PV01(n int, P, r, c float64) float64 {
	return -PriceDerivative(n, r, c) * P * 0.0001
}

// ModifiedDuration calculates the modified duration of a bond with n whole
// semi-annual periods from its cash flows.
//
// Parameters:
//
//	n:    Number of coupon periods.
//	P:    Price as a percentage of face value.
//	y:    Annual yield to maturity (as a percentage), discounted at y/2 per period.
//	c:    Periodic coupon (as a percentage).
//
// Returns:
//
//	Modified duration in periods.
func ModifiedDuration(n int, P, y, c float64) float64 {
	r := y / 100 / 2
	c = c / 100

	pv := 0.0
	tpv := 0.0

	for t := 1; t <= n; t++ {
		cashFlow := P * c
		if t == n {
			cashFlow += P
		}

		pvcf := cashFlow / math.Pow(1+r, float64(t))
		pv += pvcf
		tpv += float64(t) * pvcf
	}

	macaulay := tpv / pv

	return macaulay / (1 + r)
}
