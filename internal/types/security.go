package types

import (
	"fmt"
	"math"

	"cloud.google.com/go/civil"
	"github.com/Rhymond/go-money"
)

// Terms are the construction inputs of a Treasury security.
type Terms struct {
	Quote          string     `json:"quote"`
	Periods        int        `json:"periods"`
	AnnualCoupon   float64    `json:"annualCoupon"`
	TradeDate      civil.Date `json:"tradeDate"`
	PrevCouponDate civil.Date `json:"prevCouponDate"`
	NextCouponDate civil.Date `json:"nextCouponDate"`
}

// Security is a semi-annual coupon Treasury priced from a market quote. The
// first period runs from settlement to the next coupon date and is usually a
// fraction of a full period.
//
// A Security is immutable once NewSecurity returns, so it can be read from
// several goroutines.
type Security struct {
	price          float64
	n              int
	c              float64
	settlementDate civil.Date
	prevCouponDate civil.Date
	nextCouponDate civil.Date
	accrual        float64
	y              float64
}

// NewSecurity validates t, computes the settlement date and solves the yield to
// maturity once.
func NewSecurity(t Terms, holidays HolidaySet, s Solver) (*Security, error) {
	price, err := ParseQuote(t.Quote)
	if err != nil {
		return nil, err
	}

	if t.Periods < 1 {
		return nil, fmt.Errorf("%w: %d periods", ErrInvalidSchedule, t.Periods)
	}

	if !t.PrevCouponDate.Before(t.NextCouponDate) {
		return nil, fmt.Errorf("%w: previous coupon %s is not before next coupon %s", ErrInvalidSchedule, t.PrevCouponDate, t.NextCouponDate)
	}

	settlementDate, err := NextBusinessDay(t.TradeDate, holidays)
	if err != nil {
		return nil, err
	}

	x := t.NextCouponDate.DaysSince(t.PrevCouponDate)
	z := t.NextCouponDate.DaysSince(settlementDate)
	if z < 0 || z > x {
		return nil, fmt.Errorf("%w: settlement %s outside coupon period %s to %s", ErrInvalidSchedule, settlementDate, t.PrevCouponDate, t.NextCouponDate)
	}

	sec := &Security{
		price:          price,
		n:              t.Periods,
		c:              t.AnnualCoupon / 2,
		settlementDate: settlementDate,
		prevCouponDate: t.PrevCouponDate,
		nextCouponDate: t.NextCouponDate,
		accrual:        float64(z) / float64(x),
	}

	target := price / 100
	y, err := s.Solve(func(y float64) (float64, float64) {
		return sec.dirtyPrice(y) - target, sec.dirtyPriceDerivative(y)
	}, 0)
	if err != nil {
		return nil, fmt.Errorf("yield to maturity for quote %q: %w", t.Quote, err)
	}

	sec.y = y

	return sec, nil
}

// dirtyPrice is the present value of the remaining cash flows as a fraction of
// par at annual yield y.
func (s *Security) dirtyPrice(y float64) float64 {
	r := y / 2

	if s.n == 1 {
		return (1 + s.c) / (1 + r*s.accrual)
	}

	p, _ := discountedCashFlows(s.n, r, s.c, s.accrual)
	return p
}

// dirtyPriceDerivative is dP/dy for the annual yield y.
func (s *Security) dirtyPriceDerivative(y float64) float64 {
	r := y / 2

	var dPdr float64
	if s.n == 1 {
		dPdr = -(1 + s.c) * s.accrual / math.Pow(1+r*s.accrual, 2)
	} else {
		_, dPdr = discountedCashFlows(s.n, r, s.c, s.accrual)
	}

	return dPdr / 2
}

// Periods is the number of remaining coupon payments.
func (s *Security) Periods() int { return s.n }

// Coupon is the semi-annual coupon as a decimal, e.g. 0.02 for a 4% bond.
func (s *Security) Coupon() float64 { return s.c }

func (s *Security) SettlementDate() civil.Date { return s.settlementDate }
func (s *Security) PrevCouponDate() civil.Date { return s.prevCouponDate }
func (s *Security) NextCouponDate() civil.Date { return s.nextCouponDate }

// AccrualFraction is the part of the current coupon period remaining after settlement.
func (s *Security) AccrualFraction() float64 { return s.accrual }

// YieldToMaturity is the annual yield as a decimal, solved at construction.
func (s *Security) YieldToMaturity() float64 { return s.y }

func (s *Security) ModifiedDuration() float64 {
	return -s.dirtyPriceDerivative(s.y) / (s.price / 100)
}

// PV01 is the change in dirty price, in percent of par, for a one basis point yield move.
func (s *Security) PV01() float64 {
	return s.DirtyPrice() * s.ModifiedDuration() * 0.0001
}

// AccruedInterest is the coupon earned since the previous coupon date, in percent of par.
func (s *Security) AccruedInterest() float64 {
	accrued := s.settlementDate.DaysSince(s.prevCouponDate)
	period := s.nextCouponDate.DaysSince(s.prevCouponDate)
	return s.c * 100 * float64(accrued) / float64(period)
}

func (s *Security) DirtyPrice() float64 {
	return s.CleanPrice() + s.AccruedInterest()
}

// CleanPrice is the quoted price.
func (s *Security) CleanPrice() float64 { return s.price }

// Invoice is the settlement amount for the given face value at the dirty price,
// rounded to the currency's minor unit.
func (s *Security) Invoice(face *money.Money) *money.Money {
	amount := math.Round(float64(face.Amount()) * s.DirtyPrice() / 100)
	return money.New(int64(amount), face.Currency().Code)
}
