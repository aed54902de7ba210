package collect

import (
	"benritz/ustreasury/internal/types"
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"
)

var (
	ErrInvalidRow = fmt.Errorf("invalid row")
	ErrNoRows     = fmt.Errorf("no securities found")
)

// CollectedSecurity is one input row and, once evaluated, its analytics.
type CollectedSecurity struct {
	Name     string
	Terms    types.Terms
	Security *types.Security
	Err      error
}

// SetError keeps the first error recorded for the row.
func (c *CollectedSecurity) SetError(err error) {
	if c.Err == nil {
		c.Err = err
	}
}

type CollectedSecurities struct {
	Securities []*CollectedSecurity
	Source     string
	AsOf       civil.Date
}

func NewCollectedSecurities(source string, asOf civil.Date) *CollectedSecurities {
	return &CollectedSecurities{
		Source:     source,
		AsOf:       asOf,
		Securities: []*CollectedSecurity{},
	}
}

func (c *CollectedSecurities) Add(cs *CollectedSecurity) {
	c.Securities = append(c.Securities, cs)
}

// Evaluate builds a Security for every row that parsed cleanly. Rows that fail
// keep their error and are reported by Failures.
func (c *CollectedSecurities) Evaluate(holidays types.HolidaySet, solver types.Solver, logger *zap.Logger) {
	for _, cs := range c.Securities {
		if cs.Err != nil {
			continue
		}

		sec, err := types.NewSecurity(cs.Terms, holidays, solver)
		if err != nil {
			cs.SetError(err)
			logger.Warn("failed to evaluate security", zap.String("name", cs.Name), zap.Error(err))
			continue
		}

		cs.Security = sec
	}
}

// Succeeded returns the rows with analytics.
func (c *CollectedSecurities) Succeeded() []*CollectedSecurity {
	out := make([]*CollectedSecurity, 0, len(c.Securities))
	for _, cs := range c.Securities {
		if cs.Err == nil && cs.Security != nil {
			out = append(out, cs)
		}
	}
	return out
}

func (c *CollectedSecurities) Failures() []*CollectedSecurity {
	out := []*CollectedSecurity{}
	for _, cs := range c.Securities {
		if cs.Err != nil {
			out = append(out, cs)
		}
	}
	return out
}

type Collector interface {
	Collect(ctx context.Context, asOf civil.Date) (*CollectedSecurities, error)
	Source() string
}

// Result is the stored form of an evaluated security.
type Result struct {
	Name             string    `parquet:"name" json:"name"`
	Quote            string    `parquet:"quote" json:"quote"`
	Periods          int32     `parquet:"periods" json:"periods"`
	Coupon           float64   `parquet:"coupon" json:"coupon"`
	TradeDate        time.Time `parquet:"trade_date" json:"tradeDate"`
	SettlementDate   time.Time `parquet:"settlement_date" json:"settlementDate"`
	PrevCouponDate   time.Time `parquet:"prev_coupon_date" json:"prevCouponDate"`
	NextCouponDate   time.Time `parquet:"next_coupon_date" json:"nextCouponDate"`
	AccrualFraction  float64   `parquet:"accrual_fraction" json:"accrualFraction"`
	CleanPrice       float64   `parquet:"clean_price" json:"cleanPrice"`
	DirtyPrice       float64   `parquet:"dirty_price" json:"dirtyPrice"`
	AccruedInterest  float64   `parquet:"accrued_interest" json:"accruedInterest"`
	YieldToMaturity  float64   `parquet:"yield_to_maturity" json:"yieldToMaturity"`
	ModifiedDuration float64   `parquet:"modified_duration" json:"modifiedDuration"`
	PV01             float64   `parquet:"pv01" json:"pv01"`
}

func NewResult(cs *CollectedSecurity) *Result {
	s := cs.Security
	return &Result{
		Name:             cs.Name,
		Quote:            cs.Terms.Quote,
		Periods:          int32(s.Periods()),
		Coupon:           cs.Terms.AnnualCoupon,
		TradeDate:        cs.Terms.TradeDate.In(time.UTC),
		SettlementDate:   s.SettlementDate().In(time.UTC),
		PrevCouponDate:   s.PrevCouponDate().In(time.UTC),
		NextCouponDate:   s.NextCouponDate().In(time.UTC),
		AccrualFraction:  s.AccrualFraction(),
		CleanPrice:       s.CleanPrice(),
		DirtyPrice:       s.DirtyPrice(),
		AccruedInterest:  s.AccruedInterest(),
		YieldToMaturity:  s.YieldToMaturity(),
		ModifiedDuration: s.ModifiedDuration(),
		PV01:             s.PV01(),
	}
}

func (c *CollectedSecurities) Results() []*Result {
	ok := c.Succeeded()
	out := make([]*Result, 0, len(ok))
	for _, cs := range ok {
		out = append(out, NewResult(cs))
	}
	return out
}
