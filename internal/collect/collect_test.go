package collect

import (
	"benritz/ustreasury/internal/types"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var asOf = civil.Date{Year: 2007, Month: 8, Day: 30}

func d(y, m, day int) civil.Date {
	return civil.Date{Year: y, Month: time.Month(m), Day: day}
}

func testHolidays(t *testing.T) types.HolidaySet {
	t.Helper()

	h, err := types.ParseHolidays([]string{"03-09-2007", "08-10-2007", "12-11-2007", "22-11-2007", "25-12-2007"}, types.HolidayLayoutDMY)
	require.NoError(t, err)

	return h
}

func sampleCollected() *CollectedSecurities {
	c := NewCollectedSecurities("sample", asOf)
	c.Add(&CollectedSecurity{
		Name:  "T 4 02/29/08",
		Terms: types.Terms{Quote: "99.714939353374", Periods: 4, AnnualCoupon: 0.04, TradeDate: asOf, PrevCouponDate: d(2007, 8, 31), NextCouponDate: d(2008, 2, 29)},
	})
	c.Add(&CollectedSecurity{
		Name:  "T 4 1/2 05/15/10",
		Terms: types.Terms{Quote: "100.83075469629", Periods: 6, AnnualCoupon: 0.045, TradeDate: asOf, PrevCouponDate: d(2007, 5, 15), NextCouponDate: d(2007, 11, 15)},
	})
	c.Add(&CollectedSecurity{
		Name:  "bad quote",
		Terms: types.Terms{Quote: "1-2-3", Periods: 6, AnnualCoupon: 0.045, TradeDate: asOf, PrevCouponDate: d(2007, 5, 15), NextCouponDate: d(2007, 11, 15)},
	})
	c.Add(&CollectedSecurity{Name: "parse failure", Err: ErrInvalidRow})
	return c
}

func TestCollectedSecurity_SetError(t *testing.T) {
	t.Parallel()

	first := errors.New("first")
	cs := &CollectedSecurity{}
	cs.SetError(first)
	cs.SetError(errors.New("second"))

	assert.Equal(t, first, cs.Err)
}

func TestCollectedSecurities_Evaluate(t *testing.T) {
	t.Parallel()

	c := sampleCollected()
	c.Evaluate(testHolidays(t), types.DefaultSolver, zaptest.NewLogger(t))

	ok := c.Succeeded()
	require.Len(t, ok, 2)
	assert.Equal(t, "T 4 02/29/08", ok[0].Name)
	assert.InDelta(t, 0.0415, ok[0].Security.YieldToMaturity(), 1e-6)

	failed := c.Failures()
	require.Len(t, failed, 2)
	assert.ErrorIs(t, failed[0].Err, types.ErrInvalidQuoteFormat)
	assert.Nil(t, failed[0].Security)
	assert.ErrorIs(t, failed[1].Err, ErrInvalidRow)
}

func TestCollectedSecurities_Results(t *testing.T) {
	t.Parallel()

	c := sampleCollected()
	c.Evaluate(testHolidays(t), types.DefaultSolver, zaptest.NewLogger(t))

	results := c.Results()
	require.Len(t, results, 2)

	r := results[1]
	assert.Equal(t, "T 4 1/2 05/15/10", r.Name)
	assert.Equal(t, int32(6), r.Periods)
	assert.Equal(t, 0.045, r.Coupon)
	assert.Equal(t, d(2007, 8, 31), civil.DateOf(r.SettlementDate))
	assert.InDelta(t, 76.0/184.0, r.AccrualFraction, 1e-12)
	assert.InDelta(t, 102.15140687020305, r.DirtyPrice, 1e-9)
	assert.InDelta(t, r.DirtyPrice-r.CleanPrice, r.AccruedInterest, 1e-12)
	assert.InDelta(t, 0.046923381766433105, r.YieldToMaturity, 1e-6)
	assert.InDelta(t, 2.487379695117112, r.ModifiedDuration, 1e-6)
	assert.InDelta(t, 0.025408933527658974, r.PV01, 1e-7)
}
