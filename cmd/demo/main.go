package main

import (
	"benritz/ustreasury/internal/types"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// 2007 US settlement holidays, day-month-year.
var holidays2007 = []string{
	"01-01-2007", "15-01-2007", "19-02-2007", "28-05-2007", "04-07-2007",
	"03-09-2007", "08-10-2007", "12-11-2007", "22-11-2007", "25-12-2007",
}

func date(y, m, d int) civil.Date {
	return civil.Date{Year: y, Month: time.Month(m), Day: d}
}

func main() {
	holidays, err := types.ParseHolidays(holidays2007, types.HolidayLayoutDMY)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	trade := date(2007, 8, 30)

	samples := []struct {
		name  string
		terms types.Terms
	}{
		{"4% Treasury Note 2008", types.Terms{Quote: "99.714939353374", Periods: 4, AnnualCoupon: 0.04, TradeDate: trade, PrevCouponDate: date(2007, 8, 31), NextCouponDate: date(2008, 2, 29)}},
		{"4 1/2% Treasury Note 2010", types.Terms{Quote: "100.83075469629", Periods: 6, AnnualCoupon: 0.045, TradeDate: trade, PrevCouponDate: date(2007, 5, 15), NextCouponDate: date(2007, 11, 15)}},
		// 99-12.25 in 32nds
		{"4 1/8% Treasury Note 2012", types.Terms{Quote: "99.3828125", Periods: 10, AnnualCoupon: 0.04125, TradeDate: trade, PrevCouponDate: date(2007, 8, 31), NextCouponDate: date(2008, 2, 29)}},
		{"4 3/4% Treasury Note 2017", types.Terms{Quote: "101-19+", Periods: 20, AnnualCoupon: 0.0475, TradeDate: trade, PrevCouponDate: date(2007, 8, 15), NextCouponDate: date(2008, 2, 15)}},
		{"5% Treasury Bond 2037", types.Terms{Quote: "102.50001753443", Periods: 60, AnnualCoupon: 0.05, TradeDate: trade, PrevCouponDate: date(2007, 5, 15), NextCouponDate: date(2007, 11, 15)}},
	}

	for _, s := range samples {
		fmt.Println(s.name)

		sec, err := types.NewSecurity(s.terms, holidays, types.DefaultSolver)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			fmt.Println()
			continue
		}

		fmt.Printf("Settlement Date: %s\n", sec.SettlementDate())
		fmt.Printf("YTM: %.8f\n", sec.YieldToMaturity())
		fmt.Printf("PV01: %.8f\n", sec.PV01())
		fmt.Printf("Modified Duration: %.8f\n", sec.ModifiedDuration())
		fmt.Printf("Dirty Price: %.8f\n", sec.DirtyPrice())
		fmt.Printf("Clean Price: %.8f\n", sec.CleanPrice())
		fmt.Println()
	}
}
