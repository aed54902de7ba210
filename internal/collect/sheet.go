package collect

import (
	"benritz/ustreasury/internal/types"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/pbnjay/grate"
	"go.uber.org/zap"
)

const (
	COL_NAME = iota
	COL_QUOTE
	COL_PERIODS
	COL_COUPON
	COL_TRADE_DATE
	COL_PREV_COUPON_DATE
	COL_NEXT_COUPON_DATE
	numColumns
)

// SheetCollector reads securities from a spreadsheet or CSV file with the
// columns: name, quote, periods, annual coupon, trade date, previous coupon
// date, next coupon date. Files ending in .csv are read as comma separated
// text; xls and xlsx need github.com/pbnjay/grate/xls and
// github.com/pbnjay/grate/xlsx to be imported.
type SheetCollector struct {
	path       string
	dateLayout string
	logger     *zap.Logger
}

var _ Collector = &SheetCollector{}

func NewSheetCollector(path, dateLayout string, logger *zap.Logger) *SheetCollector {
	if dateLayout == "" {
		dateLayout = types.DateLayoutISO
	}
	return &SheetCollector{path: path, dateLayout: dateLayout, logger: logger}
}

func (c *SheetCollector) Source() string {
	base := filepath.Base(c.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (c *SheetCollector) Collect(ctx context.Context, asOf civil.Date) (*CollectedSecurities, error) {
	collected := NewCollectedSecurities(c.Source(), asOf)

	err := eachRow(ctx, c.path, func(sheet string, row []string) {
		cs, err := parseRow(row, c.dateLayout)
		if err != nil {
			c.logger.Debug("skipping row", zap.String("sheet", sheet), zap.Error(err))
			return
		}
		collected.Add(cs)
	})
	if err != nil {
		return nil, err
	}

	if len(collected.Securities) == 0 {
		return nil, ErrNoRows
	}

	c.logger.Info("collected securities", zap.String("path", c.path), zap.Int("rows", len(collected.Securities)))

	return collected, nil
}

// eachRow calls fn with every row of every sheet in path.
func eachRow(ctx context.Context, path string, fn func(sheet string, row []string)) error {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return eachCSVRow(ctx, path, fn)
	}

	wb, err := grate.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer wb.Close()

	sheets, err := wb.List()
	if err != nil {
		return err
	}

	for _, sheetName := range sheets {
		if err := ctx.Err(); err != nil {
			return err
		}

		sheet, err := wb.Get(sheetName)
		if err != nil {
			return err
		}

		for sheet.Next() {
			fn(sheetName, sheet.Strings())
		}

		if err := sheet.Err(); err != nil {
			return fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
		}
	}

	return nil
}

// eachCSVRow reads a csv file as a single sheet named after the file. Rows may
// have differing numbers of fields.
func eachCSVRow(ctx context.Context, path string, fn func(sheet string, row []string)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	sheetName := filepath.Base(path)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		fn(sheetName, row)
	}
}

// parseRow returns ErrInvalidRow for rows that are not securities (headers,
// blank or short rows). Bad cells in a security row are recorded on the row.
func parseRow(row []string, dateLayout string) (*CollectedSecurity, error) {
	if len(row) < numColumns {
		return nil, ErrInvalidRow
	}

	cells := make([]string, len(row))
	for i := range row {
		cells[i] = strings.TrimSpace(row[i])
	}
	row = cells

	if row[COL_NAME] == "" || row[COL_QUOTE] == "" || strings.EqualFold(row[COL_QUOTE], "quote") {
		return nil, ErrInvalidRow
	}

	cs := &CollectedSecurity{
		Name:  row[COL_NAME],
		Terms: types.Terms{Quote: row[COL_QUOTE]},
	}

	if n, err := strconv.Atoi(row[COL_PERIODS]); err == nil {
		cs.Terms.Periods = n
	} else {
		cs.SetError(fmt.Errorf("%w: periods %q", types.ErrInvalidSchedule, row[COL_PERIODS]))
	}

	if coupon, err := parseCoupon(row[COL_COUPON]); err == nil {
		cs.Terms.AnnualCoupon = coupon
	} else {
		cs.SetError(err)
	}

	dates := []struct {
		col int
		dst *civil.Date
	}{
		{COL_TRADE_DATE, &cs.Terms.TradeDate},
		{COL_PREV_COUPON_DATE, &cs.Terms.PrevCouponDate},
		{COL_NEXT_COUPON_DATE, &cs.Terms.NextCouponDate},
	}
	for _, d := range dates {
		if v, err := types.ParseDate(row[d.col], dateLayout); err == nil {
			*d.dst = v
		} else {
			cs.SetError(fmt.Errorf("%w: date %q", types.ErrInvalidSchedule, row[d.col]))
		}
	}

	return cs, nil
}

// parseCoupon reads an annual coupon either as a decimal (0.045) or as a
// percentage with a % suffix (4.5%).
func parseCoupon(s string) (float64, error) {
	pct := strings.HasSuffix(s, "%")

	v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "%")), 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: coupon %q", types.ErrInvalidSchedule, s)
	}

	if pct {
		v /= 100
	}

	return v, nil
}

// LoadHolidays reads holiday dates from the first column of every sheet in
// path. A first row that is not a date is treated as a header.
func LoadHolidays(path, layout string) (types.HolidaySet, error) {
	if layout == "" {
		layout = types.HolidayLayoutDMY
	}

	var dates []string
	started := map[string]bool{}

	err := eachRow(context.Background(), path, func(sheet string, row []string) {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			return
		}

		if !started[sheet] {
			started[sheet] = true
			if _, err := types.ParseDate(row[0], layout); err != nil {
				return
			}
		}

		dates = append(dates, row[0])
	})
	if err != nil {
		return types.HolidaySet{}, fmt.Errorf("failed to load holidays: %w", err)
	}

	return types.ParseHolidays(dates, layout)
}
