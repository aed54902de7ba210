package collect

import (
	"benritz/ustreasury/internal/types"
	"context"
	"fmt"
	"net/url"

	"cloud.google.com/go/civil"
	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

const DefaultTableSelector = "table.securities tbody tr"

// WebCollector scrapes securities from an HTML table whose cells follow the
// same column order as SheetCollector.
type WebCollector struct {
	url        string
	selector   string
	dateLayout string
	logger     *zap.Logger
}

var _ Collector = &WebCollector{}

func NewWebCollector(pageURL, selector, dateLayout string, logger *zap.Logger) *WebCollector {
	if selector == "" {
		selector = DefaultTableSelector
	}
	if dateLayout == "" {
		dateLayout = types.DateLayoutISO
	}
	return &WebCollector{url: pageURL, selector: selector, dateLayout: dateLayout, logger: logger}
}

func (c *WebCollector) Source() string {
	if u, err := url.Parse(c.url); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	return "web"
}

func (c *WebCollector) Collect(ctx context.Context, asOf civil.Date) (*CollectedSecurities, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	x := colly.NewCollector()

	collected := NewCollectedSecurities(c.Source(), asOf)

	x.OnHTML(c.selector, func(e *colly.HTMLElement) {
		row := e.ChildTexts("td")
		cs, err := parseRow(row, c.dateLayout)
		if err != nil {
			return
		}
		collected.Add(cs)
	})

	var visitErr error
	x.OnError(func(r *colly.Response, err error) {
		visitErr = fmt.Errorf("failed to get %s: http %d: %w", r.Request.URL, r.StatusCode, err)
	})

	c.logger.Info("fetching", zap.String("url", c.url))

	if err := x.Visit(c.url); err != nil && visitErr == nil {
		visitErr = err
	}

	if visitErr != nil {
		return nil, visitErr
	}

	if len(collected.Securities) == 0 {
		return nil, ErrNoRows
	}

	return collected, nil
}
