package collect

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const quotesPage = `<html><body>
<table class="securities">
<thead><tr><th>Name</th><th>Quote</th><th>Periods</th><th>Coupon</th><th>Trade</th><th>Prev</th><th>Next</th></tr></thead>
<tbody>
<tr><td>T 4 02/29/08</td><td>99-23</td><td>4</td><td>4%</td><td>2007-08-30</td><td>2007-08-31</td><td>2008-02-29</td></tr>
<tr><td>T 4 1/8 08/31/12</td><td> 99-12 </td><td>10</td><td>4.125%</td><td>2007-08-30</td><td>2007-08-31</td><td>2008-02-29</td></tr>
<tr><td colspan="7">Prices as of close</td></tr>
</tbody>
</table>
</body></html>`

func TestWebCollector_Collect(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, quotesPage)
	}))
	defer srv.Close()

	c := NewWebCollector(srv.URL+"/quotes", "", "", zaptest.NewLogger(t))
	assert.Equal(t, "127.0.0.1", c.Source())

	collected, err := c.Collect(context.Background(), asOf)
	require.NoError(t, err)
	require.Len(t, collected.Securities, 2)

	second := collected.Securities[1]
	assert.Equal(t, "T 4 1/8 08/31/12", second.Name)
	assert.Equal(t, "99-12", second.Terms.Quote)
	assert.Equal(t, 10, second.Terms.Periods)
	assert.InDelta(t, 0.04125, second.Terms.AnnualCoupon, 1e-15)
	assert.Equal(t, d(2008, 2, 29), second.Terms.NextCouponDate)
}

func TestWebCollector_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewWebCollector(srv.URL, "", "", zaptest.NewLogger(t)).Collect(context.Background(), asOf)
	assert.Error(t, err)
}

func TestWebCollector_NoRows(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><p>closed</p></body></html>")
	}))
	defer srv.Close()

	_, err := NewWebCollector(srv.URL, "", "", zaptest.NewLogger(t)).Collect(context.Background(), asOf)
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestWebCollector_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewWebCollector("http://127.0.0.1:1", "", "", zaptest.NewLogger(t)).Collect(ctx, asOf)
	assert.ErrorIs(t, err, context.Canceled)
}
