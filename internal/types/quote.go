package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var thirtySecond = decimal.NewFromInt(32)

// ParseQuote converts a Treasury price quote into a percentage of par.
//
// Accepted formats:
//
//	99.375       plain decimal
//	100-24       handle and 32nds (100 + 24/32)
//	99-12+       each trailing "+" token adds the next power of two fraction:
//	             1/64, then 1/128, 1/256, ...
//
// Only the presence of a "+" separated token matters, not its content.
func ParseQuote(s string) (float64, error) {
	s = strings.TrimSpace(s)

	parts := strings.Split(s, "-")

	switch len(parts) {
	case 1:
		d, err := decimal.NewFromString(parts[0])
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidQuoteFormat, s, err)
		}
		return d.InexactFloat64(), nil
	case 2:
		// handled below
	default:
		return 0, fmt.Errorf("%w: %q has more than one '-'", ErrInvalidQuoteFormat, s)
	}

	handle, err := decimal.NewFromString(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: invalid handle: %v", ErrInvalidQuoteFormat, s, err)
	}

	pls := strings.Split(parts[1], "+") // "24++" -> ["24" "" ""]

	n, err := strconv.Atoi(pls[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: invalid 32nds: %v", ErrInvalidQuoteFormat, s, err)
	}

	price := handle.Add(decimal.NewFromInt(int64(n)).Div(thirtySecond))

	denom := decimal.NewFromInt(64)
	for range pls[1:] {
		price = price.Add(decimal.NewFromInt(1).Div(denom))
		denom = denom.Mul(decimal.NewFromInt(2))
	}

	return price.InexactFloat64(), nil
}
