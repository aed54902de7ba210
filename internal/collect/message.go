package collect

import (
	"benritz/ustreasury/internal/types"
	"encoding/json"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
)

const SourceMessage = "message"

type NamedTerms struct {
	Name string `json:"name"`
	types.Terms
}

// Message is a JSON batch of securities, e.g.
//
//	{"source": "desk", "asOf": "2007-08-30", "securities": [
//	  {"name": "T 4 02/29/08", "quote": "99-23", "periods": 4, "annualCoupon": 0.04,
//	   "tradeDate": "2007-08-30", "prevCouponDate": "2007-08-31", "nextCouponDate": "2008-02-29"}]}
type Message struct {
	Source     string       `json:"source"`
	AsOf       civil.Date   `json:"asOf"`
	Securities []NamedTerms `json:"securities"`
}

// DecodeMessage reads a JSON batch. asOf is used when the message has no date.
func DecodeMessage(body string, asOf civil.Date) (*CollectedSecurities, error) {
	var m Message

	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}

	if len(m.Securities) == 0 {
		return nil, ErrNoRows
	}

	if m.Source == "" {
		m.Source = SourceMessage
	}
	if m.AsOf.IsZero() {
		m.AsOf = asOf
	}

	collected := NewCollectedSecurities(m.Source, m.AsOf)
	for i, nt := range m.Securities {
		cs := &CollectedSecurity{Name: nt.Name, Terms: nt.Terms}
		if cs.Name == "" {
			cs.Name = fmt.Sprintf("%s-%d", m.Source, i+1)
		}
		collected.Add(cs)
	}

	return collected, nil
}
