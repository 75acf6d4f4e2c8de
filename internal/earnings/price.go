package earnings

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Price is an appointment price as received over the wire. It accepts JSON
// numbers, numeric strings, null, or anything else; unusable values count as zero.
type Price struct {
	raw   json.RawMessage
	value decimal.Decimal
	valid bool
}

func PriceOf(d decimal.Decimal) Price {
	return Price{value: d, valid: true}
}

func PriceFromFloat(f float64) Price {
	return PriceOf(decimal.NewFromFloat(f))
}

// RawPrice keeps an arbitrary JSON value as the price.
func RawPrice(raw string) Price {
	var p Price
	_ = p.UnmarshalJSON([]byte(raw))
	return p
}

// Value returns the numeric price, or zero when it is missing or malformed.
func (p Price) Value() decimal.Decimal {
	if !p.valid {
		return decimal.Zero
	}
	return p.value
}

func (p Price) Valid() bool { return p.valid }

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*p = Price{raw: append(json.RawMessage(nil), data...)}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	text := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		text = strings.TrimSpace(s)
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return nil
	}
	p.value = d
	p.valid = true
	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	if len(p.raw) > 0 {
		return p.raw, nil
	}
	if !p.valid {
		return []byte("null"), nil
	}
	return []byte(p.value.String()), nil
}
