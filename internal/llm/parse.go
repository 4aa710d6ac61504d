package llm

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// ParseQuoteData strictly parses raw model output against the quote schema.
// It either returns a schema-valid QuoteData or an error describing why the
// output was rejected; no partial data is salvaged from a failed parse. The
// caller owns the decision to convert a failure into the fallback record.
func ParseQuoteData(raw []byte) (QuoteData, error) {
	if err := ValidateJSONAgainstSchema(BuildQuoteJSONSchema(), raw); err != nil {
		return QuoteData{}, fmt.Errorf("quote schema validation: %w", err)
	}
	var out QuoteData
	if err := json.Unmarshal(raw, &out); err != nil {
		return QuoteData{}, fmt.Errorf("unmarshal quote data: %w", err)
	}
	if out.Items == nil {
		out.Items = []QuoteItem{}
	}
	return out, nil
}

// PostValidate cleans a parsed QuoteData in place of model artifacts:
//   - quote_date that fails to parse as YYYY-MM-DD is replaced with today's
//     date (best-available-date policy, distinct from the extraction fallback);
//   - quantity and unit_price take their absolute values (sign artifacts);
//   - unit_of_measure defaults to "EA", otherwise upper-cased and trimmed.
func PostValidate(q QuoteData, now time.Time) QuoteData {
	if q.QuoteDate != nil {
		if _, err := time.Parse("2006-01-02", *q.QuoteDate); err != nil {
			today := now.Format("2006-01-02")
			q.QuoteDate = &today
		}
	}
	for i := range q.Items {
		it := &q.Items[i]
		if it.Quantity != nil {
			v := math.Abs(*it.Quantity)
			it.Quantity = &v
		}
		if it.UnitPrice != nil {
			v := math.Abs(*it.UnitPrice)
			it.UnitPrice = &v
		}
		uom := strings.ToUpper(strings.TrimSpace(it.UnitOfMeasure))
		if uom == "" {
			uom = "EA"
		}
		it.UnitOfMeasure = uom
	}
	return q
}
