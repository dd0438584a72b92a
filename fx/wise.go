package fx

import (
	"net/url"

	"github.com/shopspring/decimal"
)

const (
	Wise ProviderID = "wise"

	wiseSite    = "https://wise.com/"
	wiseBaseURL = "https://wise.com/rates/history"
)

// wiseRatePoint is one entry of the hourly rate history.
type wiseRatePoint struct {
	Source string     `json:"source"`
	Target string     `json:"target"`
	Value  flexNumber `json:"value"`
	Time   int64      `json:"time"`
}

// NewWiseProvider quotes the latest point of Wise's one day rate history.
// Country codes are not used.
func NewWiseProvider(opts ProviderOptions) RateProvider {
	p := newHTTPProvider(Wise, wiseSite, wiseBaseURL, opts)
	p.requestURL = func(base string, pair CurrencyPair) string {
		q := url.Values{}
		q.Set("source", pair.SourceCurrency)
		q.Set("target", pair.DestCurrency)
		q.Set("length", "1")
		q.Set("unit", "day")
		q.Set("resolution", "hourly")
		return base + "?" + q.Encode()
	}
	p.parseRate = func(body []byte) (decimal.Decimal, error) {
		var points []wiseRatePoint
		if err := decodeJSON(body, &points); err != nil {
			return decimal.Zero, err
		}
		if len(points) == 0 {
			return decimal.Zero, missing("[-1].value")
		}
		return points[len(points)-1].Value.rate("[-1].value")
	}
	return p
}
