package fx

import (
	"net/url"

	"github.com/shopspring/decimal"
)

const (
	CurrencyFair ProviderID = "currencyfair"

	currencyFairSite    = "https://app.currencyfair.com/"
	currencyFairBaseURL = "https://app.currencyfair.com/calculator/quicktrade-quote"

	currencyFairAmount = "40000"
	currencyFairMode   = "SELL"
)

type currencyFairResponse struct {
	Quote *struct {
		Estimate *struct {
			Rate flexNumber `json:"rate"`
		} `json:"estimate"`
	} `json:"quote"`
}

// NewCurrencyFairProvider quotes CurrencyFair's quick trade estimate for
// selling 40000 units. Country codes are not used.
func NewCurrencyFairProvider(opts ProviderOptions) RateProvider {
	p := newHTTPProvider(CurrencyFair, currencyFairSite, currencyFairBaseURL, opts)
	p.requestURL = func(base string, pair CurrencyPair) string {
		q := url.Values{}
		q.Set("depositCurrency", pair.SourceCurrency)
		q.Set("beneficiaryCurrency", pair.DestCurrency)
		q.Set("amount", currencyFairAmount)
		q.Set("mode", currencyFairMode)
		return base + "?" + q.Encode()
	}
	p.parseRate = func(body []byte) (decimal.Decimal, error) {
		var resp currencyFairResponse
		if err := decodeJSON(body, &resp); err != nil {
			return decimal.Zero, err
		}
		if resp.Quote == nil || resp.Quote.Estimate == nil {
			return decimal.Zero, missing("quote.estimate")
		}
		return resp.Quote.Estimate.Rate.rate("quote.estimate.rate")
	}
	return p
}
