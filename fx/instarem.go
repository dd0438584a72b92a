package fx

import (
	"net/url"

	"github.com/shopspring/decimal"
)

const (
	Instarem ProviderID = "instarem"

	instaremSite    = "https://www.instarem.com/"
	instaremBaseURL = "https://www.instarem.com/api/v1/public/transaction/computed-value"

	instaremSendAmount = "1000"
)

type instaremResponse struct {
	Data *struct {
		FxRate flexNumber `json:"fx_rate"`
	} `json:"data"`
}

// NewInstaremProvider quotes the rate Instarem computes for a 1000 unit
// transfer. Only the source country is sent.
func NewInstaremProvider(opts ProviderOptions) RateProvider {
	p := newHTTPProvider(Instarem, instaremSite, instaremBaseURL, opts)
	p.requestURL = func(base string, pair CurrencyPair) string {
		q := url.Values{}
		q.Set("source_currency", pair.SourceCurrency)
		q.Set("destination_currency", pair.DestCurrency)
		q.Set("country_code", pair.SourceCountry)
		q.Set("source_amount", instaremSendAmount)
		return base + "?" + q.Encode()
	}
	p.parseRate = func(body []byte) (decimal.Decimal, error) {
		var resp instaremResponse
		if err := decodeJSON(body, &resp); err != nil {
			return decimal.Zero, err
		}
		if resp.Data == nil {
			return decimal.Zero, missing("data")
		}
		return resp.Data.FxRate.rate("data.fx_rate")
	}
	return p
}
