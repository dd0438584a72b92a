package fx

import (
	"net/url"

	"github.com/shopspring/decimal"
)

const (
	TransferGo ProviderID = "transfergo"

	transferGoSite    = "https://my.transfergo.com/"
	transferGoBaseURL = "https://my.transfergo.com/api/transfers/quote"

	transferGoAmount = "300.00"
)

type transferGoResponse struct {
	DeliveryOptions *struct {
		Standard *struct {
			PaymentOptions *struct {
				Bank *struct {
					Quote *struct {
						Rate flexNumber `json:"rate"`
					} `json:"quote"`
				} `json:"bank"`
			} `json:"paymentOptions"`
		} `json:"standard"`
	} `json:"deliveryOptions"`
}

func (r transferGoResponse) rate() (decimal.Decimal, error) {
	const field = "deliveryOptions.standard.paymentOptions.bank.quote.rate"
	d := r.DeliveryOptions
	if d == nil || d.Standard == nil || d.Standard.PaymentOptions == nil ||
		d.Standard.PaymentOptions.Bank == nil || d.Standard.PaymentOptions.Bank.Quote == nil {
		return decimal.Zero, missing(field)
	}
	return d.Standard.PaymentOptions.Bank.Quote.Rate.rate(field)
}

// NewTransferGoProvider quotes TransferGo's standard bank delivery rate for
// a 300.00 send amount. It is the only provider using both country codes.
func NewTransferGoProvider(opts ProviderOptions) RateProvider {
	p := newHTTPProvider(TransferGo, transferGoSite, transferGoBaseURL, opts)
	p.requestURL = func(base string, pair CurrencyPair) string {
		q := url.Values{}
		q.Set("fromCountryCode", pair.SourceCountry)
		q.Set("toCountryCode", pair.DestCountry)
		q.Set("fromCurrencyCode", pair.SourceCurrency)
		q.Set("toCurrencyCode", pair.DestCurrency)
		q.Set("calculationBase", "sendAmount")
		q.Set("amount", transferGoAmount)
		return base + "?" + q.Encode()
	}
	p.parseRate = func(body []byte) (decimal.Decimal, error) {
		var resp transferGoResponse
		if err := decodeJSON(body, &resp); err != nil {
			return decimal.Zero, err
		}
		return resp.rate()
	}
	return p
}
