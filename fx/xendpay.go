package fx

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	Xendpay ProviderID = "xendpay"

	xendpaySite    = "https://secure.xendpay.com/"
	xendpayBaseURL = "https://secure.xendpay.com/rate/XP"
)

// NewXendpayProvider quotes Xendpay's rate endpoint, which answers with a
// bare decimal in a text body. Country codes are not used.
func NewXendpayProvider(opts ProviderOptions) RateProvider {
	p := newHTTPProvider(Xendpay, xendpaySite, xendpayBaseURL, opts)
	p.requestURL = func(base string, pair CurrencyPair) string {
		return fmt.Sprintf("%s/%s/%s?cdc=true", base,
			url.PathEscape(pair.SourceCurrency), url.PathEscape(pair.DestCurrency))
	}
	p.parseRate = func(body []byte) (decimal.Decimal, error) {
		text := strings.TrimSpace(string(body))
		if text == "" {
			return decimal.Zero, missing("body")
		}
		rate, err := decimal.NewFromString(text)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrNotNumeric, text)
		}
		return rate, nil
	}
	return p
}
