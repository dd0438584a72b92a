package fx

import (
	"fmt"

	decimal_opt "github.com/tsiemens/fxreport/decimal_value"
)

// ProviderID names a rate provider. It is both the registry key and the
// report column title.
type ProviderID string

// CurrencyPair is a request for the rate from a source country/currency to
// a destination country/currency. All codes are upper case.
type CurrencyPair struct {
	SourceCountry  string
	SourceCurrency string
	DestCountry    string
	DestCurrency   string
}

func (p CurrencyPair) Fields() [4]string {
	return [4]string{p.SourceCountry, p.SourceCurrency, p.DestCountry, p.DestCurrency}
}

func (p CurrencyPair) String() string {
	return fmt.Sprintf("%s %s -> %s %s",
		p.SourceCountry, p.SourceCurrency, p.DestCountry, p.DestCurrency)
}

// Quote is the outcome of one provider fetch. A failed fetch has a Null rate
// and a non-nil Err.
type Quote struct {
	Provider ProviderID
	Rate     decimal_opt.DecimalOpt
	Err      error
}

func (q Quote) Failed() bool {
	return q.Rate.IsNull
}

func (q Quote) String() string {
	if q.Failed() {
		return fmt.Sprintf("%s: no rate (%v)", q.Provider, q.Err)
	}
	return fmt.Sprintf("%s: %s", q.Provider, q.Rate)
}
