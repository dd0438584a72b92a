package fx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	decimal_opt "github.com/tsiemens/fxreport/decimal_value"
)

type fixedProvider struct {
	id ProviderID
}

func (p fixedProvider) ID() ProviderID  { return p.id }
func (p fixedProvider) SiteURL() string { return "https://" + string(p.id) + ".example/" }
func (p fixedProvider) Quote(ctx context.Context, pair CurrencyPair) Quote {
	return Quote{Provider: p.id, Rate: decimal_opt.NewFromFloat(1)}
}

func TestDefaultRegistry(t *testing.T) {
	rq := require.New(t)

	r := DefaultRegistry(ProviderOptions{})
	rq.Equal([]ProviderID{CurrencyFair, Instarem, TransferGo, Wise, Xendpay}, r.IDs())

	for _, id := range r.IDs() {
		p, ok := r.Get(id)
		rq.True(ok)
		rq.Equal(id, p.ID())
		rq.NotEmpty(p.SiteURL())
	}
	_, ok := r.Get("xoom")
	rq.False(ok)
	rq.Equal("https://wise.com/", r.Site(Wise))
	rq.Equal("", r.Site("xoom"))
}

func TestRegistrySelectKeepsOrder(t *testing.T) {
	rq := require.New(t)

	r := NewRegistry(fixedProvider{"wise"}, fixedProvider{"xendpay"}, fixedProvider{"instarem"})
	selected, err := r.Select([]string{"xendpay", " WISE ", "xendpay", ""})
	rq.Nil(err)
	rq.Len(selected, 2)
	rq.Equal(ProviderID("xendpay"), selected[0].ID())
	rq.Equal(ProviderID("wise"), selected[1].ID())
}

func TestRegistrySelectErrors(t *testing.T) {
	rq := require.New(t)

	r := NewRegistry(fixedProvider{"wise"})

	_, err := r.Select([]string{"wise", "xoom"})
	rq.ErrorIs(err, ErrUnknownProvider)
	rq.Contains(err.Error(), `"xoom"`)
	rq.Contains(err.Error(), "known: wise")

	_, err = r.Select(nil)
	rq.ErrorIs(err, ErrNoProviders)

	_, err = r.Select([]string{" ", ""})
	rq.ErrorIs(err, ErrNoProviders)
}

func TestCurrencyPairFields(t *testing.T) {
	p := CurrencyPair{SourceCountry: "CA", SourceCurrency: "CAD", DestCountry: "FR", DestCurrency: "EUR"}
	require.Equal(t, [4]string{"CA", "CAD", "FR", "EUR"}, p.Fields())
	require.Equal(t, "CA CAD -> FR EUR", p.String())
}
