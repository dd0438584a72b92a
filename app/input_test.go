package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsiemens/fxreport/fx"
	"github.com/tsiemens/fxreport/util"
)

func TestValidateInputAccepts(t *testing.T) {
	rq := require.New(t)

	for _, text := range []string{
		"US USD GB GBP",
		"US USD GB GBP\n",
		"US USD GB GBP\nCA CAD FR EUR",
		"us usd gb gbp\r\nca\tcad  fr eur  \r\n",
		"US USD GB GBP\n\n   \nCA CAD FR EUR\n\n",
		"\nUS USD GB GBP",
		"U_S 840 G_B 826",
	} {
		rq.Nil(ValidateInput(text), "input %q", text)
	}
}

func TestValidateInputRejects(t *testing.T) {
	rq := require.New(t)

	for _, text := range []string{
		"",
		"   \n\t\n",
		"bad input",
		"US USD GB GBP EXTRA",
		"US USD GB GBP\nCA CAD FR",
		" US USD GB GBP",
		"US-X USD GB GBP",
		"US USD GB GBP;",
	} {
		rq.ErrorIs(ValidateInput(text), ErrInputSyntax, "input %q", text)
	}

	err := ValidateInput("US USD GB GBP\nCA CAD FR")
	rq.ErrorContains(err, "line 2")
}

func TestParseInput(t *testing.T) {
	rq := require.New(t)

	text := "us usd gb gbp\n\nCa Cad  fr\tEUR \r\n"
	rq.Nil(ValidateInput(text))
	rq.Equal([]fx.CurrencyPair{
		{SourceCountry: "US", SourceCurrency: "USD", DestCountry: "GB", DestCurrency: "GBP"},
		{SourceCountry: "CA", SourceCurrency: "CAD", DestCountry: "FR", DestCurrency: "EUR"},
	}, ParseInput(text))
}

func TestInputUnicodeWordsAndSpaces(t *testing.T) {
	rq := require.New(t)

	for _, text := range []string{
		"ÉS USD GB GBP",
		"US\vUSD GB GBP",
		"US\u00a0USD\u3000GB\fGBP",
		"日本 JPY GB GBP\u00a0",
	} {
		rq.Nil(ValidateInput(text), "input %q", text)
	}
	rq.ErrorIs(ValidateInput("US USD GB GBP\u00a0X\u00a0Y"), ErrInputSyntax)

	rq.Equal([]fx.CurrencyPair{
		{SourceCountry: "ÉS", SourceCurrency: "USD", DestCountry: "GB", DestCurrency: "GBP"},
	}, ParseInput("és\u00a0usd\vgb gbp"))
}

func TestParseInputUnvalidated(t *testing.T) {
	util.AssertsPanic = true
	defer func() { util.AssertsPanic = false }()

	require.Panics(t, func() { ParseInput("bad input") })
}
