package app

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tsiemens/fxreport/fx"
	"github.com/tsiemens/fxreport/util"
)

var ErrInputSyntax = errors.New("invalid currency pair syntax")

// InputSyntaxHelp is shown to the user when their input is rejected.
const InputSyntaxHelp = `Each line must contain exactly 4 words separated by spaces:
  SOURCE_COUNTRY SOURCE_CURRENCY DESTINATION_COUNTRY DESTINATION_CURRENCY
For example:
  US USD GB GBP
  CA CAD FR EUR`

// Words are Unicode letters, digits and underscores. Any horizontal space,
// including non-breaking and vertical tab, separates them.
const (
	pairWord = `([\p{L}\p{N}_]+)`
	pairSep  = `[\t\v\f\r\p{Z}]`
)

var pairLineRe = regexp.MustCompile(
	`^` + pairWord + pairSep + `+` + pairWord + pairSep + `+` + pairWord + pairSep + `+` + pairWord + pairSep + `*$`)

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// ValidateInput accepts or rejects the whole block. Blank lines are
// ignored, but at least one pair line is required.
func ValidateInput(text string) error {
	pairs := 0
	for i, line := range strings.Split(text, "\n") {
		if isBlank(line) {
			continue
		}
		if !pairLineRe.MatchString(line) {
			return fmt.Errorf("%w: line %d: %q", ErrInputSyntax, i+1, strings.TrimRight(line, "\r"))
		}
		pairs++
	}
	if pairs == 0 {
		return fmt.Errorf("%w: no currency pairs given", ErrInputSyntax)
	}
	return nil
}

// ParseInput converts a block which has passed ValidateInput into pairs, in
// input order.
func ParseInput(text string) []fx.CurrencyPair {
	var pairs []fx.CurrencyPair
	for _, line := range strings.Split(text, "\n") {
		if isBlank(line) {
			continue
		}
		m := pairLineRe.FindStringSubmatch(line)
		util.Assertf(m != nil, "ParseInput: unvalidated line %q\n", line)
		pairs = append(pairs, fx.CurrencyPair{
			SourceCountry:  strings.ToUpper(m[1]),
			SourceCurrency: strings.ToUpper(m[2]),
			DestCountry:    strings.ToUpper(m[3]),
			DestCurrency:   strings.ToUpper(m[4]),
		})
	}
	return pairs
}
