package app

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"strings"
)

//go:embed currencies.txt
var defaultSuggestions string

// Suggestion is a country/currency token pair the user can copy into their
// input, eg. "US USD", with a human readable description.
type Suggestion struct {
	Tokens      string
	Description string
}

// ParseSuggestions reads lines formatted as "CC CUR - Description". Blank
// lines and lines starting with # are skipped.
func ParseSuggestions(r io.Reader) ([]Suggestion, error) {
	var suggestions []Suggestion
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tokens, desc, _ := strings.Cut(line, " - ")
		tokens = strings.TrimSpace(tokens)
		if len(strings.Fields(tokens)) != 2 {
			return nil, fmt.Errorf("line %d: expected \"COUNTRY CURRENCY - description\", got %q",
				lineNo, line)
		}
		suggestions = append(suggestions, Suggestion{
			Tokens:      strings.ToUpper(strings.Join(strings.Fields(tokens), " ")),
			Description: strings.TrimSpace(desc),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return suggestions, nil
}

func DefaultSuggestions() []Suggestion {
	s, err := ParseSuggestions(strings.NewReader(defaultSuggestions))
	if err != nil {
		panic(err)
	}
	return s
}

// FilterSuggestions keeps suggestions whose tokens or description contain
// query, case insensitively.
func FilterSuggestions(suggestions []Suggestion, query string) []Suggestion {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return suggestions
	}
	var matched []Suggestion
	for _, s := range suggestions {
		if strings.Contains(strings.ToLower(s.Tokens), query) ||
			strings.Contains(strings.ToLower(s.Description), query) {
			matched = append(matched, s)
		}
	}
	return matched
}
