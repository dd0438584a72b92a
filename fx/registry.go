package fx

import (
	"fmt"
	"strings"

	"github.com/tsiemens/fxreport/util"
)

// ProviderFactory builds a provider from the shared options.
type ProviderFactory func(opts ProviderOptions) RateProvider

// Factories lists every provider that can be offered for selection. Adding
// a provider means implementing RateProvider and adding it here.
var Factories = map[ProviderID]ProviderFactory{
	Wise:         NewWiseProvider,
	Xendpay:      NewXendpayProvider,
	Instarem:     NewInstaremProvider,
	CurrencyFair: NewCurrencyFairProvider,
	TransferGo:   NewTransferGoProvider,
}

// Registry maps provider IDs to providers. It is built once and not
// modified afterwards, so it is safe for concurrent reads.
type Registry struct {
	providers map[ProviderID]RateProvider
}

func NewRegistry(providers ...RateProvider) *Registry {
	r := &Registry{providers: make(map[ProviderID]RateProvider, len(providers))}
	for _, p := range providers {
		r.providers[p.ID()] = p
	}
	return r
}

// DefaultRegistry builds every provider in Factories with opts.
func DefaultRegistry(opts ProviderOptions) *Registry {
	providers := make([]RateProvider, 0, len(Factories))
	for _, id := range util.SortedMapKeys(Factories) {
		providers = append(providers, Factories[id](opts))
	}
	return NewRegistry(providers...)
}

func (r *Registry) Get(id ProviderID) (RateProvider, bool) {
	p, ok := r.providers[id]
	return p, ok
}

// Site returns the public site of a registered provider, or "" if id is
// unknown.
func (r *Registry) Site(id ProviderID) string {
	if p, ok := r.Get(id); ok {
		return p.SiteURL()
	}
	return ""
}

// IDs returns the registered IDs in sorted order.
func (r *Registry) IDs() []ProviderID {
	return util.SortedMapKeys(r.providers)
}

// Select resolves a user ordered list of IDs. Order is kept, duplicates are
// dropped and IDs are matched case insensitively.
func (r *Registry) Select(ids []string) ([]RateProvider, error) {
	seen := util.NewSet[ProviderID]()
	for _, raw := range ids {
		id := ProviderID(strings.ToLower(strings.TrimSpace(raw)))
		if id == "" {
			continue
		}
		if _, ok := r.Get(id); !ok {
			return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownProvider, raw, r.knownList())
		}
		seen.Add(id)
	}
	if seen.Len() == 0 {
		return nil, fmt.Errorf("%w", ErrNoProviders)
	}

	selected := make([]RateProvider, 0, seen.Len())
	for _, id := range seen.Values() {
		selected = append(selected, r.providers[id])
	}
	return selected, nil
}

func (r *Registry) knownList() string {
	ids := r.IDs()
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, string(id))
	}
	return strings.Join(names, ", ")
}
