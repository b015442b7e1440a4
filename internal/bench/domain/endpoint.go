package domain

import (
	"fmt"
	"strings"

	"TickerBench/pkg/validator"
)

type Category string

const (
	CategoryNone      Category = ""
	CategoryTicker    Category = "ticker"
	CategoryOrderbook Category = "orderbook"
	CategoryTrades    Category = "trades"
)

type EndpointDescriptor struct {
	Name     string   `json:"name"`
	URL      string   `json:"url"`
	Category Category `json:"category,omitempty"`
}

// Key identifies a (target, category) pair. The same exchange may be
// registered once per endpoint category.
func (e EndpointDescriptor) Key() string {
	if e.Category == CategoryNone {
		return e.Name
	}
	return e.Name + "/" + string(e.Category)
}

// Registry is the ordered, immutable set of endpoints a run probes.
type Registry struct {
	endpoints []EndpointDescriptor
}

func NewRegistry(endpoints ...EndpointDescriptor) (*Registry, error) {
	if len(endpoints) == 0 {
		return nil, NewConfigurationError("endpoints", ErrEmptyRegistry)
	}

	seen := make(map[string]struct{}, len(endpoints))
	list := make([]EndpointDescriptor, 0, len(endpoints))

	for i, ep := range endpoints {
		ep.Name = strings.TrimSpace(ep.Name)
		ep.URL = strings.TrimSpace(ep.URL)
		ep.Category = Category(strings.TrimSpace(string(ep.Category)))

		if !validator.ValidateName(ep.Name) {
			return nil, NewConfigurationError(fmt.Sprintf("endpoints[%d].name", i), ErrInvalidEndpoint)
		}

		if !validator.ValidateEndpointURL(ep.URL) {
			return nil, NewConfigurationError(fmt.Sprintf("endpoints[%d].url", i),
				fmt.Errorf("%w: %q is not an http(s) URL", ErrInvalidEndpoint, ep.URL))
		}

		if _, ok := seen[ep.Key()]; ok {
			return nil, NewConfigurationError(fmt.Sprintf("endpoints[%d]", i),
				fmt.Errorf("%w: %s", ErrDuplicateEndpoint, ep.Key()))
		}
		seen[ep.Key()] = struct{}{}

		list = append(list, ep)
	}

	return &Registry{endpoints: list}, nil
}

// Endpoints returns a copy in registry order
func (r *Registry) Endpoints() []EndpointDescriptor {
	if r == nil {
		return nil
	}
	out := make([]EndpointDescriptor, len(r.endpoints))
	copy(out, r.endpoints)
	return out
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.endpoints)
}

// Names returns distinct target names in first-seen order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var names []string
	for _, ep := range r.endpoints {
		if _, ok := seen[ep.Name]; ok {
			continue
		}
		seen[ep.Name] = struct{}{}
		names = append(names, ep.Name)
	}
	return names
}

// Categories returns distinct non-empty categories in first-seen order.
func (r *Registry) Categories() []Category {
	if r == nil {
		return nil
	}
	seen := make(map[Category]struct{})
	var categories []Category
	for _, ep := range r.endpoints {
		if ep.Category == CategoryNone {
			continue
		}
		if _, ok := seen[ep.Category]; ok {
			continue
		}
		seen[ep.Category] = struct{}{}
		categories = append(categories, ep.Category)
	}
	return categories
}
