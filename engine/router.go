package engine

import (
	"fmt"
	"sort"

	payments "github.com/metaversemultiverse/Payments-Gateway"
	"github.com/metaversemultiverse/Payments-Gateway/provider"
)

// Route is a routing rule. It matches either an account code or an account
// category and carries the business parameters of the payment request.
type Route struct {
	Code     string
	Category string

	Provider provider.Provider
	// Amount in minor currency units.
	Amount      int64
	Currency    string
	Description string
}

func (r Route) key() string {
	if r.Code != "" {
		return "code " + r.Code
	}
	return "category " + r.Category
}

// Request builds the payment request for the account.
func (r Route) Request(acc payments.Account) *provider.PaymentRequest {
	desc := r.Description
	if desc == "" {
		desc = fmt.Sprintf("payment for account %s", acc.Code)
	}
	return &provider.PaymentRequest{
		AccountCode: acc.Code,
		Amount:      r.Amount,
		Currency:    r.Currency,
		Description: desc,
		Metadata:    acc.CopyMetadata(),
	}
}

// Router maps accounts to routes. Code rules take precedence over category
// rules.
type Router struct {
	routes     []Route
	byCode     map[string]Route
	byCategory map[string]Route
}

func NewRouter(routes []Route) (*Router, error) {
	r := &Router{
		routes:     make([]Route, 0, len(routes)),
		byCode:     make(map[string]Route),
		byCategory: make(map[string]Route),
	}
	for i, route := range routes {
		field := fmt.Sprintf("routes[%d]", i)
		switch {
		case route.Code == "" && route.Category == "":
			return nil, &payments.ConfigurationError{Field: field, Reason: "code or category is required"}
		case route.Code != "" && route.Category != "":
			return nil, &payments.ConfigurationError{Field: field, Reason: "code and category are mutually exclusive"}
		case route.Provider == provider.UNKNOWN_PROVIDER:
			return nil, &payments.ConfigurationError{Field: field + ".provider", Reason: "not set"}
		case route.Amount <= 0:
			return nil, &payments.ConfigurationError{Field: field + ".amount", Reason: "must be positive"}
		case route.Currency == "":
			return nil, &payments.ConfigurationError{Field: field + ".currency", Reason: "not set"}
		}
		if route.Code != "" {
			if _, ok := r.byCode[route.Code]; ok {
				return nil, &payments.ConfigurationError{Field: field, Reason: "duplicate rule for " + route.key()}
			}
			r.byCode[route.Code] = route
		} else {
			if _, ok := r.byCategory[route.Category]; ok {
				return nil, &payments.ConfigurationError{Field: field, Reason: "duplicate rule for " + route.key()}
			}
			r.byCategory[route.Category] = route
		}
		r.routes = append(r.routes, route)
	}
	return r, nil
}

// Match returns the route of the account.
func (r *Router) Match(acc payments.Account) (Route, bool) {
	if route, ok := r.byCode[acc.Code]; ok {
		return route, true
	}
	if c := acc.Category(); c != "" {
		if route, ok := r.byCategory[c]; ok {
			return route, true
		}
	}
	return Route{}, false
}

func (r *Router) Routes() []Route {
	res := make([]Route, len(r.routes))
	copy(res, r.routes)
	return res
}

// Providers returns the sorted set of providers used by the routes.
func (r *Router) Providers() []provider.Provider {
	seen := make(map[provider.Provider]struct{})
	res := []provider.Provider{}
	for _, route := range r.routes {
		if _, ok := seen[route.Provider]; ok {
			continue
		}
		seen[route.Provider] = struct{}{}
		res = append(res, route.Provider)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}
