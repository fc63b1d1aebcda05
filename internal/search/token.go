package search

import "strings"

// TokenProvider splits the query on whitespace; every token must occur in
// at least one configured field.
type TokenProvider struct {
	opts Options
}

// NewTokenProvider creates a new token search provider.
func NewTokenProvider(opts ...Option) Provider {
	return &TokenProvider{opts: applyOptions(opts)}
}

func (p *TokenProvider) Match(item Item, query string) bool {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return true
	}
	values := p.opts.fieldValues(item)
	for _, token := range tokens {
		if p.opts.CaseInsensitive {
			token = strings.ToLower(token)
		}
		if !containsAny(values, token) {
			return false
		}
	}
	return true
}

func containsAny(values []string, token string) bool {
	for _, v := range values {
		if strings.Contains(v, token) {
			return true
		}
	}
	return false
}

func (p *TokenProvider) Name() string {
	return "token"
}
