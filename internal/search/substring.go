package search

import "strings"

// SubstringProvider matches if any configured field contains the query.
type SubstringProvider struct {
	opts Options
}

// NewSubstringProvider creates a new substring search provider.
func NewSubstringProvider(opts ...Option) Provider {
	return &SubstringProvider{opts: applyOptions(opts)}
}

func (p *SubstringProvider) Match(item Item, query string) bool {
	if query == "" {
		return true
	}
	if p.opts.CaseInsensitive {
		query = strings.ToLower(query)
	}
	for _, v := range p.opts.fieldValues(item) {
		if strings.Contains(v, query) {
			return true
		}
	}
	return false
}

func (p *SubstringProvider) Name() string {
	return "substring"
}
