package search

import (
	"regexp"
	"sync"
)

// RegexProvider matches if any configured field matches the query pattern.
// An invalid pattern matches nothing.
type RegexProvider struct {
	opts    Options
	cache   map[string]*regexp.Regexp
	cacheMu sync.RWMutex
}

// NewRegexProvider creates a new regex search provider.
func NewRegexProvider(opts ...Option) Provider {
	return &RegexProvider{
		opts:  applyOptions(opts),
		cache: make(map[string]*regexp.Regexp),
	}
}

func (p *RegexProvider) Match(item Item, query string) bool {
	if query == "" {
		return true
	}
	re, err := p.compile(query)
	if err != nil {
		return false
	}
	for _, f := range p.opts.Fields {
		if v := item.Field(f); v != "" && re.MatchString(v) {
			return true
		}
	}
	return false
}

// Valid reports whether pattern compiles.
func (p *RegexProvider) Valid(pattern string) error {
	_, err := p.compile(pattern)
	return err
}

func (p *RegexProvider) compile(pattern string) (*regexp.Regexp, error) {
	p.cacheMu.RLock()
	re, ok := p.cache[pattern]
	p.cacheMu.RUnlock()
	if ok {
		return re, nil
	}

	expr := pattern
	if p.opts.CaseInsensitive {
		expr = "(?i)" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}

	p.cacheMu.Lock()
	p.cache[pattern] = re
	p.cacheMu.Unlock()
	return re, nil
}

func (p *RegexProvider) Name() string {
	return "regex"
}
