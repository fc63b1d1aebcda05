// Package search provides the strategies used to filter commands and
// assets: substring, regular expression and token matching behind a common
// Provider interface.
package search

import "strings"

// Field names understood by the providers.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldSection     = "section"
	FieldPath        = "path"
)

// Item is anything searchable by named text fields.
type Item interface {
	// Field returns the value of the named field, or "" if it has none.
	Field(name string) string
}

// Provider defines the interface for search providers.
type Provider interface {
	// Match returns true if item matches query. An empty query matches everything.
	Match(item Item, query string) bool

	// Name returns the provider name for identification and debugging.
	Name() string
}

// Options holds configuration options for creating search providers.
type Options struct {
	CaseInsensitive bool
	Fields          []string
}

// DefaultOptions searches name and description, ignoring case.
func DefaultOptions() Options {
	return Options{
		CaseInsensitive: true,
		Fields:          []string{FieldName, FieldDescription},
	}
}

// Option is a function that modifies search options.
type Option func(*Options)

// WithCaseInsensitive sets case-insensitive search.
func WithCaseInsensitive(enabled bool) Option {
	return func(o *Options) {
		o.CaseInsensitive = enabled
	}
}

// WithFields sets the fields to search in.
func WithFields(fields ...string) Option {
	return func(o *Options) {
		o.Fields = fields
	}
}

func applyOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// fieldValues returns the non-empty configured fields of item, lowered
// when the search ignores case.
func (o Options) fieldValues(item Item) []string {
	values := make([]string, 0, len(o.Fields))
	for _, f := range o.Fields {
		v := item.Field(f)
		if v == "" {
			continue
		}
		if o.CaseInsensitive {
			v = strings.ToLower(v)
		}
		values = append(values, v)
	}
	return values
}

// Filter returns the items matching query, preserving order.
func Filter[T Item](p Provider, items []T, query string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if p.Match(it, query) {
			out = append(out, it)
		}
	}
	return out
}

// New returns the provider registered under name: "substring", "regex" or
// "token". Unknown names fall back to substring.
func New(name string, opts ...Option) Provider {
	switch name {
	case "regex":
		return NewRegexProvider(opts...)
	case "token":
		return NewTokenProvider(opts...)
	default:
		return NewSubstringProvider(opts...)
	}
}
