package plugins

import (
	"regexp"
	"sync"

	"git.home.luguber.info/inful/docnav/internal/literal"
)

// DefaultSearchMaxSuggestions is the framework default.
const DefaultSearchMaxSuggestions = 5

// Search is the @vuepress/search plugin configuration.
type Search struct {
	MaxSuggestions int
	// Test is the source of the regular expression restricting which pages
	// are indexed. Empty means every page.
	Test string

	once sync.Once
	re   *regexp.Regexp
	err  error
}

// DecodeSearch reads the search options. The test pattern is compiled on
// first use.
func DecodeSearch(opts any) (*Search, error) {
	obj, err := optionsObject(NameSearch, opts)
	if err != nil {
		return nil, err
	}
	s := &Search{MaxSuggestions: DefaultSearchMaxSuggestions}
	for _, f := range obj.Fields {
		switch f.Key {
		case "searchMaxSuggestions":
			n, ok := f.Value.(int)
			if !ok || n <= 0 {
				return nil, optionsError(NameSearch, "searchMaxSuggestions must be a positive integer, got %v", f.Value)
			}
			s.MaxSuggestions = n
		case "test":
			pattern, ok := f.Value.(string)
			if !ok {
				return nil, optionsError(NameSearch, "test must be a string, got %s", literal.TypeName(f.Value))
			}
			s.Test = pattern
		}
	}
	if _, err := s.pattern(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Search) pattern() (*regexp.Regexp, error) {
	s.once.Do(func() {
		if s.Test == "" {
			return
		}
		s.re, s.err = regexp.Compile(s.Test)
		if s.err != nil {
			s.err = optionsError(NameSearch, "test: %v", s.err)
		}
	})
	return s.re, s.err
}

// Indexes reports whether route is included in the search index.
func (s *Search) Indexes(route string) bool {
	re, err := s.pattern()
	if err != nil {
		return false
	}
	return re == nil || re.MatchString(route)
}
