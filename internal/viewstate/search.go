package viewstate

import (
	"strings"

	"github.com/fekuna/stroymaterials/internal/livequery"
)

type SearchSource[T any] interface {
	WatchAll() livequery.Query[[]T]
	WatchSearch(term string) livequery.Query[[]T]
}

// SearchList binds a search term to a source. A blank term always selects
// WatchAll, never an empty pattern search.
type SearchList[T any] struct {
	*List[string, T]
}

func NewSearchList[T any](src SearchSource[T], opts ...Option) *SearchList[T] {
	return &SearchList[T]{List: New("", func(term string) livequery.Query[[]T] {
		if strings.TrimSpace(term) == "" {
			return src.WatchAll()
		}
		return src.WatchSearch(term)
	}, opts...)}
}

// Search normalises blank input to "" so that whitespace changes do not
// resubscribe.
func (s *SearchList[T]) Search(term string) {
	if strings.TrimSpace(term) == "" {
		term = ""
	}
	s.Set(term)
}

// Refresh clears the search term.
func (s *SearchList[T]) Refresh() {
	s.Set("")
}
