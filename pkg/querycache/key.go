// Package querycache provides an observable client-side cache for query
// results.
//
// Keys are ordered tuples, entries expire with a TTL and every change is
// published to subscribers. Mutations patch the cache optimistically and
// either commit or roll back to a snapshot when the server settles the
// request.
package querycache

import (
	"fmt"
	"strings"
)

// Key identifies a cached query result. It is an ordered tuple rendered
// into a single string, e.g. "medicine-requests/2/50/pending".
type Key string

// NewKey builds a Key from its parts. Parts are rendered with their
// default format, so both strings and numbers can be used.
func NewKey(parts ...any) Key {
	rendered := make([]string, 0, len(parts))
	for _, part := range parts {
		rendered = append(rendered, fmt.Sprint(part))
	}

	return Key(strings.Join(rendered, "/"))
}

func (k Key) String() string {
	return string(k)
}
