// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package generator

import "fmt"

// indexEntry is one (token, object, final-offset) triple populated during
// the sizing pass and consulted during emission (§3 "Generator node
// indexer").
type indexEntry struct {
	token  Token
	object interface{}
	offset uint32
}

// Indexer maps abstract cross-reference tokens to the byte offset their
// owning node ends up at once the table is laid out. It lives for exactly
// one generator invocation (§5 "Resource acquisition").
type Indexer struct {
	entries []indexEntry
}

// NewIndexer returns an empty node indexer.
func NewIndexer() *Indexer {
	return &Indexer{}
}

// Add records that token resolves to offset, associating object for callers
// that need it back during emission (e.g. to re-read an id-mapping list).
func (ix *Indexer) Add(token Token, offset uint32, object interface{}) {
	ix.entries = append(ix.entries, indexEntry{token: token, object: object, offset: offset})
}

// Resolve performs §4.6's linear search. NullToken always resolves to 0
// with no lookup. Any other token not present is a not-found failure: the
// caller must abort emission and free the partially built table.
func (ix *Indexer) Resolve(token Token) (uint32, error) {
	if token == NullToken {
		return 0, nil
	}
	for _, e := range ix.entries {
		if e.token == token {
			return e.offset, nil
		}
	}
	return 0, fmt.Errorf("generator: token %d not found in node indexer", token)
}
