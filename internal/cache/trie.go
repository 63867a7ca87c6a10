// Screenscout - Personalized Movie & TV Discovery Service
// Copyright 2026 Screenscout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/screenscout/screenscout

package cache

import (
	"sort"
	"strings"
	"sync"

	"github.com/screenscout/screenscout/internal/models"
)

// trieNode is a node in the title prefix tree.
type trieNode struct {
	children map[rune]*trieNode
	isEnd    bool
	title    string         // original casing of the complete title
	key      models.ItemKey // identity of the best-known title holder
	weight   float64        // popularity of that holder
}

// Trie is a thread-safe prefix tree over media titles, backing the
// typeahead suggestion endpoint. Matching is case-insensitive; lookups
// are O(m) in the query length. Each title keeps the identity and
// popularity of its most popular holder, and suggestions come back
// ordered by that popularity.
//
// Titles are fed in opportunistically from search and feed results, so
// the index only ever suggests titles the service has already seen.
type Trie struct {
	mu   sync.RWMutex
	root *trieNode
	size int
}

// Suggestion is a prefix match with the identity needed to navigate to
// the title.
type Suggestion struct {
	Title  string
	Key    models.ItemKey
	Weight float64
}

// NewTrie creates an empty title index.
func NewTrie() *Trie {
	return &Trie{root: newTrieNode()}
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[rune]*trieNode)}
}

// Add indexes a title under its media identity. When the same title is
// seen again, the entry keeps whichever holder is more popular, so a
// blockbuster is not shadowed by an obscure namesake. Returns true for
// a newly indexed title.
func (t *Trie) Add(title string, key models.ItemKey, weight float64) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	node := t.root
	for _, ch := range strings.ToLower(title) {
		if node.children[ch] == nil {
			node.children[ch] = newTrieNode()
		}
		node = node.children[ch]
	}

	isNew := !node.isEnd
	if isNew || weight >= node.weight {
		node.title = title
		node.key = key
		node.weight = weight
	}
	node.isEnd = true

	if isNew {
		t.size++
	}
	return isNew
}

// Contains reports whether an exact title is indexed.
func (t *Trie) Contains(title string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	node := t.walk(strings.ToLower(strings.TrimSpace(title)))
	return node != nil && node.isEnd
}

// Suggest returns up to limit titles starting with prefix, most
// popular first, ties broken alphabetically. An empty prefix returns
// nothing; typeahead without input is meaningless.
func (t *Trie) Suggest(prefix string, limit int) []Suggestion {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" || limit <= 0 {
		return nil
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	node := t.walk(strings.ToLower(prefix))
	if node == nil {
		return nil
	}

	var results []Suggestion
	collectTitles(node, &results)

	sort.Slice(results, func(i, j int) bool {
		if results[i].Weight != results[j].Weight {
			return results[i].Weight > results[j].Weight
		}
		return results[i].Title < results[j].Title
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// walk descends to the node for key, or nil when the path is absent.
// Caller holds at least a read lock.
func (t *Trie) walk(key string) *trieNode {
	node := t.root
	for _, ch := range key {
		if node.children[ch] == nil {
			return nil
		}
		node = node.children[ch]
	}
	return node
}

func collectTitles(node *trieNode, results *[]Suggestion) {
	if node == nil {
		return
	}
	if node.isEnd {
		*results = append(*results, Suggestion{
			Title:  node.title,
			Key:    node.key,
			Weight: node.weight,
		})
	}
	for _, child := range node.children {
		collectTitles(child, results)
	}
}

// Size returns the number of indexed titles.
func (t *Trie) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.size
}

// Clear drops the whole index.
func (t *Trie) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.root = newTrieNode()
	t.size = 0
}
