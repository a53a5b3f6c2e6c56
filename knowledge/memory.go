package knowledge

import (
	"context"
	"strings"
	"sync"
	"unicode"
)

// MemoryStore is an in-process Store ranking documents by token overlap
// with the query. It stands in for an external vector database in tests
// and small deployments.
type MemoryStore struct {
	docs map[string]string
	mu   sync.RWMutex
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]string)}
}

// Add inserts or replaces a document under the given id.
func (s *MemoryStore) Add(id, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[id] = content
}

// AddAll inserts a batch of documents keyed by id.
func (s *MemoryStore) AddAll(docs map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, content := range docs {
		s.docs[id] = content
	}
}

// Len returns the number of stored documents.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Query returns the document with the highest token overlap score.
func (s *MemoryStore) Query(_ context.Context, query string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return "", ErrNoResults
	}

	best := ""
	bestScore := 0
	for _, content := range s.docs {
		score := overlapScore(queryTokens, content)
		if score > bestScore {
			best = content
			bestScore = score
		}
	}
	if bestScore == 0 {
		return "", ErrNoResults
	}
	return best, nil
}

func tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, word := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) {
		if len(word) > 2 {
			tokens[word] = struct{}{}
		}
	}
	return tokens
}

func overlapScore(queryTokens map[string]struct{}, content string) int {
	score := 0
	for token := range tokenize(content) {
		if _, ok := queryTokens[token]; ok {
			score++
		}
	}
	return score
}
