// Package indexer maintains the in-memory file index used for related-file
// lookups and context enrichment.
package indexer

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/hbollon/go-edlib"
)

const (
	// maxRelated bounds FindRelated results.
	maxRelated = 5
	// minKeywordLen filters short tokens out of the keyword index.
	minKeywordLen = 4
	// similarityThreshold is the normalized-Levenshtein cutoff for
	// filename relatedness.
	similarityThreshold = 0.7
)

// CodeIndexer stores file contents and a keyword inverted index, and answers
// "which files are related to this one" by filename similarity.
type CodeIndexer struct {
	contents map[string]string
	keywords map[string][]string
	order    []string // insertion order of indexed paths
	mu       sync.RWMutex
}

// NewCodeIndexer creates an empty indexer.
func NewCodeIndexer() *CodeIndexer {
	return &CodeIndexer{
		contents: make(map[string]string),
		keywords: make(map[string][]string),
	}
}

// IndexFile stores content for path and folds its keywords into the inverted
// index. Re-indexing a path replaces its content but keeps its position in
// iteration order.
func (ci *CodeIndexer) IndexFile(path, content string) {
	ci.mu.Lock()
	defer ci.mu.Unlock()

	if _, exists := ci.contents[path]; !exists {
		ci.order = append(ci.order, path)
	}
	ci.contents[path] = content

	for _, word := range extractKeywords(content) {
		paths := ci.keywords[word]
		if !containsString(paths, path) {
			ci.keywords[word] = append(paths, path)
		}
	}
}

// RemoveFile drops a path from the index.
func (ci *CodeIndexer) RemoveFile(path string) {
	ci.mu.Lock()
	defer ci.mu.Unlock()

	if _, exists := ci.contents[path]; !exists {
		return
	}
	delete(ci.contents, path)
	for i, p := range ci.order {
		if p == path {
			ci.order = append(ci.order[:i], ci.order[i+1:]...)
			break
		}
	}
	for word, paths := range ci.keywords {
		for i, p := range paths {
			if p == path {
				ci.keywords[word] = append(paths[:i], paths[i+1:]...)
				break
			}
		}
		if len(ci.keywords[word]) == 0 {
			delete(ci.keywords, word)
		}
	}
}

// Content returns the stored content for path.
func (ci *CodeIndexer) Content(path string) (string, bool) {
	ci.mu.RLock()
	defer ci.mu.RUnlock()
	content, ok := ci.contents[path]
	return content, ok
}

// Files returns all indexed paths in insertion order.
func (ci *CodeIndexer) Files() []string {
	ci.mu.RLock()
	defer ci.mu.RUnlock()
	out := make([]string, len(ci.order))
	copy(out, ci.order)
	return out
}

// Search returns the paths indexed under a keyword. The query goes through
// the same normalization as indexing.
func (ci *CodeIndexer) Search(query string) []string {
	ci.mu.RLock()
	defer ci.mu.RUnlock()

	seen := make(map[string]bool)
	var results []string
	for _, word := range extractKeywords(query) {
		for _, path := range ci.keywords[word] {
			if !seen[path] {
				seen[path] = true
				results = append(results, path)
			}
		}
	}
	return results
}

// FindRelated returns up to five indexed paths whose filenames relate to the
// given path: exact match, substring containment either direction, or
// normalized Levenshtein similarity above the threshold. Results come back
// in index insertion order with no further ranking.
func (ci *CodeIndexer) FindRelated(path string) []string {
	ci.mu.RLock()
	defer ci.mu.RUnlock()

	base := baseName(path)
	var related []string
	for _, candidate := range ci.order {
		if candidate == path {
			continue
		}
		other := baseName(candidate)
		if base == other ||
			strings.Contains(base, other) || strings.Contains(other, base) ||
			nameSimilarity(base, other) > similarityThreshold {
			related = append(related, candidate)
			if len(related) >= maxRelated {
				break
			}
		}
	}
	return related
}

// baseName lowercases a path's filename and strips the extension, matching
// keyword normalization.
func baseName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.ToLower(name)
}

// nameSimilarity is (longer - editDistance) / longer.
func nameSimilarity(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	longer, shorter := a, b
	if len(b) > len(a) {
		longer, shorter = b, a
	}
	if len(longer) == 0 {
		return 1.0
	}
	distance := edlib.LevenshteinDistance(longer, shorter)
	return float64(len(longer)-distance) / float64(len(longer))
}

// extractKeywords lowercases content, strips punctuation, and keeps tokens
// longer than three characters.
func extractKeywords(content string) []string {
	fields := strings.FieldsFunc(strings.ToLower(content), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9') && r != '_'
	})

	seen := make(map[string]bool)
	var words []string
	for _, field := range fields {
		if len(field) < minKeywordLen || seen[field] {
			continue
		}
		seen[field] = true
		words = append(words, field)
	}
	return words
}

func containsString(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
