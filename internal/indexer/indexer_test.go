package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeIndexer_IndexAndContent(t *testing.T) {
	ci := NewCodeIndexer()
	ci.IndexFile("src/user.go", "package main\nfunc LoadUser() {}")

	content, ok := ci.Content("src/user.go")
	require.True(t, ok)
	assert.Contains(t, content, "LoadUser")

	_, ok = ci.Content("src/missing.go")
	assert.False(t, ok)
}

func TestCodeIndexer_Search(t *testing.T) {
	ci := NewCodeIndexer()
	ci.IndexFile("a.go", "payment gateway handler")
	ci.IndexFile("b.go", "payment processor worker")
	ci.IndexFile("c.go", "unrelated words here")

	results := ci.Search("payment")
	assert.ElementsMatch(t, []string{"a.go", "b.go"}, results)

	// Tokens of length <= 3 never make it into the index.
	assert.Empty(t, ci.Search("our"))
}

func TestCodeIndexer_SearchDeduplicates(t *testing.T) {
	ci := NewCodeIndexer()
	ci.IndexFile("a.go", "payment payment payment handler")

	results := ci.Search("payment handler")
	assert.Equal(t, []string{"a.go"}, results)
}

func TestCodeIndexer_FindRelated_Substring(t *testing.T) {
	ci := NewCodeIndexer()
	ci.IndexFile("src/user.ts", "")
	ci.IndexFile("src/user.test.ts", "")
	ci.IndexFile("src/order.ts", "")

	related := ci.FindRelated("src/user.ts")
	assert.Equal(t, []string{"src/user.test.ts"}, related)
}

func TestCodeIndexer_FindRelated_Similarity(t *testing.T) {
	ci := NewCodeIndexer()
	ci.IndexFile("handlers.go", "")
	ci.IndexFile("handler.go", "") // similarity 7/8 > 0.7
	ci.IndexFile("zzzz.go", "")

	related := ci.FindRelated("handlers.go")
	assert.Equal(t, []string{"handler.go"}, related)
}

func TestCodeIndexer_FindRelated_CapAtFive(t *testing.T) {
	ci := NewCodeIndexer()
	ci.IndexFile("user.go", "")
	for _, name := range []string{"user1.go", "user2.go", "user3.go", "user4.go", "user5.go", "user6.go"} {
		ci.IndexFile(name, "")
	}

	related := ci.FindRelated("user.go")
	assert.Len(t, related, 5)
	// Insertion order, truncated; no ranking beyond the qualifying test.
	assert.Equal(t, []string{"user1.go", "user2.go", "user3.go", "user4.go", "user5.go"}, related)
}

func TestCodeIndexer_RemoveFile(t *testing.T) {
	ci := NewCodeIndexer()
	ci.IndexFile("user.go", "payment handler")
	ci.IndexFile("users.go", "")

	ci.RemoveFile("user.go")

	_, ok := ci.Content("user.go")
	assert.False(t, ok)
	assert.Empty(t, ci.Search("payment"))
	assert.NotContains(t, ci.Files(), "user.go")
	assert.Empty(t, ci.FindRelated("user.go"))
}

func TestExtractKeywords(t *testing.T) {
	words := extractKeywords("The quick, brown FOX jumped; fox!")
	assert.ElementsMatch(t, []string{"quick", "brown", "jumped"}, words)
}
