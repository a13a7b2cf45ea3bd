package firestore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocIDEscaping(t *testing.T) {
	for _, key := range []string{"chat-projects", "chat-a/b-plan", "chat-x-tool-search-tools"} {
		id := docID(key)
		assert.NotContains(t, id, "/")
		assert.Equal(t, key, keyFromDocID(id))
	}
}

func TestDocIDEscaping_PercentKeysStayDistinct(t *testing.T) {
	a, b := "chat-a/b", "chat-a%2Fb"
	assert.NotEqual(t, docID(a), docID(b))
	assert.Equal(t, a, keyFromDocID(docID(a)))
	assert.Equal(t, b, keyFromDocID(docID(b)))
	assert.Equal(t, "100%", keyFromDocID(docID("100%")))
}

func TestNewStore_RequiresProject(t *testing.T) {
	_, err := NewStore(context.Background(), "", "")
	assert.Error(t, err)
}
