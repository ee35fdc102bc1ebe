package mapper

import (
	"testing"

	"tutor-cerdas-console/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDocumentList(t *testing.T) {
	pages := 5
	size := int64(1024)
	docs := []entity.Document{
		{Id: "d1", Title: "Algebra", StoragePath: "docs/a.pdf", Status: entity.DocumentStatusEmbedded, Pages: &pages, Size: &size},
		{Id: "d2", Title: "Untitled", Status: entity.DocumentStatusUploaded},
	}

	out := ToDocumentList(docs)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "Algebra", out.Items[0].Title)
	require.NotNil(t, out.Items[0].Pages)
	assert.Equal(t, 5, *out.Items[0].Pages)
	// Absent counts stay nil so the payload renders a placeholder.
	assert.Nil(t, out.Items[1].Pages)
	assert.Nil(t, out.Items[1].Size)
}

func TestToDocumentListEmpty(t *testing.T) {
	out := ToDocumentList(nil)
	// Empty, not null, so the payload always carries an items array.
	assert.NotNil(t, out.Items)
	assert.Len(t, out.Items, 0)
}

func TestToChunkList(t *testing.T) {
	out := ToChunkList("d9", []entity.Chunk{
		{Id: "c1", ChunkIndex: 0, Content: "first"},
		{Id: "c2", ChunkIndex: 1, Content: "second"},
	})
	assert.Equal(t, "d9", out.DocumentId)
	require.Len(t, out.Items, 2)
	assert.Equal(t, 1, out.Items[1].ChunkIndex)
}
