package entity

type DocumentStatus string

const (
	DocumentStatusUploaded DocumentStatus = "uploaded"
	DocumentStatusIndexed  DocumentStatus = "indexed"
	DocumentStatusEmbedded DocumentStatus = "embedded"
	DocumentStatusError    DocumentStatus = "error"
)

// Document mirrors what the processing backend reports. The backend owns the
// records; this side only caches a transient list for display.
type Document struct {
	Id          string
	Title       string
	StoragePath string
	Status      DocumentStatus
	Pages       *int
	Size        *int64
}

// Chunk is one indexed segment of a document's extracted text.
type Chunk struct {
	Id         string
	ChunkIndex int
	Content    string
}
