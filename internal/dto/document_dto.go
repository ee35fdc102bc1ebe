package dto

import (
	"tutor-cerdas-console/internal/entity"
)

type DocumentResponse struct {
	Id          string                `json:"id"`
	Title       string                `json:"title"`
	StoragePath string                `json:"storage_path"`
	Status      entity.DocumentStatus `json:"status"`
	Pages       *int                  `json:"pages"`
	Size        *int64                `json:"size"`
}

type ListDocumentsResponse struct {
	Items []DocumentResponse `json:"items"`
}

type ChunkResponse struct {
	Id         string `json:"id"`
	ChunkIndex int    `json:"chunk_index"`
	Content    string `json:"content"`
}

type ListChunksResponse struct {
	DocumentId string          `json:"document_id"`
	Items      []ChunkResponse `json:"items"`
}

// RebuildResponse reports the indexer's counts; "-" stands in for counts the
// backend did not return.
type RebuildResponse struct {
	Pages  string `json:"pages"`
	Chunks string `json:"chunks"`
}
