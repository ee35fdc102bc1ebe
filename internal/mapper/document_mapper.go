package mapper

import (
	"tutor-cerdas-console/internal/dto"
	"tutor-cerdas-console/internal/entity"
)

func ToDocumentResponse(d entity.Document) dto.DocumentResponse {
	return dto.DocumentResponse{
		Id:          d.Id,
		Title:       d.Title,
		StoragePath: d.StoragePath,
		Status:      d.Status,
		Pages:       d.Pages,
		Size:        d.Size,
	}
}

func ToDocumentList(docs []entity.Document) dto.ListDocumentsResponse {
	items := make([]dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		items = append(items, ToDocumentResponse(d))
	}
	return dto.ListDocumentsResponse{Items: items}
}

func ToChunkList(id string, chunks []entity.Chunk) dto.ListChunksResponse {
	items := make([]dto.ChunkResponse, 0, len(chunks))
	for _, c := range chunks {
		items = append(items, dto.ChunkResponse{
			Id:         c.Id,
			ChunkIndex: c.ChunkIndex,
			Content:    c.Content,
		})
	}
	return dto.ListChunksResponse{DocumentId: id, Items: items}
}
