package service

import (
	"context"
	"errors"
	"io"
	"sync"

	"tutor-cerdas-console/internal/docbackend"
	"tutor-cerdas-console/internal/entity"
	"tutor-cerdas-console/internal/pkg/logger"
)

var (
	// ErrNoFile is a validation failure: no request leaves the process.
	ErrNoFile = errors.New("no file selected")
	// ErrUploadInFlight rejects a second upload while one is pending.
	ErrUploadInFlight = errors.New("an upload is already in progress")
	// ErrRebuildInFlight rejects any rebuild while one is pending,
	// regardless of document id.
	ErrRebuildInFlight = errors.New("a rebuild is already in progress")
)

// IAdminWorkflowService drives the admin document workflow against the
// processing backend: list, upload, rebuild, chunk view. Each action keeps
// its own lifecycle so one failure never masks another.
type IAdminWorkflowService interface {
	Refresh(ctx context.Context, accessToken string) ([]entity.Document, error)
	Documents() []entity.Document
	Upload(ctx context.Context, accessToken, title, filename string, file io.Reader) error
	Rebuild(ctx context.Context, accessToken, id string) (*docbackend.RebuildResult, error)
	ViewChunks(ctx context.Context, accessToken, id string) ([]entity.Chunk, error)
	RebuildingId() string
}

type adminWorkflowService struct {
	backend *docbackend.Client
	log     logger.ILogger

	mu        sync.Mutex
	items     []entity.Document
	uploading bool
	rebuildId string
	viewDoc   string
	chunks    []entity.Chunk
}

func NewAdminWorkflowService(backend *docbackend.Client, log logger.ILogger) IAdminWorkflowService {
	return &adminWorkflowService{
		backend: backend,
		log:     log,
	}
}

// Refresh fetches the current document collection. On failure the previously
// loaded list is left untouched and the error is surfaced inline.
func (s *adminWorkflowService) Refresh(ctx context.Context, accessToken string) ([]entity.Document, error) {
	docs, err := s.backend.ListDocuments(ctx, accessToken)
	if err != nil {
		s.log.Warn("admin", "document list refresh failed", map[string]interface{}{
			"error": err.Error(),
		})
		return s.Documents(), err
	}

	s.mu.Lock()
	s.items = docs
	s.mu.Unlock()
	return docs, nil
}

// Documents returns the cached collection; the backend stays the source of
// truth.
func (s *adminWorkflowService) Documents() []entity.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Document, len(s.items))
	copy(out, s.items)
	return out
}

// Upload submits one file. Uploads are single-flight; success triggers
// exactly one list refresh, failure leaves the list untouched and surfaces
// the server's message verbatim.
func (s *adminWorkflowService) Upload(ctx context.Context, accessToken, title, filename string, file io.Reader) error {
	if file == nil {
		return ErrNoFile
	}

	s.mu.Lock()
	if s.uploading {
		s.mu.Unlock()
		return ErrUploadInFlight
	}
	s.uploading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.uploading = false
		s.mu.Unlock()
	}()

	if err := s.backend.Upload(ctx, accessToken, title, filename, file); err != nil {
		return err
	}

	if _, err := s.Refresh(ctx, accessToken); err != nil {
		// The upload itself succeeded; a failed refresh keeps its own
		// error channel.
		s.log.Warn("admin", "list refresh after upload failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return nil
}

// Rebuild triggers extract-chunk-embed for one document. Only one rebuild
// may be pending at a time; the list is refreshed only when the rebuild
// succeeded.
func (s *adminWorkflowService) Rebuild(ctx context.Context, accessToken, id string) (*docbackend.RebuildResult, error) {
	s.mu.Lock()
	if s.rebuildId != "" {
		s.mu.Unlock()
		return nil, ErrRebuildInFlight
	}
	s.rebuildId = id
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.rebuildId = ""
		s.mu.Unlock()
	}()

	res, err := s.backend.Rebuild(ctx, accessToken, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.Refresh(ctx, accessToken); err != nil {
		s.log.Warn("admin", "list refresh after rebuild failed", map[string]interface{}{
			"document_id": id,
			"error":       err.Error(),
		})
	}
	return res, nil
}

// RebuildingId reports the pending rebuild's document id, or "".
func (s *adminWorkflowService) RebuildingId() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rebuildId
}

// ViewChunks fetches a bounded page of chunks for one document. Switching
// documents discards the previous list before the new fetch resolves, so a
// stale response for another document is never shown.
func (s *adminWorkflowService) ViewChunks(ctx context.Context, accessToken, id string) ([]entity.Chunk, error) {
	s.mu.Lock()
	s.viewDoc = id
	s.chunks = nil
	s.mu.Unlock()

	chunks, err := s.backend.Chunks(ctx, accessToken, id, docbackend.ChunkPageLimit)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.viewDoc != id {
		// The viewed document changed while this fetch was in flight.
		return nil, nil
	}
	s.chunks = chunks
	return chunks, nil
}
