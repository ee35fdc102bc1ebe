package docbackend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"tutor-cerdas-console/internal/entity"
)

// ChunkPageLimit caps a single chunk fetch.
const ChunkPageLimit = 200

// Client consumes the document-processing backend. Extraction, chunking and
// embedding are entirely the backend's business; the console only triggers
// and displays.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// APIError carries the backend's message with the status that produced it.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

type documentPayload struct {
	Id          string `json:"id"`
	Title       string `json:"title"`
	StoragePath string `json:"storage_path"`
	FilePath    string `json:"file_path"`
	Status      string `json:"status"`
	Pages       *int   `json:"pages"`
	Size        *int64 `json:"size"`
}

func (p documentPayload) toEntity() entity.Document {
	path := p.StoragePath
	if path == "" {
		path = p.FilePath
	}
	return entity.Document{
		Id:          p.Id,
		Title:       p.Title,
		StoragePath: path,
		Status:      entity.DocumentStatus(p.Status),
		Pages:       p.Pages,
		Size:        p.Size,
	}
}

type chunkPayload struct {
	Id         string `json:"id"`
	ChunkIndex int    `json:"chunk_index"`
	Content    string `json:"content"`
}

// RebuildResult reports what the indexer did. Counts are optional: some
// backends omit them and the caller shows a placeholder instead.
type RebuildResult struct {
	Pages  *int
	Chunks *int
}

func (c *Client) ListDocuments(ctx context.Context, accessToken string) ([]entity.Document, error) {
	var out struct {
		Items []documentPayload `json:"items"`
	}
	if err := c.get(ctx, "/documents", accessToken, &out); err != nil {
		return nil, err
	}
	docs := make([]entity.Document, 0, len(out.Items))
	for _, item := range out.Items {
		docs = append(docs, item.toEntity())
	}
	return docs, nil
}

// Upload submits the file as multipart form data. A 2xx response whose body
// says ok=false still counts as a failure.
func (c *Client) Upload(ctx context.Context, accessToken, title, filename string, file io.Reader) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	if title == "" {
		title = filename
	}
	if err := writer.WriteField("title", title); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/documents/upload", body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var out struct {
		Ok    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := c.roundTrip(req, accessToken, &out); err != nil {
		return err
	}
	if !out.Ok {
		msg := out.Error
		if msg == "" {
			msg = "upload rejected"
		}
		return &APIError{Status: http.StatusOK, Message: msg}
	}
	return nil
}

// Rebuild triggers server-side extract, chunk and embed for one document.
func (c *Client) Rebuild(ctx context.Context, accessToken, id string) (*RebuildResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/documents/rebuild/"+id, nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		Ok      bool `json:"ok"`
		Pages   *int `json:"pages"`
		Chunks  *int `json:"chunks"`
		NChunks *int `json:"n_chunks"`
	}
	if err := c.roundTrip(req, accessToken, &out); err != nil {
		return nil, err
	}
	chunks := out.Chunks
	if chunks == nil {
		chunks = out.NChunks
	}
	return &RebuildResult{Pages: out.Pages, Chunks: chunks}, nil
}

// Chunks fetches one bounded page of chunks for a document.
func (c *Client) Chunks(ctx context.Context, accessToken, id string, limit int) ([]entity.Chunk, error) {
	if limit <= 0 || limit > ChunkPageLimit {
		limit = ChunkPageLimit
	}
	var out struct {
		Items []chunkPayload `json:"items"`
	}
	path := fmt.Sprintf("/documents/%s/chunks?limit=%d", id, limit)
	if err := c.get(ctx, path, accessToken, &out); err != nil {
		return nil, err
	}
	chunks := make([]entity.Chunk, 0, len(out.Items))
	for _, item := range out.Items {
		chunks = append(chunks, entity.Chunk{
			Id:         item.Id,
			ChunkIndex: item.ChunkIndex,
			Content:    item.Content,
		})
	}
	return chunks, nil
}

func (c *Client) get(ctx context.Context, path, accessToken string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.roundTrip(req, accessToken, out)
}

// roundTrip implements the uniform decode-then-check pattern: read the body
// as text, attempt a structured decode, and surface errors with message
// priority error field > message field > raw text > "HTTP <status>". A
// non-success status is an error regardless of how the body decoded.
func (c *Client) roundTrip(req *http.Request, accessToken string, out interface{}) error {
	if c.baseURL == "" {
		return &APIError{Status: 0, Message: "document backend URL is not configured"}
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var probe struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	decodeErr := json.Unmarshal(raw, &probe)
	if len(raw) == 0 {
		decodeErr = nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			Status:  resp.StatusCode,
			Message: errorMessage(resp.StatusCode, raw, probe.Error, probe.Message, decodeErr),
		}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			// Undecodable success body: treat it as an opaque error payload
			// instead of crashing on it.
			return &APIError{
				Status:  resp.StatusCode,
				Message: errorMessage(resp.StatusCode, raw, "", "", err),
			}
		}
	}
	return nil
}

func errorMessage(status int, raw []byte, errField, msgField string, decodeErr error) string {
	if errField != "" {
		return errField
	}
	if msgField != "" {
		return msgField
	}
	if decodeErr != nil {
		if text := strings.TrimSpace(string(raw)); text != "" {
			return text
		}
	}
	return fmt.Sprintf("HTTP %d", status)
}
