package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tutor-cerdas-console/internal/docbackend"
	"tutor-cerdas-console/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

// fakeBackend counts requests per route so tests can assert on side effects
// like refresh-after-upload.
type fakeBackend struct {
	mu           sync.Mutex
	listCalls    int32
	uploadCalls  int32
	rebuildCalls int32

	listBody    string
	listStatus  int
	uploadBody  string
	uploadCode  int
	rebuildBody string
	rebuildCode int
	rebuildGate chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		listBody:    `{"items":[{"id":"d1","title":"Doc One","status":"embedded"}]}`,
		listStatus:  200,
		uploadBody:  `{"ok":true}`,
		uploadCode:  200,
		rebuildBody: `{"ok":true,"pages":2,"chunks":9}`,
		rebuildCode: 200,
	}
}

func (f *fakeBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		listBody, listStatus := f.listBody, f.listStatus
		uploadBody, uploadCode := f.uploadBody, f.uploadCode
		rebuildBody, rebuildCode := f.rebuildBody, f.rebuildCode
		gate := f.rebuildGate
		f.mu.Unlock()

		switch {
		case r.URL.Path == "/documents" && r.Method == http.MethodGet:
			atomic.AddInt32(&f.listCalls, 1)
			w.WriteHeader(listStatus)
			_, _ = w.Write([]byte(listBody))
		case r.URL.Path == "/documents/upload":
			atomic.AddInt32(&f.uploadCalls, 1)
			w.WriteHeader(uploadCode)
			_, _ = w.Write([]byte(uploadBody))
		case strings.HasPrefix(r.URL.Path, "/documents/rebuild/"):
			atomic.AddInt32(&f.rebuildCalls, 1)
			if gate != nil {
				<-gate
			}
			w.WriteHeader(rebuildCode)
			_, _ = w.Write([]byte(rebuildBody))
		default:
			w.WriteHeader(404)
			_, _ = w.Write([]byte(`{"error":"not found"}`))
		}
	})
}

func newAdminService(t *testing.T, backend *fakeBackend) IAdminWorkflowService {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)
	return NewAdminWorkflowService(docbackend.New(srv.URL), noopLogger{})
}

func TestRefreshKeepsStaleListOnFailure(t *testing.T) {
	backend := newFakeBackend()
	svc := newAdminService(t, backend)

	docs, err := svc.Refresh(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, docs, 1)

	backend.mu.Lock()
	backend.listStatus = 502
	backend.listBody = `{"error":"backend down"}`
	backend.mu.Unlock()

	stale, err := svc.Refresh(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, "backend down", err.Error())
	require.Len(t, stale, 1)
	assert.Equal(t, "Doc One", stale[0].Title)
	assert.Equal(t, stale, svc.Documents())
}

func TestUploadWithoutFileNeverHitsBackend(t *testing.T) {
	backend := newFakeBackend()
	svc := newAdminService(t, backend)

	err := svc.Upload(context.Background(), "", "title", "f.pdf", nil)
	assert.ErrorIs(t, err, ErrNoFile)
	assert.Equal(t, int32(0), atomic.LoadInt32(&backend.uploadCalls))
	assert.Equal(t, int32(0), atomic.LoadInt32(&backend.listCalls))
}

func TestUploadSuccessRefreshesListOnce(t *testing.T) {
	backend := newFakeBackend()
	svc := newAdminService(t, backend)

	err := svc.Upload(context.Background(), "", "title", "f.pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&backend.uploadCalls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&backend.listCalls))
	assert.Len(t, svc.Documents(), 1)
}

func TestUploadFailureLeavesListUntouched(t *testing.T) {
	backend := newFakeBackend()
	svc := newAdminService(t, backend)

	_, err := svc.Refresh(context.Background(), "")
	require.NoError(t, err)

	backend.mu.Lock()
	backend.uploadCode = 400
	backend.uploadBody = `{"error":"unsupported file type"}`
	backend.mu.Unlock()

	err = svc.Upload(context.Background(), "", "title", "f.exe", strings.NewReader("MZ"))
	require.Error(t, err)
	assert.Equal(t, "unsupported file type", err.Error())
	// Only the initial refresh; a failed upload must not trigger another.
	assert.Equal(t, int32(1), atomic.LoadInt32(&backend.listCalls))
	assert.Len(t, svc.Documents(), 1)
}

func TestRebuildIsSingleFlight(t *testing.T) {
	backend := newFakeBackend()
	gate := make(chan struct{})
	backend.rebuildGate = gate
	svc := newAdminService(t, backend)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Rebuild(context.Background(), "", "d1")
		done <- err
	}()

	// Wait for the first rebuild to be pending at the backend.
	assert.Eventually(t, func() bool {
		return svc.RebuildingId() == "d1"
	}, 2*time.Second, 10*time.Millisecond)

	_, err := svc.Rebuild(context.Background(), "", "d2")
	assert.ErrorIs(t, err, ErrRebuildInFlight)

	close(gate)
	require.NoError(t, <-done)
	assert.Equal(t, "", svc.RebuildingId())
	assert.Equal(t, int32(1), atomic.LoadInt32(&backend.rebuildCalls))
}

func TestRebuildRefreshesOnlyOnSuccess(t *testing.T) {
	backend := newFakeBackend()
	svc := newAdminService(t, backend)

	res, err := svc.Rebuild(context.Background(), "", "d1")
	require.NoError(t, err)
	require.NotNil(t, res.Pages)
	assert.Equal(t, 2, *res.Pages)
	assert.Equal(t, int32(1), atomic.LoadInt32(&backend.listCalls))

	backend.mu.Lock()
	backend.rebuildCode = 500
	backend.rebuildBody = `{"error":"embedding worker crashed"}`
	backend.mu.Unlock()

	_, err = svc.Rebuild(context.Background(), "", "d1")
	require.Error(t, err)
	assert.Equal(t, "embedding worker crashed", err.Error())
	assert.Equal(t, int32(1), atomic.LoadInt32(&backend.listCalls))
}

func TestViewChunksDiscardsStaleResponse(t *testing.T) {
	release := make(chan struct{})
	var slowStarted sync.Once
	started := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/documents/slow/chunks":
			slowStarted.Do(func() { close(started) })
			<-release
			_, _ = w.Write([]byte(`{"items":[{"id":"s1","chunk_index":0,"content":"stale"}]}`))
		case "/documents/fast/chunks":
			_, _ = w.Write([]byte(`{"items":[{"id":"f1","chunk_index":0,"content":"fresh"}]}`))
		default:
			w.WriteHeader(404)
		}
	}))
	defer srv.Close()

	svc := NewAdminWorkflowService(docbackend.New(srv.URL), noopLogger{})

	slowDone := make(chan []entity.Chunk, 1)
	go func() {
		chunks, _ := svc.ViewChunks(context.Background(), "", "slow")
		slowDone <- chunks
	}()
	<-started

	fresh, err := svc.ViewChunks(context.Background(), "", "fast")
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, "fresh", fresh[0].Content)

	close(release)
	assert.Nil(t, <-slowDone)
}
