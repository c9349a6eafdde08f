package client

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLoader struct {
	view  View
	calls int
	ctx   context.Context
}

func (l *countingLoader) Load(ctx context.Context) View {
	l.calls++
	l.ctx = ctx
	return l.view
}

// blockingLoader holds Load until release is closed.
type blockingLoader struct {
	started chan struct{}
	release chan struct{}
	view    View
}

func (l *blockingLoader) Load(ctx context.Context) View {
	close(l.started)
	select {
	case <-l.release:
		return l.view
	case <-ctx.Done():
		return View{State: StateError, Message: ErrorMessage, Err: ctx.Err()}
	}
}

func TestBoardOneLoadPerView(t *testing.T) {
	loader := &countingLoader{view: View{State: StateEmpty, Message: EmptyMessage}}
	router := NewBoardRouter(loader, NewRenderer(DefaultTiers()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, loader.calls)
	assert.NotNil(t, loader.ctx)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), EmptyMessage)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(rec.Body.String()), "</html>"))
}

func TestBoardErrorViewHidesLoading(t *testing.T) {
	loader := &countingLoader{view: View{State: StateError, Message: ErrorMessage}}
	router := NewBoardRouter(loader, NewRenderer(DefaultTiers()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	body := rec.Body.String()
	loading := strings.Index(body, `id="loading"`)
	hide := strings.Index(body, hideLoading)
	errView := strings.Index(body, `data-state="error"`)
	require.True(t, loading >= 0 && hide >= 0 && errView >= 0)
	assert.Less(t, loading, hide)
	assert.Less(t, hide, errView)
	assert.NotContains(t, body, `data-state="empty"`)
	assert.NotContains(t, body, `data-state="loaded"`)
}

func TestBoardStreamsLoadingWhileLoadPending(t *testing.T) {
	loader := &blockingLoader{
		started: make(chan struct{}),
		release: make(chan struct{}),
		view:    View{State: StateEmpty, Message: EmptyMessage},
	}
	srv := httptest.NewServer(NewBoardRouter(loader, NewRenderer(DefaultTiers())))
	defer srv.Close()
	defer func() {
		select {
		case <-loader.release:
		default:
			close(loader.release)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/", nil)
	require.NoError(t, err)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err, "headers must arrive before the load settles")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	select {
	case <-loader.started:
	case <-ctx.Done():
		t.Fatal("load never started")
	}

	reader := bufio.NewReader(resp.Body)
	var shell strings.Builder
	for !strings.Contains(shell.String(), `id="loading"`) {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		shell.WriteString(line)
	}
	assert.Contains(t, shell.String(), "Loading leaderboard")
	assert.NotContains(t, shell.String(), EmptyMessage)

	close(loader.release)
	rest, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Contains(t, string(rest), hideLoading)
	assert.Contains(t, string(rest), EmptyMessage)
	assert.Contains(t, string(rest), "</html>")
}

func TestBoardAgainstAPI(t *testing.T) {
	api, hits := newAPI(t, http.StatusInternalServerError, `{"error":"boom"}`)
	router := NewBoardRouter(api, NewRenderer(DefaultTiers()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	body := rec.Body.String()
	assert.EqualValues(t, 1, hits.Load())
	assert.Contains(t, body, "Error Loading Data!")
	assert.Contains(t, body, hideLoading)
	assert.NotContains(t, body, EmptyMessage)
}
