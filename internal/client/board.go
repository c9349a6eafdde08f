package client

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

type Loader interface {
	Load(ctx context.Context) View
}

// NewBoardRouter serves the board. Every page view performs exactly one load,
// bound to the request context so a closed tab cancels it.
func NewBoardRouter(loader Loader, renderer *Renderer) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")

		// The loading view goes out before the load starts; the settled view
		// is appended to the same response once it completes.
		if err := renderer.RenderShell(w); err != nil {
			log.Printf("ERROR: Failed to render board shell: %v", err)
			return
		}
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}

		view := loader.Load(r.Context())
		if err := renderer.RenderSettled(w, view); err != nil {
			log.Printf("ERROR: Failed to render board (%s): %v", view.State, err)
		}
	})

	return r
}
