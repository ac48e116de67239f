package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lookalike/internal/catalog"
	"lookalike/internal/web/handlers"
)

func (s *Server) setupRoutes(matcher handlers.Matcher, cat *catalog.Catalog, maxImageEdge int) {
	matchHandler := handlers.NewMatchHandler(matcher, maxImageEdge)
	charactersHandler := handlers.NewCharactersHandler(cat)

	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/match", matchHandler.Match)
		r.Get("/characters", charactersHandler.List)
	})

	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Get("/", s.serveIndex)
}

// serveIndex serves a minimal upload page so the API is usable without a
// separate frontend build.
func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>Lookalike</title>
    <style>
        body { font-family: system-ui, sans-serif; display: flex; justify-content: center; align-items: center; height: 100vh; margin: 0; background: #1a1a2e; color: #eee; }
        .container { text-align: center; }
        h1 { color: #00d9ff; }
        p { color: #aaa; }
        a { color: #00d9ff; }
        input, button { font-size: 1rem; margin-top: 1rem; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Lookalike</h1>
        <p>Upload a photo to find your most resembling character.</p>
        <form method="post" action="/api/v1/match" enctype="multipart/form-data">
            <input type="file" name="photo" accept="image/*" required>
            <button type="submit">Find my lookalike</button>
        </form>
        <p>API is available at <a href="/api/v1/health">/api/v1/health</a></p>
    </div>
</body>
</html>`))
}
