package httpapi

import "net/http"

func registerRoutes(mux *http.ServeMux, handler *Handler, cfg RouterConfig) {
	mux.HandleFunc("GET /healthz", handler.Healthz)

	mux.HandleFunc("GET /v1/digests/{scope}", handler.ListDigestWeeks)
	// The literal segment wins over {week}, so /latest never shadows a
	// numeric week.
	mux.HandleFunc("GET /v1/digests/{scope}/latest", handler.GetLatestDigest)
	mux.HandleFunc("GET /v1/digests/{scope}/{week}", handler.GetDigestByWeek)

	guard := func(h http.HandlerFunc) http.Handler {
		return RequireInternalJobToken(cfg.InternalJobToken, h)
	}
	mux.Handle("POST /v1/internal/digests/generate", guard(handler.GenerateDigests))
	mux.Handle("GET /v1/internal/digests/runs", guard(handler.ListGenerationRuns))

	if cfg.SwaggerEnabled {
		mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
		mux.HandleFunc("GET /docs", handler.SwaggerUI)
		mux.HandleFunc("GET /docs/", handler.SwaggerUI)
	}
}
