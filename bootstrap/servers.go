package bootstrap

import (
	"net/http"
	"time"

	"scholar-retriever/config"
	"scholar-retriever/internal/auth"
	authmiddleware "scholar-retriever/internal/auth/middleware"
	"scholar-retriever/middleware"
	"scholar-retriever/rest"
	appOtel "scholar-retriever/utils/otel"
)

// newHTTPServer creates the REST HTTP server. Retrieval routes sit
// behind the auth middleware, the health probe does not.
func newHTTPServer(handler *rest.Handler, cfg *config.Config, otelCfg appOtel.Config) *http.Server {
	authClient := auth.NewClient(auth.Config{
		UserInfoEndpoint: cfg.Auth.UserInfoEndpoint,
		ServiceName:      otelCfg.ServiceName,
		ServiceSecret:    cfg.Auth.ServiceSecret,
		TokenTTL:         time.Hour,
	})
	authMw := authmiddleware.NewAuthMiddleware(authClient, cfg.Auth.ValidateToken)

	route := func(handlerFunc http.HandlerFunc, operationName string) http.Handler {
		h := authMw.RequireAuth(handlerFunc)
		if otelCfg.Enabled {
			h = middleware.OTelStatusHandler(h, operationName)
		}
		return h
	}

	mux := http.NewServeMux()
	mux.Handle("/retrieval", route(handler.Retrieval, "GET /retrieval"))
	mux.Handle("/retrieval/article_count", route(handler.ArticleCount, "GET /retrieval/article_count"))
	mux.Handle("/retrieval/article_listing", route(handler.ArticleListing, "GET /retrieval/article_listing"))
	mux.HandleFunc("/healthz", handler.Healthz)

	return &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}
}
