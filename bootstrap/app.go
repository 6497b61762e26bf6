package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"scholar-retriever/config"
	"scholar-retriever/driver/rediscache"
	"scholar-retriever/gateway"
	"scholar-retriever/hierarchy"
	"scholar-retriever/logger"
	"scholar-retriever/port"
	"scholar-retriever/rest"
	"scholar-retriever/usecase"
	appOtel "scholar-retriever/utils/otel"
)

// App holds all components of the retrieval service.
type App struct {
	httpServer   *http.Server
	cache        *rediscache.Cache
	otelShutdown appOtel.ShutdownFunc
}

// Run initializes all components and starts the service.
// It blocks until ctx is cancelled, then performs graceful shutdown.
func Run(ctx context.Context) error {
	// ── OpenTelemetry ──
	otelCfg := appOtel.ConfigFromEnv()
	otelShutdown, err := appOtel.InitProvider(ctx, otelCfg)
	if err != nil {
		fmt.Printf("Failed to initialize OpenTelemetry: %v\n", err)
		otelCfg.Enabled = false
		otelShutdown = func(context.Context) error { return nil }
	}

	// ── Logger ──
	logger.InitWithOTel(otelCfg.Enabled)
	logger.L().Info("Starting scholar-retriever",
		"service", otelCfg.ServiceName,
		"otel_enabled", otelCfg.Enabled,
	)

	// ── Load config ──
	appCfg, err := config.Load()
	if err != nil {
		logger.L().Error("Failed to load config", "err", err)
		return err
	}

	// ── Drivers (infrastructure layer) ──
	storeClient, err := initStoreClient(ctx, appCfg)
	if err != nil {
		logger.L().Error("Failed to initialize document store", "err", err)
		return err
	}

	cache, metadataCache := initMetadataCache(ctx, appCfg)
	rerankDriver := initRerankDriver(appCfg)

	// ── Gateways (anti-corruption layer) ──
	store := gateway.NewDocumentStoreGateway(storeClient)

	if err := store.EnsureParagraphsIndex(ctx, appCfg.Store.IndexParagraphs); err != nil {
		logger.L().Error("Failed to ensure paragraphs index", "err", err)
		return err
	}

	var reranker port.Reranker
	if rerankDriver != nil {
		reranker = gateway.NewRerankerGateway(rerankDriver)
	}

	var citations gateway.CitationDriver
	var journals gateway.JournalDriver
	if citationClient, journalClient := initMetadataDrivers(appCfg); citationClient != nil {
		citations, journals = citationClient, journalClient
	}
	metadata := gateway.NewMetadataGateway(
		store,
		citations,
		journals,
		metadataCache,
		appCfg.Metadata.ExternalAPIs,
		appCfg.Store.IndexParagraphs,
		appCfg.Store.IndexJournals,
	)

	// ── Region hierarchy ──
	resolver := hierarchy.NewResolver(appCfg.Retrieval.HierarchyFile)

	// ── Use cases (application layer) ──
	fuse := usecase.NewFuseMetadataUsecase(metadata)
	retrieve := usecase.NewRetrieveParagraphsUsecase(
		usecase.NewRetrieveContextsUsecase(store, appCfg.Store.IndexParagraphs, appCfg.Retrieval.MaxLength),
		usecase.NewRerankContextsUsecase(reranker),
		fuse,
	)
	count := usecase.NewArticleCountUsecase(store, resolver, appCfg.Store.IndexParagraphs)
	listing := usecase.NewArticleListingUsecase(store, fuse, resolver, appCfg.Store.IndexParagraphs)

	handler := rest.NewHandler(retrieve, count, listing, appCfg.Retrieval.QueryMaxSize)

	// ── Server ──
	app := &App{
		httpServer:   newHTTPServer(handler, appCfg, otelCfg),
		cache:        cache,
		otelShutdown: otelShutdown,
	}

	go func() {
		logger.L().Info("http listen", "addr", appCfg.HTTP.Addr)
		if err := app.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.L().Error("http", "err", err)
		}
	}()

	// ── Wait for shutdown signal ──
	<-ctx.Done()
	app.shutdown()
	return nil
}

// shutdown performs graceful shutdown of all components.
func (a *App) shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.L().Error("http shutdown error", "err", err)
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.L().Error("cache close error", "err", err)
		}
	}

	otelCtx, otelCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer otelCancel()
	if err := a.otelShutdown(otelCtx); err != nil {
		fmt.Printf("Failed to shutdown OpenTelemetry: %v\n", err)
	}
}
