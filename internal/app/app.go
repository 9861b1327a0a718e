// Package app wires configuration, stores, the generation backend, and the
// HTTP surface into one runnable unit.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/artifact"
	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/config"
	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/handler"
	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/knowledge"
	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/llm"
	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/pipeline"
	"github.com/Yarok14Technologies/front-end-ASIC-design-LMM-tool-using-RAG/internal/server"
)

const (
	cleanupInterval = time.Hour
	tempMaxAge      = 24 * time.Hour
)

type App struct {
	server    *server.Server
	client    llm.Client
	knowledge knowledge.Store
	stopCh    chan struct{}
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := log.New(os.Stderr, "", log.LstdFlags)

	store, err := newKnowledgeStore(cfg.Knowledge, logger)
	if err != nil {
		return nil, err
	}
	if err := knowledge.Seed(ctx, store); err != nil {
		logger.Printf("knowledge seed: %v", err)
	}
	retriever := knowledge.NewRetriever(store, logger)

	client := newGenerationClient(ctx, cfg.Gemini, logger)

	artifacts, err := artifact.NewStore(cfg.Upload.Dir, cfg.Upload.MaxFileSize, logger)
	if err != nil {
		return nil, fmt.Errorf("artifact store: %w", err)
	}
	if cfg.Mirror.Enabled {
		mirror, err := artifact.NewMirror(ctx, artifact.MirrorConfig{
			Endpoint:  cfg.Mirror.Endpoint,
			AccessKey: cfg.Mirror.AccessKey,
			SecretKey: cfg.Mirror.SecretKey,
			Bucket:    cfg.Mirror.Bucket,
			UseSSL:    cfg.Mirror.UseSSL,
		})
		if err != nil {
			// The local tree stays authoritative; run without the mirror.
			logger.Printf("artifact mirror disabled: %v", err)
		} else {
			artifacts.AttachMirror(mirror)
		}
	}

	p := pipeline.New(retriever, client, artifacts, pipeline.NewStats(), pipeline.NewEventHub(), logger)
	if cfg.Knowledge.TopK > 0 {
		p.TopK = cfg.Knowledge.TopK
	}

	svc := handler.NewService(p, logger)
	srv := server.New(cfg.Port, server.NewMux(svc, logger))

	a := &App{server: srv, client: client, knowledge: store, stopCh: make(chan struct{})}
	go a.cleanupLoop(artifacts)
	return a, nil
}

func newKnowledgeStore(cfg config.KnowledgeConfig, logger *log.Logger) (knowledge.Store, error) {
	switch {
	case cfg.PostgresDSN != "":
		store, err := knowledge.NewPostgresStore(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("postgres knowledge store: %w", err)
		}
		logger.Printf("knowledge store: postgres")
		return store, nil
	case cfg.SQLitePath != "":
		store, err := knowledge.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite knowledge store: %w", err)
		}
		logger.Printf("knowledge store: sqlite (%s)", cfg.SQLitePath)
		return store, nil
	default:
		logger.Printf("knowledge store: in-memory (documents are lost on restart)")
		return knowledge.NewMemoryStore(), nil
	}
}

func newGenerationClient(ctx context.Context, cfg config.GeminiConfig, logger *log.Logger) llm.Client {
	gemini, err := llm.NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		logger.Printf("generation backend unavailable, serving fallback artifacts: %v", err)
		return llm.Unconfigured{}
	}
	return llm.Wrap(gemini,
		llm.WithLogging(logger),
		llm.RateLimit(2, 4),
	)
}

func (a *App) cleanupLoop(artifacts *artifact.Store) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			artifacts.Cleanup(tempMaxAge)
		case <-a.stopCh:
			return
		}
	}
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	close(a.stopCh)
	if err := a.client.Close(); err != nil {
		log.Printf("llm close: %v", err)
	}
	if err := a.knowledge.Close(); err != nil {
		log.Printf("knowledge store close: %v", err)
	}
	return a.server.Shutdown(ctx)
}
