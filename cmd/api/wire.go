package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"mynotes/internal/analysis"
	"mynotes/internal/database"
	"mynotes/internal/enrichment"
	"mynotes/internal/repository/postgres"
	"mynotes/internal/service"
	"mynotes/internal/storage"
)

// components are the collaborators shared by the serve and process-event commands.
type components struct {
	db        *sql.DB
	store     *storage.MinIOStorage
	processor *enrichment.FileProcessor
	notes     service.NoteService
	uploads   service.UploadService
}

func (c *components) Close() {
	if c.db != nil {
		_ = c.db.Close()
	}
}

func wire(ctx context.Context, reg prometheus.Registerer) (*components, error) {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	c := &components{db: db}

	store, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}
	c.store = store

	repo := postgres.NewNotePostgres(db)
	ai := analysis.NewOpenAIClient(cfg.Analysis)

	text := enrichment.NewTextEnricher(
		analysis.NewLinguaDetector(cfg.Analysis.DetectorLanguages),
		analysis.NewOpenAIEntityExtractor(ai, cfg.Analysis.EntityModel),
		cfg.Analysis.SupportedLanguages,
	)
	labeler := analysis.NewOpenAIImageLabeler(ai, cfg.Analysis.VisionModel, store)

	c.processor, err = enrichment.NewFileProcessor(repo, labeler, log, reg)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init file pipeline: %w", err)
	}

	c.notes = service.NewNoteService(repo, store, text, log)
	c.uploads = service.NewUploadService(repo, store, cfg.MinIO.UploadTTL(), cfg.MinIO.DownloadTTL())
	return c, nil
}
