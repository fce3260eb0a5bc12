// Package container provides dependency injection for the application.
// It centralizes the creation and wiring of all dependencies, making them
// explicit and testable.
package container

import (
	"fmt"
	"time"

	"hkim/sales-report/internal/classifier"
	"hkim/sales-report/internal/config"
	"hkim/sales-report/internal/logging"
	"hkim/sales-report/internal/pipeline"
	"hkim/sales-report/internal/report"
	"hkim/sales-report/internal/store"
)

// Container holds the wired application dependencies. Immutable after
// creation; components are reached through getters.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	store      *store.MappingStore
	aiClient   classifier.AIClient
	classifier *classifier.Classifier
	fallback   *classifier.FallbackAdapter
	pipeline   *pipeline.Pipeline
	generator  *report.Generator
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

	mappingStore := store.NewMappingStore(cfg.Data.MappingsFile, logger)
	overrides, err := mappingStore.Load()
	if err != nil {
		logger.WithError(err).Warn("Failed to load product mappings, starting empty")
		overrides = nil
	}

	var aiClient classifier.AIClient
	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		aiClient = classifier.NewGeminiClient(
			cfg.AI.APIKey,
			cfg.AI.Model,
			time.Duration(cfg.AI.TimeoutSeconds)*time.Second,
			logger,
		)
		logger.Info("AI fallback classification enabled")
	} else {
		logger.Info("AI fallback classification disabled")
	}

	cls := classifier.New(overrides, logger)
	fallback := classifier.NewFallbackAdapter(aiClient, logger)
	pipe := pipeline.New(cls, fallback, mappingStore, cfg.Data.AutoLearn, logger)

	return &Container{
		logger:     logger,
		config:     cfg,
		store:      mappingStore,
		aiClient:   aiClient,
		classifier: cls,
		fallback:   fallback,
		pipeline:   pipe,
		generator:  report.NewGenerator(logger),
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetClassifier returns the container's classifier instance.
func (c *Container) GetClassifier() *classifier.Classifier {
	return c.classifier
}

// GetStore returns the container's mapping store instance.
func (c *Container) GetStore() *store.MappingStore {
	return c.store
}

// GetAIClient returns the container's AI client. Nil when AI is disabled.
func (c *Container) GetAIClient() classifier.AIClient {
	return c.aiClient
}

// GetFallback returns the container's fallback classifier adapter.
func (c *Container) GetFallback() *classifier.FallbackAdapter {
	return c.fallback
}

// GetPipeline returns the container's report pipeline.
func (c *Container) GetPipeline() *pipeline.Pipeline {
	return c.pipeline
}

// GetGenerator returns the container's report generator.
func (c *Container) GetGenerator() *report.Generator {
	return c.generator
}
