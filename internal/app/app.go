// Package app provides application initialization and dependency wiring.
//
// App is the container that holds every long-lived component: the Genkit
// instance, the PostgreSQL pool, the RAG pipeline, the Gmail client and
// the registered assistant tools. Setup builds them in dependency order;
// Close releases them.
package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mentorai/mentor/internal/chat"
	"github.com/mentorai/mentor/internal/config"
	"github.com/mentorai/mentor/internal/mail"
	"github.com/mentorai/mentor/internal/rag"
	"github.com/mentorai/mentor/internal/tools"
)

// App is the core application container.
type App struct {
	Config *config.Config

	// Core services
	Genkit   *genkit.Genkit
	Embedder ai.Embedder
	DBPool   *pgxpool.Pool

	// RAG pipeline
	Indexer   *rag.Indexer
	Retriever *rag.Retriever
	Answerer  *rag.Answerer

	// Assistant collaborators
	Mail  *mail.Client
	Tools *tools.Registry

	// Lifecycle management
	cancel context.CancelFunc
}

// Close gracefully shuts down all resources. Safe to call on a partially
// initialized App.
func (a *App) Close() error {
	slog.Info("shutting down application")

	if a.cancel != nil {
		a.cancel()
	}

	if a.DBPool != nil {
		a.DBPool.Close()
		slog.Info("database pool closed")
	}

	return nil
}

// CreateAgent constructs the conversational agent over the registered
// tools. Requires a successful Setup.
func (a *App) CreateAgent() (*chat.Agent, error) {
	if a.Config == nil {
		return nil, errors.New("app is not initialized, call Setup first")
	}
	return chat.New(chat.Config{
		Genkit:             a.Genkit,
		Logger:             slog.Default(),
		Tools:              a.Tools.All(),
		ModelName:          a.Config.FullModelName(),
		MaxTurns:           a.Config.MaxTurns,
		MaxHistoryMessages: a.Config.MaxHistoryMessages,
	})
}
