package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mentorai/mentor/db"
	"github.com/mentorai/mentor/internal/chunk"
	"github.com/mentorai/mentor/internal/config"
	"github.com/mentorai/mentor/internal/embed"
	"github.com/mentorai/mentor/internal/mail"
	"github.com/mentorai/mentor/internal/rag"
	"github.com/mentorai/mentor/internal/tools"
	"github.com/mentorai/mentor/internal/vecstore"
)

// Setup initializes all application components in dependency order.
func Setup(ctx context.Context, cfg *config.Config) (_ *App, retErr error) {
	if cfg == nil {
		return nil, config.ErrConfigNil
	}

	a := &App{Config: cfg}

	// On error, clean up everything already initialized
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				slog.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	pool, err := provideDBPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.DBPool = pool

	g, err := provideGenkit(ctx)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	embedder := googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	if embedder == nil {
		return nil, fmt.Errorf("embedder %q not found for provider %q", cfg.EmbedderModel, cfg.Provider)
	}
	a.Embedder = embedder

	if err := provideRAG(a, embedder); err != nil {
		return nil, err
	}

	inbox, err := provideMail(cfg)
	if err != nil {
		return nil, err
	}
	a.Mail = inbox

	registered, err := tools.Register(g, tools.Deps{
		Retriever: a.Retriever,
		Answerer:  a.Answerer,
		Inbox:     inbox,
		ModelName: cfg.FullModelName(),
		Logger:    slog.Default(),
	})
	if err != nil {
		return nil, fmt.Errorf("registering tools: %w", err)
	}
	a.Tools = registered
	slog.Info("tools registered", "count", registered.Count())

	_, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	return a, nil
}

// provideDBPool runs migrations and creates the PostgreSQL connection pool.
func provideDBPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if err := db.Migrate(cfg.PostgresURL(), slog.Default()); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Fail fast if the database is unreachable
	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}

// provideGenkit initializes Genkit with the Google AI plugin.
// GEMINI_API_KEY is read by the plugin from the environment.
func provideGenkit(ctx context.Context) (*genkit.Genkit, error) {
	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	if g == nil {
		return nil, fmt.Errorf("failed to initialize Genkit")
	}
	return g, nil
}

// provideRAG builds the indexing and retrieval pipeline over pgvector.
func provideRAG(a *App, embedder ai.Embedder) error {
	logger := slog.Default()

	embedSvc, err := embed.New(embedder, logger)
	if err != nil {
		return fmt.Errorf("creating embedding service: %w", err)
	}

	index, err := vecstore.NewPostgresIndex(a.DBPool, logger)
	if err != nil {
		return fmt.Errorf("creating vector index: %w", err)
	}

	chunker, err := chunk.New(a.Config.ChunkSize, a.Config.ChunkOverlap)
	if err != nil {
		return fmt.Errorf("creating chunker: %w", err)
	}

	a.Indexer, err = rag.NewIndexer(chunker, embedSvc, index, logger)
	if err != nil {
		return fmt.Errorf("creating indexer: %w", err)
	}
	a.Retriever, err = rag.NewRetriever(embedSvc, index, a.Config.RAGTopK, logger)
	if err != nil {
		return fmt.Errorf("creating retriever: %w", err)
	}
	a.Answerer, err = rag.NewAnswerer(a.Genkit, a.Config.FullModelName(), logger)
	if err != nil {
		return fmt.Errorf("creating answerer: %w", err)
	}

	return nil
}

// provideMail creates the Gmail client. The credential files may not exist
// yet; the email tools surface that to the student at call time.
func provideMail(cfg *config.Config) (*mail.Client, error) {
	tokens, err := mail.NewFileTokenProvider(cfg.GmailCredentialsFile, cfg.GmailTokenFile)
	if err != nil {
		return nil, fmt.Errorf("creating Gmail token provider: %w", err)
	}
	client, err := mail.NewClient(tokens, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("creating Gmail client: %w", err)
	}
	return client, nil
}
