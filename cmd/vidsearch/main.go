package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/asrvd/video-indexing-and-search/internal/ai"
	"github.com/asrvd/video-indexing-and-search/internal/config"
	"github.com/asrvd/video-indexing-and-search/internal/db"
	"github.com/asrvd/video-indexing-and-search/internal/embedcache"
	"github.com/asrvd/video-indexing-and-search/internal/filestore"
	"github.com/asrvd/video-indexing-and-search/internal/handler"
	"github.com/asrvd/video-indexing-and-search/internal/job"
	"github.com/asrvd/video-indexing-and-search/internal/middleware"
	"github.com/asrvd/video-indexing-and-search/internal/repo"
	"github.com/asrvd/video-indexing-and-search/internal/schedule"
	"github.com/asrvd/video-indexing-and-search/internal/service"
	"github.com/asrvd/video-indexing-and-search/internal/store"
	"github.com/asrvd/video-indexing-and-search/internal/transcript"
)

func main() {
	_ = godotenv.Load()

	var configPath string

	rootCmd := &cobra.Command{
		Use:   "vidsearch",
		Short: "index video transcripts and search them semantically",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "run the http api server",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(configPath)
			if err != nil {
				return err
			}
			defer app.close()
			return runServer(app)
		},
	}

	var indexTitle string
	indexCmd := &cobra.Command{
		Use:   "index <video-url>",
		Short: "index a single video transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(configPath)
			if err != nil {
				return err
			}
			defer app.close()
			videoID, err := transcript.ExtractVideoID(args[0])
			if err != nil {
				return err
			}
			summary, err := app.indexService.IndexVideo(cmd.Context(), videoID, indexTitle)
			if err != nil {
				return err
			}
			fmt.Printf("indexed %s: %d chunks (%d stale removed)\n", summary.VideoID, summary.ChunkCount, summary.Removed)
			return nil
		},
	}
	indexCmd.Flags().StringVar(&indexTitle, "title", "", "video title to record")

	var topK int
	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "search indexed transcripts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(configPath)
			if err != nil {
				return err
			}
			defer app.close()
			query := strings.Join(args, " ")
			if topK <= 0 {
				topK = app.searchService.DefaultTopK()
			}
			results, err := app.searchService.Search(cmd.Context(), query, topK)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SCORE\tVIDEO\tSTART\tEND\tTEXT")
			for _, result := range results {
				fmt.Fprintf(w, "%.4f\t%s\t%s\t%s\t%s\n",
					result.Score, result.VideoID, result.StartFormatted, result.EndFormatted, result.Text)
			}
			return w.Flush()
		},
	}
	searchCmd.Flags().IntVar(&topK, "top-k", 0, "number of results to return")

	rootCmd.AddCommand(serveCmd, indexCmd, searchCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

type app struct {
	cfg           *config.Config
	conn          *sql.DB
	indexService  *service.IndexService
	searchService *service.SearchService
	videoRepo     *repo.VideoRepo
	vectors       store.VectorStore
}

func (a *app) close() {
	if a.conn != nil {
		_ = a.conn.Close()
	}
}

func setup(configPath string) (*app, error) {
	if configPath == "" {
		return nil, fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		cfg.LogConfig.Console,
	)
	logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

	conn, err := db.Open(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.ApplyMigrations(conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	embedder, err := buildEmbedder(cfg.Embedding)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	fetcher, err := transcript.New(cfg.Transcript.Provider, cfg.Transcript.Data)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("init transcript provider: %w", err)
	}
	var archive filestore.Store
	if cfg.Archive.Enable {
		archive, err = filestore.New(cfg.Archive)
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("init transcript archive: %w", err)
		}
	}

	vectors := store.NewPgVectorStore(conn)
	videoRepo := repo.NewVideoRepo(conn)
	indexService := service.NewIndexService(fetcher, embedder, vectors, videoRepo, archive, cfg.Index.ChunkSize, cfg.Index.Workers)
	searchService := service.NewSearchService(embedder, vectors, cfg.Search.DefaultTopK)

	return &app{
		cfg:           cfg,
		conn:          conn,
		indexService:  indexService,
		searchService: searchService,
		videoRepo:     videoRepo,
		vectors:       vectors,
	}, nil
}

func buildEmbedder(cfg config.EmbeddingConfig) (ai.IEmbedder, error) {
	provider, err := ai.NewProvider(cfg.Provider, cfg.Data)
	if err != nil {
		return nil, fmt.Errorf("init embedding provider: %w", err)
	}
	embedder := ai.NewEmbedder(provider, cfg.Model)
	embedder = ai.WrapRetryToEmbedder(
		embedder,
		cfg.MaxRetries,
		time.Duration(cfg.TimeoutSeconds)*time.Second,
		500*time.Millisecond,
	)
	if cfg.CacheSize > 0 {
		embedder = embedcache.WrapLruCacheToEmbedder(
			embedder,
			cfg.CacheSize,
			time.Duration(cfg.CacheTTLMinutes)*time.Minute,
		)
	}
	return embedder, nil
}

func runServer(a *app) error {
	cfg := a.cfg
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("embedding_provider", cfg.Embedding.Provider),
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.String("transcript_provider", cfg.Transcript.Provider),
	)

	deps := handler.RouterDeps{
		Videos:          handler.NewVideoHandler(a.indexService),
		Search:          handler.NewSearchHandler(a.searchService),
		RateLimitWindow: time.Duration(cfg.RateLimitSeconds) * time.Second,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(cfg.CORSAllowlist),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var scheduler *schedule.CronScheduler
	if cfg.Cleanup.Enable {
		scheduler = schedule.NewCronScheduler()
		cleanup := job.NewStaleChunkCleanupJob(a.videoRepo, a.vectors)
		if err := scheduler.AddJob(cleanup, cfg.Cleanup.Schedule); err != nil {
			return fmt.Errorf("schedule cleanup job: %w", err)
		}
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
