// Package main is the Kensho CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kensho/internal/cache"
	"github.com/hyperjump/kensho/internal/config"
	"github.com/hyperjump/kensho/internal/factcheck"
	"github.com/hyperjump/kensho/internal/fetch"
	"github.com/hyperjump/kensho/internal/graph"
	"github.com/hyperjump/kensho/internal/models"
	"github.com/hyperjump/kensho/internal/server"
	"github.com/hyperjump/kensho/internal/signals"
	"github.com/hyperjump/kensho/internal/storage"
	"github.com/hyperjump/kensho/internal/timeline"
	"github.com/hyperjump/kensho/internal/verify"
	"github.com/hyperjump/kensho/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/kensho/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "verify":
		runVerify()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("kensho version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (collector outcomes, cache traffic, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	// Policy edits on disk take effect without a restart.
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	watcher := config.NewWatcher(resolvedConfigPath, logger, func(next *config.Config) {
		collectors := buildCollectors(next, components.Verdicts, components.Fetcher, logger)
		components.Engine.Update(next.Verify, collectors)
	})
	if err := watcher.Start(watchCtx); err != nil {
		logger.Warn("config watch disabled", zap.Error(err))
	}

	srv := server.NewServer(
		components.Engine,
		components.Graph,
		components.Timeline,
		components.Verdicts,
		&cfg.Server,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runVerify() {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = run the pipeline in-process)")
	title := fs.String("title", "", "article title")
	content := fs.String("content", "", "article body text")
	source := fs.String("source", "", "source name or domain")
	articleURL := fs.String("url", "", "article URL")
	imageURL := fs.String("image-url", "", "lead image URL")
	_ = fs.Parse(os.Args[2:])

	if *title == "" && *content == "" {
		fmt.Println("Usage: kensho verify --title <title> [--content ... --source ... --url ... --image-url ...]")
		os.Exit(1)
	}

	article := &models.Article{
		Title:    *title,
		Content:  *content,
		Source:   *source,
		URL:      *articleURL,
		ImageURL: *imageURL,
	}

	var verification *models.ArticleVerification
	if *serverURL != "" {
		v, err := verifyViaHTTP(*serverURL, article)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Verification failed: %v\n", err)
			os.Exit(1)
		}
		verification = v
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		logger, err := utils.NewLogger(cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()

		components, err := initializeComponents(cfg, logger)
		if err != nil {
			logger.Fatal("Failed to initialize", zap.Error(err))
		}
		defer components.Close()

		verification, err = components.Engine.Verify(context.Background(), article)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Verification failed: %v\n", err)
			os.Exit(1)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(verification); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func verifyViaHTTP(serverURL string, article *models.Article) (*models.ArticleVerification, error) {
	body, err := json.Marshal(article)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/verify", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var verification models.ArticleVerification
	if err := json.NewDecoder(resp.Body).Decode(&verification); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &verification, nil
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Get(*serverURL + "/api/v1/status")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "Server returned %d: %s\n", resp.StatusCode, string(b))
		os.Exit(1)
	}

	var status struct {
		Sources       int     `json:"sources"`
		CitationEdges int     `json:"citation_edges"`
		Claims        int     `json:"claims"`
		Flagged       int     `json:"flagged"`
		Verdicts      *uint64 `json:"verdicts,omitempty"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
		os.Exit(1)
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("sources:         %d   # distinct sources in the citation graph\n", status.Sources)
		fmt.Printf("citation_edges:  %d   # recorded citations\n", status.CitationEdges)
		fmt.Printf("claims:          %d   # claims on the timeline\n", status.Claims)
		fmt.Printf("flagged:         %d   # entries in the flagged-item log\n", status.Flagged)
		if status.Verdicts != nil {
			fmt.Printf("verdicts:        %d   # recorded fact-check verdicts\n", *status.Verdicts)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

// Components holds initialized services.
type Components struct {
	Repository storage.Repository
	Graph      *graph.Graph
	Timeline   *timeline.Timeline
	Verdicts   *factcheck.Index
	Fetcher    fetch.Fetcher
	Engine     *verify.Engine
}

func (c *Components) Close() {
	if c.Verdicts != nil {
		_ = c.Verdicts.Close()
	}
	if c.Repository != nil {
		_ = c.Repository.Close()
	}
}

func buildCollectors(cfg *config.Config, verdicts *factcheck.Index, fetcher fetch.Fetcher, logger *zap.Logger) []signals.Collector {
	var index signals.VerdictSearcher
	if verdicts != nil {
		index = verdicts
	}
	return []signals.Collector{
		signals.NewOfficialSource(cfg.Policy, fetcher, logger),
		signals.NewFactChecker(cfg.Policy, index, fetcher, logger),
		signals.NewCredibility(cfg.Policy),
		signals.NewTemporal(),
		signals.NewImage(cfg.Policy),
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	ctx := context.Background()

	var repo storage.Repository
	var err error
	switch cfg.Storage.Backend {
	case "file":
		repo, err = storage.NewFileRepository(cfg.Storage.GraphPath, cfg.Storage.TimelinePath)
	default:
		repo, err = storage.NewSQLiteRepository(cfg.Storage.DatabasePath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	g, err := graph.NewGraph(ctx, repo, cfg.Graph, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize citation graph: %w", err)
	}

	detector, err := timeline.DetectorFromConfig(cfg.Policy, cfg.Timeline)
	if err != nil {
		return nil, fmt.Errorf("failed to build contradiction detector: %w", err)
	}
	tl, err := timeline.NewTimeline(ctx, repo, cfg.Timeline, detector, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize claim timeline: %w", err)
	}

	verdicts, err := factcheck.NewIndex(cfg.Storage.FactIndexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize verdict index: %w", err)
	}

	memCache := cache.NewMemoryCache(cfg.Cache.MaxEntries)
	var resultCache cache.Cache = memCache
	if cfg.Cache.RedisAddr != "" {
		resultCache = cache.NewRedisCache(cfg.Cache.RedisAddr, memCache, logger)
	}

	var fetcher fetch.Fetcher
	if cfg.Fetch.Enabled {
		fetcher = fetch.NewHTTPFetcher(cfg.Fetch, logger)
	}

	collectors := buildCollectors(cfg, verdicts, fetcher, logger)
	engine := verify.NewEngine(cfg.Verify, cfg.Cache, collectors, resultCache, logger)

	return &Components{
		Repository: repo,
		Graph:      g,
		Timeline:   tl,
		Verdicts:   verdicts,
		Fetcher:    fetcher,
		Engine:     engine,
	}, nil
}

func printUsage() {
	fmt.Println(`kensho - Trust and verification scoring for news articles

Usage:
  kensho server [flags]           Start the HTTP server
  kensho verify [flags]           Verify a single article
  kensho status [flags]           Show engine status
  kensho version                  Show version
  kensho help                     Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/kensho/config.yaml)
  --debug            Enable debug logging (collector outcomes, cache traffic, etc.)

Verify Flags:
  --config string    Config file path (for in-process mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") to run the pipeline in-process.
  --title string     Article title
  --content string   Article body text
  --source string    Source name or domain
  --url string       Article URL
  --image-url string Lead image URL

Status Flags:
  --server string    Server URL (default: http://localhost:8080)
  --output string    Output format: text or json (default: text)

Examples:
  kensho server
  kensho verify --title "RBI holds repo rate" --source reuters --url https://reuters.com/a
  kensho verify --server "" --title "Viral claim" --source someblog.example
  kensho status --output json`)
}
