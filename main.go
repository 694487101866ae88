package main

import (
	"log"
	"net/http"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"smartTube/config"
	"smartTube/core"
	"smartTube/downloader"
	"smartTube/rag"
	"smartTube/server"
	"smartTube/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	if err := os.MkdirAll(cfg.DownloadDir, 0755); err != nil {
		log.Fatalf("failed to create download dir: %v", err)
	}

	if !cfg.HasValidAPI() {
		log.Printf("Warning: no API key configured, /chat and /analyze will fail until one is set")
	}

	cli := newOpenAIClient(cfg)
	store := storage.OpenStore(cfg, cli)
	log.Printf("Vector store initialized: %s", cfg.StoreKind)

	tracker := core.NewProgressTracker()
	videos := downloader.NewService(cfg.DownloadDir, cfg.YtdlpPath, tracker)
	pipeline := rag.NewPipeline(cli, store, cfg.ChatModel)

	srv := server.NewServer(videos, pipeline, tracker, cfg.SubtitleLang)
	mux := http.NewServeMux()
	srv.Routes(mux)

	addr := ":8000"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}
	log.Printf("Server listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}

func newOpenAIClient(cfg *config.Config) *openai.Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientConfig)
}
