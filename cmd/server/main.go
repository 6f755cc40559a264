package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sebbdxia/OCR-developpement-interface/api"
	"github.com/sebbdxia/OCR-developpement-interface/internal/db"
	"github.com/sebbdxia/OCR-developpement-interface/internal/models"
	"github.com/sebbdxia/OCR-developpement-interface/internal/ocr"
	"github.com/sebbdxia/OCR-developpement-interface/internal/pipeline"
	"github.com/sebbdxia/OCR-developpement-interface/internal/storage"
)

func main() {
	// Optional .env for local development; real deployments use the
	// environment directly.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	config, err := loadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// Database connection pool. Missing database means extraction-only
	// mode: scans are processed but nothing is stored.
	var repo db.Repository
	if config.Database.URL != "" {
		pool, err := db.NewPool(ctx, config.Database.URL)
		if err != nil {
			log.Printf("Warning: Database not available: %v", err)
			log.Println("Running in extraction-only mode (no persistence)")
		} else {
			defer pool.Close()
			store := db.NewStore(pool)
			if err := store.EnsureSchema(ctx); err != nil {
				log.Fatalf("Failed to prepare database schema: %v", err)
			}
			repo = store
			log.Println("Database connection pool initialized")
		}
	} else {
		log.Println("No database configured - running in extraction-only mode")
	}

	// Invoice scan source.
	var source storage.Source
	var uploader api.Uploader
	switch config.Storage.Backend {
	case "minio":
		store, err := storage.NewObjectStore(config.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize object storage: %v", err)
		}
		source = store
		uploader = store
		log.Printf("Object storage source initialized (bucket %s)", config.Storage.Bucket)
	case "local":
		dir, err := storage.NewLocalDir(config.Storage.Path)
		if err != nil {
			log.Fatalf("Failed to initialize local scan directory: %v", err)
		}
		source = dir
		log.Printf("Local scan source initialized (%s)", config.Storage.Path)
	default:
		log.Fatalf("Unknown storage backend: %q (use \"minio\" or \"local\")", config.Storage.Backend)
	}

	// OCR engine.
	engine, err := newEngine(ctx, config.OCR)
	if err != nil {
		log.Fatalf("Failed to initialize OCR engine: %v", err)
	}
	// The Gemini engine holds an API client that wants releasing.
	if closer, ok := engine.(io.Closer); ok {
		defer closer.Close()
	}

	driver := pipeline.NewDriver(source, engine, repo,
		time.Duration(config.OCR.TimeoutSeconds)*time.Second)

	handler := api.NewHandler(config, driver, repo, uploader)
	router := handler.SetupRoutes()

	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	log.Printf("Starting Invoice OCR Pipeline v%s on %s", api.Version, addr)
	log.Printf("OCR Engine: %s", config.OCR.Engine)
	log.Printf("Storage backend: %s", config.Storage.Backend)
	log.Printf("Database: %v", repo != nil)
	log.Printf("Endpoints:")
	log.Printf("  GET  http://%s/api/health        - Health check", addr)
	log.Printf("  POST http://%s/api/process       - Process all scans in source", addr)
	log.Printf("  GET  http://%s/api/invoices      - List processed invoices", addr)
	log.Printf("  GET  http://%s/api/invoices/{id} - Get single invoice", addr)
	log.Printf("  POST http://%s/api/upload        - Upload a scan to the source", addr)

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// newEngine builds the configured OCR engine.
func newEngine(ctx context.Context, cfg models.OCRConfig) (ocr.Engine, error) {
	switch cfg.Engine {
	case "", "tesseract":
		engine := ocr.NewTesseract(cfg.Language)
		if !engine.Available() {
			return nil, fmt.Errorf("tesseract binary not found on PATH")
		}
		return engine, nil
	case "openai":
		return ocr.NewOpenAIVision(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model)
	case "gemini":
		return ocr.NewGeminiVision(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	default:
		return nil, fmt.Errorf("unsupported OCR engine: %s", cfg.Engine)
	}
}

func loadConfig(path string) (*models.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config models.Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables if present. Credentials should
	// come from here rather than the config file.
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Port = p
		}
	}
	if host := os.Getenv("HOST"); host != "" {
		config.Host = host
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		config.Database.URL = url
	}
	if backend := os.Getenv("STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = backend
	}
	if endpoint := os.Getenv("MINIO_ENDPOINT"); endpoint != "" {
		config.Storage.Endpoint = endpoint
	}
	if accessKey := os.Getenv("MINIO_ACCESS_KEY"); accessKey != "" {
		config.Storage.AccessKey = accessKey
	}
	if secretKey := os.Getenv("MINIO_SECRET_KEY"); secretKey != "" {
		config.Storage.SecretKey = secretKey
	}
	if bucket := os.Getenv("MINIO_BUCKET"); bucket != "" {
		config.Storage.Bucket = bucket
	}
	if path := os.Getenv("SCAN_DIR"); path != "" {
		config.Storage.Path = path
	}
	if engine := os.Getenv("OCR_ENGINE"); engine != "" {
		config.OCR.Engine = engine
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.OCR.OpenAI.APIKey = apiKey
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.OCR.OpenAI.BaseURL = baseURL
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.OCR.Gemini.APIKey = apiKey
	}

	return &config, nil
}
