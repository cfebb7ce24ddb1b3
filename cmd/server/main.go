package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/kdimtricp/formcheck/internal/ai"
	"github.com/kdimtricp/formcheck/internal/api"
	"github.com/kdimtricp/formcheck/internal/database"
	"github.com/kdimtricp/formcheck/internal/session"
	"github.com/kdimtricp/formcheck/internal/storage"
	"github.com/kdimtricp/formcheck/internal/store"
)

func main() {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	maxUploadSize := os.Getenv("MAX_UPLOAD_SIZE")
	if maxUploadSize == "" {
		maxUploadSize = "104857600"
	}
	maxSize, err := strconv.ParseInt(maxUploadSize, 10, 64)
	if err != nil {
		log.Fatal("Invalid MAX_UPLOAD_SIZE:", err)
	}

	mediaDir := os.Getenv("MEDIA_DIR")
	if mediaDir == "" {
		mediaDir = "./media"
	}

	// Database configuration
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}

	var dbConfig database.Config
	dbConfig.Type = dbType

	if dbType == "postgres" {
		dbConfig.Host = getEnv("DB_HOST", "localhost")

		dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
		if err != nil {
			log.Fatal("Invalid DB_PORT:", err)
		}
		dbConfig.Port = dbPort

		dbConfig.User = getEnv("DB_USER", "formcheck")
		dbConfig.Password = getEnv("DB_PASSWORD", "formcheck_dev")
		dbConfig.Name = getEnv("DB_NAME", "formcheck")
	} else {
		dbConfig.SQLitePath = getEnv("DB_PATH", "./formcheck.db")
	}

	db, err := database.NewDB(dbConfig)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	blobs, err := storage.NewLocalStorage(mediaDir)
	if err != nil {
		log.Fatal("Failed to initialize media storage:", err)
	}

	// A missing key degrades to capture-only mode, not a startup failure.
	inference := ai.NewGeminiClient(os.Getenv("GEMINI_API_KEY"))
	if inference.Available() {
		log.Printf("Gemini analysis enabled (model %s)", getEnv("GEMINI_MODEL", ai.DefaultModel))
	} else {
		log.Printf("Gemini analysis disabled (no GEMINI_API_KEY), running capture-only")
	}

	controller := session.NewController(
		store.NewDurableStore(database.NewMediaRepo(db), blobs),
		inference,
		session.Config{Model: os.Getenv("GEMINI_MODEL")},
	)

	loadCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := controller.Load(loadCtx); err != nil {
		log.Printf("Failed to restore records from store: %v", err)
	}
	cancel()

	app := &api.App{
		Controller:    controller,
		MaxUploadSize: maxSize,
	}

	log.Printf("Starting server on port %s", port)
	if err := http.ListenAndServe(":"+port, api.NewRouter(app)); err != nil {
		log.Fatal("Server failed:", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
