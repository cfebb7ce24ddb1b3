package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	_ = godotenv.Load()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./formcheck.db"
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	fmt.Println("🔍 Checking Analysis Results")
	fmt.Println("============================")

	if os.Getenv("GEMINI_API_KEY") == "" {
		fmt.Println("⚠️  WARNING: GEMINI_API_KEY not configured!")
		fmt.Println("   The server will run in capture-only mode.")
		fmt.Println()
	} else {
		fmt.Println("✅ Gemini analysis configured")
		fmt.Println()
	}

	var total int
	if err := db.QueryRow("SELECT COUNT(*) FROM media_records").Scan(&total); err != nil {
		log.Fatal("Failed to count records:", err)
	}
	fmt.Printf("📹 Total captures: %d\n", total)

	var analyzed int
	if err := db.QueryRow("SELECT COUNT(*) FROM media_records WHERE analysis IS NOT NULL").Scan(&analyzed); err != nil {
		log.Fatal("Failed to count analyses:", err)
	}
	fmt.Printf("📊 Captures with analysis: %d\n\n", analyzed)

	rows, err := db.Query(`
		SELECT display_name, analysis
		FROM media_records
		WHERE analysis IS NOT NULL
		ORDER BY created_at DESC
		LIMIT 5
	`)
	if err != nil {
		log.Fatal("Failed to query analyses:", err)
	}
	defer rows.Close()

	fmt.Println("Recent analyses:")
	fmt.Println("----------------")

	count := 0
	for rows.Next() {
		var name, analysisJSON string
		if err := rows.Scan(&name, &analysisJSON); err != nil {
			log.Printf("Error scanning row: %v", err)
			continue
		}
		count++

		var annotation struct {
			Pending       bool   `json:"pending"`
			FailureReason string `json:"failureReason"`
			Structured    *struct {
				Summary struct {
					TotalCount   int `json:"totalCount"`
					ValidPushups int `json:"validPushups"`
				} `json:"summary"`
				Quality struct {
					OverallScore float64 `json:"overallScore"`
				} `json:"quality"`
			} `json:"structured"`
		}
		if err := json.Unmarshal([]byte(analysisJSON), &annotation); err != nil {
			fmt.Printf("\n🎬 %s: unreadable annotation (%v)\n", name, err)
			continue
		}

		fmt.Printf("\n🎬 %s\n", name)
		switch {
		case annotation.Pending:
			fmt.Println("   ⏳ Analysis pending")
		case annotation.FailureReason != "":
			fmt.Printf("   ❌ Failed: %s\n", annotation.FailureReason)
		case annotation.Structured != nil:
			fmt.Printf("   ✅ %d reps (%d valid), score %.1f/10\n",
				annotation.Structured.Summary.TotalCount,
				annotation.Structured.Summary.ValidPushups,
				annotation.Structured.Quality.OverallScore)
		default:
			fmt.Println("   ⚠️  Response received but not parseable as a report")
		}
	}

	if count == 0 {
		fmt.Println("No analyses found yet. Record a video to test!")
	} else {
		fmt.Printf("\n✅ Found %d recent analyses.\n", count)
	}
}
