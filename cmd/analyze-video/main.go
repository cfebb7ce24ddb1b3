package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kdimtricp/formcheck/internal/ai"
	"github.com/kdimtricp/formcheck/internal/analysis"
)

// Submits a local video file for pushup analysis and prints the structured
// report. Useful for prompt tuning without running the server.
func main() {
	var (
		path  = flag.String("file", "", "Path to the video file to analyze")
		model = flag.String("model", "", "Model override (default "+ai.DefaultModel+")")
	)
	flag.Parse()

	_ = godotenv.Load()

	if *path == "" {
		log.Fatal("Please provide a video file with -file")
	}

	client := ai.NewGeminiClient(os.Getenv("GEMINI_API_KEY"))
	if !client.Available() {
		log.Fatal("GEMINI_API_KEY is not set")
	}

	payload, err := os.ReadFile(*path)
	if err != nil {
		log.Fatal("Failed to read video:", err)
	}

	mimeType := "video/webm"
	if strings.EqualFold(filepath.Ext(*path), ".mp4") {
		mimeType = "video/mp4"
	}

	fmt.Printf("Analyzing %s (%d bytes)...\n", *path, len(payload))

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	text, err := client.Submit(ctx, payload, mimeType, ai.PushupAnalysisPrompt, *model)
	if err != nil {
		log.Fatal("Inference failed:", err)
	}

	report, ok := analysis.Parse(text)
	if !ok {
		fmt.Println("Response could not be parsed as a structured report. Raw text:")
		fmt.Println(text)
		return
	}

	fmt.Printf("\nSummary: %d reps, %d valid, %d invalid over %s (%.1f/min)\n",
		report.Summary.TotalCount,
		report.Summary.ValidPushups,
		report.Summary.InvalidPushups,
		report.Summary.Duration,
		report.Summary.AverageRepsPerMinute)
	fmt.Printf("Overall score: %.1f/10\n", report.Quality.OverallScore)

	fmt.Println("\nTimeline:")
	for _, event := range report.Timeline {
		line := fmt.Sprintf("  #%d at %s (%.1fs): %s", event.RepNumber, event.Timestamp, event.TimestampSeconds, event.Quality)
		if event.Notes != "" {
			line += " (" + event.Notes + ")"
		}
		fmt.Println(line)
	}

	best := report.Insights.BestRep
	if best.RepNumber != 0 {
		fmt.Printf("\nBest rep: #%d at %s (%s)\n", best.RepNumber, best.Timestamp, best.Reason)
	}
	if len(report.Insights.ImprovementAreas) > 0 {
		fmt.Println("Improve:", strings.Join(report.Insights.ImprovementAreas, "; "))
	}
	if len(report.Insights.Strengths) > 0 {
		fmt.Println("Strengths:", strings.Join(report.Insights.Strengths, "; "))
	}
}
