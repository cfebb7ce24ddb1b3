// Package session orchestrates the capture-to-analysis pipeline: it creates
// records from captured bytes, mirrors them into the durable store, runs
// inference on videos in the background, and folds results back into both
// copies. It is the sole mutator of record state.
package session

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/kdimtricp/formcheck/internal/ai"
	"github.com/kdimtricp/formcheck/internal/analysis"
	"github.com/kdimtricp/formcheck/internal/models"
	"github.com/kdimtricp/formcheck/internal/store"
)

type Config struct {
	Prompt         string
	Model          string
	ReprocessDelay time.Duration
}

type Controller struct {
	store     store.MediaStore
	inference ai.Client
	prompt    string
	model     string

	reprocessDelay time.Duration

	mu      sync.RWMutex
	records map[string]*models.MediaRecord
}

func NewController(mediaStore store.MediaStore, inference ai.Client, config Config) *Controller {
	if config.Prompt == "" {
		config.Prompt = ai.PushupAnalysisPrompt
	}
	if config.ReprocessDelay == 0 {
		config.ReprocessDelay = 2 * time.Second
	}

	return &Controller{
		store:          mediaStore,
		inference:      inference,
		prompt:         config.Prompt,
		model:          config.Model,
		reprocessDelay: config.ReprocessDelay,
		records:        make(map[string]*models.MediaRecord),
	}
}

// CreateFromPayload allocates a record for captured bytes without persisting it.
func (c *Controller) CreateFromPayload(payload []byte, kind models.MediaKind) *models.MediaRecord {
	return models.NewMediaRecord(payload, kind)
}

// Add takes ownership of a freshly captured record. Videos get a pending
// annotation attached up front when inference is configured; that decision is
// made here and never revisited, so enabling inference later does not touch
// existing records. Persistence is write-through and best-effort: on store
// failure the record stays memory-only and the capture survives the session.
func (c *Controller) Add(ctx context.Context, rec *models.MediaRecord) {
	analyze := rec.Kind == models.KindVideo && c.inference.Available()
	if analyze {
		rec.Analysis = models.NewPendingAnnotation(c.prompt)
	}

	c.mu.Lock()
	c.records[rec.ID] = rec
	c.mu.Unlock()

	key, err := c.store.Put(ctx, rec)
	if err != nil {
		log.Printf("[SESSION] Failed to persist %s, keeping in memory only: %v", rec.ID, err)
	} else {
		c.mu.Lock()
		rec.StorageKey = key
		c.mu.Unlock()
	}

	if analyze {
		go c.processVideo(rec.ID)
	}
}

// processVideo runs one inference submission for a record and applies the
// single terminal annotation update. Scheduled at most once per record.
func (c *Controller) processVideo(id string) {
	c.mu.RLock()
	rec, ok := c.records[id]
	if !ok || rec.Analysis == nil {
		c.mu.RUnlock()
		return
	}
	payload := rec.Payload
	mimeType := rec.Kind.MimeType()
	annotation := *rec.Analysis
	c.mu.RUnlock()

	text, err := c.inference.Submit(context.Background(), payload, mimeType, annotation.PromptUsed, c.model)

	updated := annotation
	updated.Pending = false
	if err != nil {
		log.Printf("[SESSION] Inference failed for %s: %v", id, err)
		updated.FailureReason = err.Error()
	} else {
		updated.RawText = text
		if report, ok := analysis.Parse(text); ok {
			updated.Structured = report
		} else {
			log.Printf("[SESSION] Could not parse structured report for %s, keeping raw text", id)
		}
	}

	c.applyAnnotation(id, &updated)
}

// applyAnnotation folds a terminal annotation into memory and, when the
// record was persisted, into the store. Lookup is by id so a record deleted
// mid-flight degrades to a silent no-op.
func (c *Controller) applyAnnotation(id string, annotation *models.AnalysisAnnotation) {
	c.mu.Lock()
	rec, ok := c.records[id]
	if !ok {
		c.mu.Unlock()
		log.Printf("[SESSION] Dropping analysis result for removed record %s", id)
		return
	}
	rec.Analysis = annotation
	snapshot := *rec
	c.mu.Unlock()

	if snapshot.StorageKey == "" {
		return
	}
	if _, err := c.store.Put(context.Background(), &snapshot); err != nil {
		log.Printf("[SESSION] Failed to persist analysis for %s: %v", id, err)
	}
}

// Remove drops the record from memory and best-effort from the store.
func (c *Controller) Remove(ctx context.Context, id string) {
	c.mu.Lock()
	rec, ok := c.records[id]
	var key string
	if ok {
		key = rec.StorageKey
		delete(c.records, id)
	}
	c.mu.Unlock()

	if !ok || key == "" {
		return
	}
	if err := c.store.Delete(ctx, key); err != nil {
		log.Printf("[SESSION] Failed to delete %s from store: %v", id, err)
	}
}

// ClearAll empties memory and the store together.
func (c *Controller) ClearAll(ctx context.Context) {
	c.mu.Lock()
	c.records = make(map[string]*models.MediaRecord)
	c.mu.Unlock()

	if err := c.store.Clear(ctx); err != nil {
		log.Printf("[SESSION] Failed to clear store: %v", err)
	}
}

// ReprocessUnparsed re-runs the parser over video records that already hold
// raw inference text but no structured report. It never re-submits inference;
// it exists so a parser fix can recover reports from stored responses.
// Returns the number of records updated; running it twice updates nothing
// the second time.
func (c *Controller) ReprocessUnparsed(ctx context.Context) int {
	c.mu.RLock()
	var candidates []string
	for id, rec := range c.records {
		a := rec.Analysis
		if rec.Kind == models.KindVideo && a != nil && !a.Pending && a.RawText != "" && a.Structured == nil {
			candidates = append(candidates, id)
		}
	}
	c.mu.RUnlock()

	updated := 0
	for _, id := range candidates {
		c.mu.RLock()
		rec, ok := c.records[id]
		if !ok {
			c.mu.RUnlock()
			continue
		}
		annotation := *rec.Analysis
		c.mu.RUnlock()

		report, ok := analysis.Parse(annotation.RawText)
		if !ok {
			continue
		}
		annotation.Structured = report
		c.applyAnnotation(id, &annotation)
		updated++
	}

	if updated > 0 {
		log.Printf("[SESSION] Reprocessed %d previously unparsed analyses", updated)
	}
	return updated
}

// Load restores persisted records into memory, newest first, and schedules a
// reprocess pass shortly after so it does not contend with startup.
func (c *Controller) Load(ctx context.Context) error {
	records, err := c.store.ListAll(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	for _, rec := range records {
		c.records[rec.ID] = rec
	}
	c.mu.Unlock()

	log.Printf("[SESSION] Restored %d records from store", len(records))

	time.AfterFunc(c.reprocessDelay, func() {
		c.ReprocessUnparsed(context.Background())
	})
	return nil
}

// Get returns a snapshot of the record with the given id. Payload bytes are
// shared; they are immutable after creation.
func (c *Controller) Get(id string) (*models.MediaRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.records[id]
	if !ok {
		return nil, false
	}
	snapshot := *rec
	return &snapshot, true
}

// List returns snapshots of all records, newest first.
func (c *Controller) List() []*models.MediaRecord {
	c.mu.RLock()
	records := make([]*models.MediaRecord, 0, len(c.records))
	for _, rec := range c.records {
		snapshot := *rec
		records = append(records, &snapshot)
	}
	c.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records
}
