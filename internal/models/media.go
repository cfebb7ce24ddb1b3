package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kdimtricp/formcheck/internal/analysis"
)

// MediaKind is the closed set of capture types. All downstream logic
// branches exhaustively on it, so it is a tagged constant, not a free string.
type MediaKind string

const (
	KindPhoto MediaKind = "photo"
	KindVideo MediaKind = "video"
)

func (k MediaKind) Valid() bool {
	return k == KindPhoto || k == KindVideo
}

// Extension returns the file extension used for payloads of this kind.
func (k MediaKind) Extension() string {
	if k == KindPhoto {
		return ".jpg"
	}
	return ".webm"
}

// MimeType returns the content type used when streaming payloads of this kind.
func (k MediaKind) MimeType() string {
	if k == KindPhoto {
		return "image/jpeg"
	}
	return "video/webm"
}

// MediaRecord is one captured artifact. ID, Kind, Payload and CreatedAt are
// immutable after creation. StorageKey is set once after the first successful
// persist and stays empty if persistence failed (the record is then
// memory-only for the session). Analysis is only ever present on videos.
type MediaRecord struct {
	ID          string              `json:"id"`
	Kind        MediaKind           `json:"kind"`
	Payload     []byte              `json:"-"`
	CreatedAt   time.Time           `json:"createdAt"`
	DisplayName string              `json:"displayName"`
	StorageKey  string              `json:"storageKey,omitempty"`
	Analysis    *AnalysisAnnotation `json:"analysis,omitempty"`
}

// NewMediaRecord allocates a record for freshly captured bytes. It does not
// persist anything.
func NewMediaRecord(payload []byte, kind MediaKind) *MediaRecord {
	now := time.Now()
	return &MediaRecord{
		ID:          uuid.New().String(),
		Kind:        kind,
		Payload:     payload,
		CreatedAt:   now,
		DisplayName: fmt.Sprintf("%s-%s%s", kind, now.Format("20060102-150405"), kind.Extension()),
	}
}

// AnalysisAnnotation tracks one inference request against one video.
//
// Lifecycle: created pending with empty RawText; exactly one terminal update
// follows, either a response (RawText set, Structured set iff parsing
// succeeded) or a failure (FailureReason set). Reprocessing only re-parses an
// already received RawText; it never re-submits inference.
type AnalysisAnnotation struct {
	PromptUsed    string           `json:"promptUsed"`
	RequestedAt   time.Time        `json:"requestedAt"`
	RawText       string           `json:"rawText"`
	Structured    *analysis.Report `json:"structured,omitempty"`
	Pending       bool             `json:"pending"`
	FailureReason string           `json:"failureReason,omitempty"`
}

// NewPendingAnnotation returns the initial pending state for a submission.
func NewPendingAnnotation(prompt string) *AnalysisAnnotation {
	return &AnalysisAnnotation{
		PromptUsed:  prompt,
		RequestedAt: time.Now(),
		Pending:     true,
	}
}
