package analysis

// QualityTier is the per-rep rating vocabulary the model is asked to use.
type QualityTier string

const (
	TierExcellent QualityTier = "excellent"
	TierGood      QualityTier = "good"
	TierPoor      QualityTier = "poor"
	TierInvalid   QualityTier = "invalid"
)

// Report is the structured pushup analysis recovered from the model's free
// text. It is immutable once parsed: an annotation either carries a full
// Report or none at all.
//
// Field validation stops at the presence of the three top-level sections.
// Deeper malformed data (wrong tier strings, negative counts) propagates
// as-is; consumers are expected to tolerate it.
type Report struct {
	Summary  Summary    `json:"summary"`
	Quality  Quality    `json:"quality"`
	Timeline []RepEvent `json:"timeline"`
	Insights Insights   `json:"insights"`
}

type Summary struct {
	TotalCount           int     `json:"totalCount"`
	ValidPushups         int     `json:"validPushups"`
	InvalidPushups       int     `json:"invalidPushups"`
	Duration             string  `json:"duration"`
	AverageRepsPerMinute float64 `json:"averageRepsPerMinute"`
}

type Quality struct {
	OverallScore float64  `json:"overallScore"`
	FormNotes    []string `json:"formNotes"`
	CommonIssues []string `json:"commonIssues"`
}

// RepEvent is one timestamped repetition in the timeline. RepNumber is
// expected to be unique and ascending but is deliberately not re-validated;
// sparse or out-of-order numbering must be tolerated downstream.
type RepEvent struct {
	RepNumber        int         `json:"repNumber"`
	Timestamp        string      `json:"timestamp"`
	TimestampSeconds float64     `json:"timestampSeconds"`
	Quality          QualityTier `json:"quality"`
	Notes            string      `json:"notes,omitempty"`
}

type Insights struct {
	BestRep          BestRep  `json:"bestRep"`
	ImprovementAreas []string `json:"improvementAreas"`
	Strengths        []string `json:"strengths"`
}

// BestRep is the single timeline entry the model nominates as highest quality.
type BestRep struct {
	RepNumber        int     `json:"repNumber"`
	Timestamp        string  `json:"timestamp"`
	TimestampSeconds float64 `json:"timestampSeconds"`
	Reason           string  `json:"reason"`
}
