package analysis

import (
	"reflect"
	"testing"
)

const sampleReportJSON = `{
	"summary": {"totalCount": 10, "validPushups": 8, "invalidPushups": 2, "duration": "0:45", "averageRepsPerMinute": 13.3},
	"quality": {"overallScore": 7, "formNotes": ["good depth"], "commonIssues": ["flared elbows"]},
	"timeline": [
		{"repNumber": 1, "timestamp": "0:03", "timestampSeconds": 3, "quality": "good"},
		{"repNumber": 2, "timestamp": "0:08", "timestampSeconds": 8, "quality": "excellent", "notes": "full lockout"}
	],
	"insights": {
		"bestRep": {"repNumber": 2, "timestamp": "0:08", "timestampSeconds": 8, "reason": "full range of motion"},
		"improvementAreas": ["keep core tight"],
		"strengths": ["consistent tempo"]
	}
}`

func TestParse_BareJSON(t *testing.T) {
	report, ok := Parse(sampleReportJSON)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if report.Summary.TotalCount != 10 {
		t.Errorf("expected totalCount 10, got %d", report.Summary.TotalCount)
	}
	if len(report.Timeline) != 2 {
		t.Fatalf("expected 2 timeline entries, got %d", len(report.Timeline))
	}
	if report.Timeline[1].Quality != TierExcellent {
		t.Errorf("expected excellent tier, got %s", report.Timeline[1].Quality)
	}
	if report.Insights.BestRep.RepNumber != 2 {
		t.Errorf("expected best rep 2, got %d", report.Insights.BestRep.RepNumber)
	}
}

func TestParse_WrappedVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"fenced with language tag", "```json\n" + sampleReportJSON + "\n```"},
		{"fenced without language tag", "```\n" + sampleReportJSON + "\n```"},
		{"bare language tag", "json\n" + sampleReportJSON},
		{"surrounding prose", "Here is the analysis you asked for:\n\n" + sampleReportJSON + "\n\nLet me know if you need more detail."},
		{"prose and fences", "Sure! The breakdown:\n```json\n" + sampleReportJSON + "\n```\nHope that helps."},
		{"leading whitespace", "\n\n   " + sampleReportJSON + "   \n"},
	}

	want, ok := Parse(sampleReportJSON)
	if !ok {
		t.Fatal("baseline parse failed")
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.raw)
			if !ok {
				t.Fatalf("expected parse to succeed for %q", tt.name)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("wrapped parse diverged from baseline: got %+v", got)
			}
		})
	}
}

func TestParse_Failures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace only", "   \n\t"},
		{"no json at all", "The video shows someone doing pushups."},
		{"unbalanced braces", "{\"summary\": "},
		{"not an object", "[1, 2, 3]"},
		{"missing summary", `{"timeline": [], "insights": {}}`},
		{"missing timeline", `{"summary": {}, "insights": {}}`},
		{"missing insights", `{"summary": {}, "timeline": []}`},
		{"wrong value types", `{"summary": {}, "timeline": "not-a-list", "insights": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, ok := Parse(tt.raw)
			if ok {
				t.Errorf("expected parse to fail, got %+v", report)
			}
			if report != nil {
				t.Error("expected nil report on failure")
			}
		})
	}
}

func TestParse_Deterministic(t *testing.T) {
	raw := "```json\n" + sampleReportJSON + "\n```"
	first, ok1 := Parse(raw)
	second, ok2 := Parse(raw)
	if ok1 != ok2 {
		t.Fatal("determinism violated: ok flags differ")
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("determinism violated: reports differ")
	}
}

func TestParse_LenientBeyondTopLevel(t *testing.T) {
	// Presence of the three sections is all that is validated; odd inner
	// data still parses.
	raw := `{"summary": {}, "timeline": [{"repNumber": 7, "timestampSeconds": -1, "quality": "stellar"}], "insights": {}}`
	report, ok := Parse(raw)
	if !ok {
		t.Fatal("expected lenient parse to succeed")
	}
	if report.Timeline[0].Quality != QualityTier("stellar") {
		t.Errorf("expected unknown tier preserved, got %s", report.Timeline[0].Quality)
	}
}
