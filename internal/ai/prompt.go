package ai

// DefaultModel is the model used when a submission does not name one.
const DefaultModel = "gemini-2.0-flash"

// PushupAnalysisPrompt asks the model for the structured report the parser
// expects. The JSON shape here is the contract; the parser only re-validates
// the presence of the three top-level sections.
const PushupAnalysisPrompt = `You are an expert fitness coach analyzing a pushup workout video.
Count every repetition, judge its form, and respond with ONLY a JSON object
in exactly this shape (no prose, no code fences):

{
  "summary": {
    "totalCount": <int>,
    "validPushups": <int>,
    "invalidPushups": <int>,
    "duration": "<m:ss>",
    "averageRepsPerMinute": <number>
  },
  "quality": {
    "overallScore": <1-10>,
    "formNotes": ["<observation>"],
    "commonIssues": ["<issue>"]
  },
  "timeline": [
    {
      "repNumber": <int>,
      "timestamp": "<m:ss>",
      "timestampSeconds": <number>,
      "quality": "excellent" | "good" | "poor" | "invalid",
      "notes": "<optional note>"
    }
  ],
  "insights": {
    "bestRep": {
      "repNumber": <int>,
      "timestamp": "<m:ss>",
      "timestampSeconds": <number>,
      "reason": "<why>"
    },
    "improvementAreas": ["<area>"],
    "strengths": ["<strength>"]
  }
}

A pushup counts as valid only with full range of motion: chest near the
floor and elbows locked out at the top. Rate partial reps as "invalid".`
