package analysis

import "math"

// bestRepWindow is the half-width of the highlight window around the
// nominated best rep, in seconds.
const bestRepWindow = 2.0

// TimeSource abstracts the playing video element: current position, total
// duration and direct seeking.
type TimeSource interface {
	CurrentTime() float64
	Duration() float64
	Seek(seconds float64)
}

// Synchronizer maps playback time onto the analysis timeline. It holds the
// last observed playback position and answers which repetition is active and
// whether the best-rep highlight applies.
type Synchronizer struct {
	report  *Report
	source  TimeSource
	current float64
}

func NewSynchronizer(report *Report, source TimeSource) *Synchronizer {
	return &Synchronizer{report: report, source: source}
}

// OnTimeUpdate records the playback position. Call it from the video's
// time-update notifications.
func (s *Synchronizer) OnTimeUpdate(seconds float64) {
	s.current = seconds
}

// Current returns the last observed playback position.
func (s *Synchronizer) Current() float64 {
	return s.current
}

// ActiveRep returns the timeline entry whose interval contains t.
//
// An entry's interval starts at its own timestamp and ends at the timestamp
// of the entry numbered exactly repNumber+1, found by number lookup rather
// than slice position. When no such successor exists the interval extends to
// the video duration, even if later entries with higher numbers follow; the
// timeline may be sparse or out of order and both must work.
func (s *Synchronizer) ActiveRep(t float64) (RepEvent, bool) {
	if s.report == nil {
		return RepEvent{}, false
	}
	duration := math.Inf(1)
	if s.source != nil {
		duration = s.source.Duration()
	}
	for _, event := range s.report.Timeline {
		if t < event.TimestampSeconds {
			continue
		}
		end := duration
		if next, ok := s.eventByNumber(event.RepNumber + 1); ok {
			end = next.TimestampSeconds
		}
		if t < end {
			return event, true
		}
	}
	return RepEvent{}, false
}

func (s *Synchronizer) eventByNumber(n int) (RepEvent, bool) {
	for _, event := range s.report.Timeline {
		if event.RepNumber == n {
			return event, true
		}
	}
	return RepEvent{}, false
}

// JumpTo seeks the video directly to the given position. Bounds are left to
// the time source.
func (s *Synchronizer) JumpTo(seconds float64) {
	if s.source != nil {
		s.source.Seek(seconds)
	}
}

// BestRepActive reports whether t falls inside the highlight window around
// the nominated best rep.
func (s *Synchronizer) BestRepActive(t float64) bool {
	if s.report == nil || s.report.Insights.BestRep.RepNumber == 0 {
		return false
	}
	best := s.report.Insights.BestRep.TimestampSeconds
	return math.Abs(t-best) <= bestRepWindow
}
