package observ

import (
	"strings"
	"testing"
	"time"
)

func fakeClock(step time.Duration) func() time.Time {
	now := time.Unix(0, 0)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(2 * time.Millisecond)

	idx := tm.Begin("parse")
	tm.End(idx, "3 lines")
	tm.Measure("check", func() {})
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 || r.TotalMS != 4 {
		t.Fatalf("report %+v", r)
	}
	if r.Phases[0] != (PhaseReport{Name: "parse", DurationMS: 2, Note: "3 lines"}) {
		t.Fatalf("phase %+v", r.Phases[0])
	}
	s := tm.Summary()
	if !strings.Contains(s, "parse") || !strings.Contains(s, "// 3 lines") || !strings.Contains(s, "total") {
		t.Fatalf("summary %q", s)
	}
	if got := NewTimer().Report(); got.Phases != nil || got.TotalMS != 0 {
		t.Fatalf("empty report %+v", got)
	}
}

func TestAggregate(t *testing.T) {
	a := Report{TotalMS: 3, Phases: []PhaseReport{{Name: "parse", DurationMS: 1}, {Name: "check", DurationMS: 2, Note: "x"}}}
	b := Report{TotalMS: 5, Phases: []PhaseReport{{Name: "load", DurationMS: 1}, {Name: "parse", DurationMS: 4}}}
	got := Aggregate([]Report{a, b})
	want := Report{TotalMS: 8, Phases: []PhaseReport{{Name: "parse", DurationMS: 5}, {Name: "check", DurationMS: 2}, {Name: "load", DurationMS: 1}}}
	if got.TotalMS != want.TotalMS || len(got.Phases) != 3 {
		t.Fatalf("aggregate %+v", got)
	}
	for i := range want.Phases {
		if got.Phases[i] != want.Phases[i] {
			t.Errorf("phase %d: %+v, want %+v", i, got.Phases[i], want.Phases[i])
		}
	}
}
