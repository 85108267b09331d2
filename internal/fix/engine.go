package fix

import (
	"errors"
	"fmt"
	"sort"

	"bazelrc-lsp/internal/diag"
	"bazelrc-lsp/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	Title     string
	Code      diag.Code
	Message   string
	Span      source.Span
	EditCount int
}

// SkippedFix captures a fix that was not applied with a reason.
type SkippedFix struct {
	Title  string
	Code   diag.Code
	Span   source.Span
	Reason string
}

// Result aggregates applied and skipped fixes and the rewritten content.
type Result struct {
	Applied []AppliedFix
	Skipped []SkippedFix
	Content []byte
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply applies the first fix of each diagnostic to the content of file.
// Fixes are taken in source order; a fix whose edits overlap an already
// accepted one is skipped as a whole. The file itself is not modified.
func Apply(file *source.File, diagnostics []diag.Diagnostic) (*Result, error) {
	if file == nil {
		return nil, errors.New("fix: file is nil")
	}
	result := &Result{
		Applied: make([]AppliedFix, 0),
		Skipped: make([]SkippedFix, 0),
	}

	candidates := gatherCandidates(diagnostics)
	if len(candidates) == 0 {
		result.Content = file.Content
		return result, ErrNoFixes
	}
	sortCandidates(candidates)

	var accepted []diag.FixEdit
	for _, cand := range candidates {
		reason := checkEdits(file, cand.fix.Edits, accepted)
		if reason != "" {
			result.Skipped = append(result.Skipped, SkippedFix{
				Title:  cand.fix.Title,
				Code:   cand.diag.Code,
				Span:   cand.diag.Primary,
				Reason: reason,
			})
			continue
		}
		accepted = append(accepted, cand.fix.Edits...)
		result.Applied = append(result.Applied, AppliedFix{
			Title:     cand.fix.Title,
			Code:      cand.diag.Code,
			Message:   cand.diag.Message,
			Span:      cand.diag.Primary,
			EditCount: len(cand.fix.Edits),
		})
	}

	result.Content = applyEdits(file.Content, accepted)
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

// gatherCandidates keeps the first fix of each diagnostic that has one.
func gatherCandidates(diagnostics []diag.Diagnostic) []candidate {
	cands := make([]candidate, 0, len(diagnostics))
	for i, d := range diagnostics {
		if len(d.Fixes) == 0 {
			continue
		}
		cands = append(cands, candidate{diag: d, fix: d.Fixes[0], order: i})
	}
	return cands
}

// sortCandidates orders candidates by primary span, then by diagnostic
// order, so that the result does not depend on how the diagnostics were sorted.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].diag, candidates[j].diag
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return candidates[i].order < candidates[j].order
	})
}

func checkEdits(file *source.File, edits, accepted []diag.FixEdit) string {
	if len(edits) == 0 {
		return "fix has no edits"
	}
	for i, e := range edits {
		if e.Span.File != file.ID {
			return fmt.Sprintf("edit targets file %d", e.Span.File)
		}
		if e.Span.End < e.Span.Start || e.Span.End > file.Len() {
			return "edit span out of range"
		}
		for _, prev := range accepted {
			if spansConflict(prev.Span, e.Span) {
				return "conflicts with a previously applied fix"
			}
		}
		for _, other := range edits[:i] {
			if spansConflict(other.Span, e.Span) {
				return "fix has overlapping edits"
			}
		}
	}
	return ""
}

// spansConflict reports whether two edit spans overlap. Spans are half-open;
// two insertions never conflict, and an insertion conflicts with a span
// strictly containing its position.
func spansConflict(a, b source.Span) bool {
	if a.Empty() && b.Empty() {
		return false
	}
	if a.Empty() {
		return b.Start < a.Start && a.Start < b.End
	}
	if b.Empty() {
		return a.Start < b.Start && b.Start < a.End
	}
	return a.Start < b.End && b.Start < a.End
}

// applyEdits splices non-overlapping edits into a copy of src.
func applyEdits(src []byte, edits []diag.FixEdit) []byte {
	if len(edits) == 0 {
		return src
	}
	sorted := make([]diag.FixEdit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Span.Start != sorted[j].Span.Start {
			return sorted[i].Span.Start < sorted[j].Span.Start
		}
		return sorted[i].Span.End < sorted[j].Span.End
	})
	out := make([]byte, 0, len(src))
	var prev uint32
	for _, e := range sorted {
		out = append(out, src[prev:e.Span.Start]...)
		out = append(out, e.NewText...)
		prev = e.Span.End
	}
	return append(out, src[prev:]...)
}
