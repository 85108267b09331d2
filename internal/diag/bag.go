package diag

import "slices"

// Bag collects the diagnostics of one check run, up to an optional limit.
type Bag struct {
	items []Diagnostic
	max   int
}

// NewBag returns a bag holding at most limit diagnostics; limit <= 0 means no limit.
func NewBag(limit int) *Bag {
	return &Bag{
		items: make([]Diagnostic, 0, min(max(limit, 0), 64)),
		max:   limit,
	}
}

// Add appends d unless the limit is reached. It reports whether d was kept.
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Worst returns the highest severity in the bag and false when it is empty.
func (b *Bag) Worst() (Severity, bool) {
	if len(b.items) == 0 {
		return SevHint, false
	}
	worst := SevHint
	for i := range b.items {
		worst = max(worst, b.items[i].Severity)
	}
	return worst, true
}

func (b *Bag) HasErrors() bool {
	sev, ok := b.Worst()
	return ok && sev >= SevError
}

func (b *Bag) HasWarnings() bool {
	sev, ok := b.Worst()
	return ok && sev >= SevWarning
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the internal slice; callers must not modify it.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends all diagnostics of other, raising the limit when needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if total := len(b.items) + len(other.items); b.max > 0 && total > b.max {
		b.max = total
	}
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by file, start offset, rule and end offset.
// Codes are numbered in rule order, so a tie at one offset always resolves
// the same way.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		switch {
		case Less(x, y):
			return -1
		case Less(y, x):
			return 1
		}
		return 0
	})
}

// Less is the order used by Sort.
func Less(x, y Diagnostic) bool {
	if x.Primary.File != y.Primary.File {
		return x.Primary.File < y.Primary.File
	}
	if x.Primary.Start != y.Primary.Start {
		return x.Primary.Start < y.Primary.Start
	}
	if x.Code != y.Code {
		return x.Code < y.Code
	}
	return x.Primary.End < y.Primary.End
}
