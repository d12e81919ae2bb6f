package diag

// Bag collects diagnostics during one compilation run.
//
// Each pipeline stage appends every diagnostic it finds before the run
// decides whether to continue, so a single invocation yields a complete
// report for the failing stage. A Bag is not goroutine-safe; concurrent
// parses use one Bag per unit and Merge afterwards.
type Bag struct {
	diags      []Diagnostic
	errorCount int
	warnCount  int
}

// NewBag creates an empty diagnostic bag.
func NewBag() *Bag {
	return &Bag{}
}

// Add appends a diagnostic to the bag.
func (b *Bag) Add(d Diagnostic) {
	b.diags = append(b.diags, d)
	switch d.Severity {
	case Error:
		b.errorCount++
	case Warning:
		b.warnCount++
	}
}

// Merge appends all diagnostics from other, preserving their order.
func (b *Bag) Merge(other *Bag) {
	for _, d := range other.diags {
		b.Add(d)
	}
}

// HasErrors reports whether any error-severity diagnostic was added.
// Warnings never gate pipeline progress.
func (b *Bag) HasErrors() bool {
	return b.errorCount > 0
}

// ErrorCount returns the number of error-severity diagnostics.
func (b *Bag) ErrorCount() int {
	return b.errorCount
}

// WarningCount returns the number of warning-severity diagnostics.
func (b *Bag) WarningCount() int {
	return b.warnCount
}

// Diagnostics returns the collected diagnostics in insertion order.
func (b *Bag) Diagnostics() []Diagnostic {
	return b.diags
}
