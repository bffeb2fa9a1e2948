package alertlog

import "time"

// DefaultRetentionDays is how long the newest stored entry may age before a
// batch replaces the log instead of appending to it.
const DefaultRetentionDays = 60

// Decision is the outcome of the retention policy for one batch.
type Decision int

const (
	// Append keeps the existing entries and adds the new ones after them.
	Append Decision = iota
	// Replace discards the existing entries wholesale.
	Replace
)

// Policy decides append vs. replace from the anchor age alone. It is a plain
// two-state timer, kept separate from the log I/O so it can be tested and
// tuned on its own.
type Policy struct {
	RetentionDays int
}

// Decide returns Replace once the anchor is strictly older than the retention
// window, Append otherwise.
func (p Policy) Decide(anchorAgeDays int) Decision {
	if anchorAgeDays > p.RetentionDays {
		return Replace
	}
	return Append
}

// AnchorAgeDays returns the anchor's age in whole days, floor-truncated.
// A future anchor yields a non-positive age.
func AnchorAgeDays(now, anchor time.Time) int {
	return int(now.Sub(anchor).Hours() / 24)
}
