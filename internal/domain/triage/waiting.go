package triage

import (
	"slices"
	"time"
)

// Entry is anything that can sit on the waiting list. The priority is the
// stored literal chosen at intake, not a fresh classification.
type Entry interface {
	StoredPriority() string
	WaitingSince() time.Time
}

// CompareWaiting orders entries High, Medium, Low, then oldest first.
func CompareWaiting(a, b Entry) int {
	if ra, rb := RankOf(a.StoredPriority()), RankOf(b.StoredPriority()); ra != rb {
		return ra - rb
	}
	return a.WaitingSince().Compare(b.WaitingSince())
}

// SortWaitingList sorts entries in place. Equal keys keep their input order.
func SortWaitingList[E Entry](entries []E) {
	slices.SortStableFunc(entries, func(a, b E) int {
		return CompareWaiting(a, b)
	})
}
