package derive

import (
	"fmt"
	"time"

	"moneymap/src/models"
)

const maxExpansions = 100

// ExpandRecurring returns every transaction followed by the synthetic future
// occurrences of its recurrence rule. Occurrences are emitted only when they
// fall strictly after now and no later than one year past now; at most 100
// steps are taken per transaction, and a recurrence end date stops the
// series early. Synthetic ids are "<origin id>_<step index>".
//
// The result depends on now: the same input evaluated later yields fewer
// (or different) occurrences.
func ExpandRecurring(txs []models.Transaction, now time.Time) []models.Transaction {
	horizon := now.AddDate(1, 0, 0)
	out := make([]models.Transaction, 0, len(txs))

	for _, t := range txs {
		out = append(out, t)
		if !t.Recurrence.Recurring() {
			continue
		}

		for step := 0; step < maxExpansions; step++ {
			next := t.Recurrence.Step(t.Date, step+1)
			if next.After(horizon) {
				break
			}
			if t.RecurrenceEndDate != nil && next.After(t.RecurrenceEndDate.Time) {
				break
			}
			if !next.After(now) {
				continue
			}
			occurrence := t
			occurrence.ID = fmt.Sprintf("%s_%d", t.ID, step)
			occurrence.Date = next
			occurrence.RecurrenceEndDate = cloneDate(t.RecurrenceEndDate)
			if t.Tags != nil {
				occurrence.Tags = append([]string(nil), t.Tags...)
			}
			out = append(out, occurrence)
		}
	}
	return out
}

func cloneDate(d *models.Date) *models.Date {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
