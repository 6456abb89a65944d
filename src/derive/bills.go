package derive

import (
	"sort"
	"time"

	"moneymap/src/models"
)

type Urgency string

const (
	DueSoon  Urgency = "due-soon"
	ThisWeek Urgency = "this-week"
	Upcoming Urgency = "upcoming"
)

// UpcomingBills returns unpaid reminders due between today and withinDays
// from today, earliest first, capped at limit (no cap when limit <= 0).
func UpcomingBills(reminders []models.Reminder, now time.Time, withinDays, limit int) []models.Reminder {
	today := models.DateOf(now)
	last := today.AddDays(withinDays)

	var out []models.Reminder
	for _, r := range reminders {
		if r.IsPaid || r.DueDate.Before(today.Time) || r.DueDate.After(last.Time) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate.Time) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func DaysUntil(r models.Reminder, now time.Time) int {
	return int(r.DueDate.Sub(models.DateOf(now).Time).Hours() / 24)
}

func BillUrgency(r models.Reminder, now time.Time) Urgency {
	switch days := DaysUntil(r, now); {
	case days <= 3:
		return DueSoon
	case days <= 7:
		return ThisWeek
	}
	return Upcoming
}
