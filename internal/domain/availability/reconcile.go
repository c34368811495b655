package availability

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/termin-notifier/internal/models"
)

// Plan is the set of store mutations that brings a doctor's local slots in
// line with a remote snapshot.
type Plan struct {
	ToDelete []models.Timeslot
	ToInsert []time.Time
}

func (p Plan) Empty() bool {
	return len(p.ToDelete) == 0 && len(p.ToInsert) == 0
}

// Reconcile is pure. A stored slot is deleted when it is before now or no
// longer offered remotely. A remote time is inserted when no stored slot
// (expired ones included) carried it. Instants compare by value, so callers
// may pass times in any location.
func Reconcile(local []models.Timeslot, remote []time.Time, now time.Time) Plan {
	offered := make(map[int64]time.Time, len(remote))
	for _, t := range remote {
		offered[t.UnixNano()] = t
	}

	stored := make(map[int64]struct{}, len(local))
	var plan Plan

	for _, slot := range local {
		key := slot.FreeSlot.UnixNano()
		stored[key] = struct{}{}

		_, stillOffered := offered[key]
		if slot.FreeSlot.Before(now) || !stillOffered {
			plan.ToDelete = append(plan.ToDelete, slot)
		}
	}

	for key, t := range offered {
		if _, ok := stored[key]; !ok {
			plan.ToInsert = append(plan.ToInsert, t.UTC())
		}
	}

	sort.Slice(plan.ToDelete, func(i, j int) bool {
		a, b := plan.ToDelete[i], plan.ToDelete[j]
		if !a.FreeSlot.Equal(b.FreeSlot) {
			return a.FreeSlot.Before(b.FreeSlot)
		}
		return a.ID < b.ID
	})
	SortTimes(plan.ToInsert)

	return plan
}

func SortTimes(ts []time.Time) {
	sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
}

// DedupeTimes returns the distinct instants of ts in UTC, ascending.
func DedupeTimes(ts []time.Time) []time.Time {
	seen := make(map[int64]struct{}, len(ts))
	out := make([]time.Time, 0, len(ts))
	for _, t := range ts {
		key := t.UnixNano()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t.UTC())
	}
	SortTimes(out)
	return out
}
