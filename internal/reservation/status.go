package reservation

import (
	"sort"
	"time"
)

// Classify derives the lifecycle status of [start, end] relative to now.
// Both endpoints count as ongoing.
func Classify(start, end, now time.Time) Status {
	if now.Before(start) {
		return StatusUpcoming
	}
	if now.After(end) {
		return StatusPast
	}
	return StatusOngoing
}

// Status is the reservation's lifecycle status at now.
func (r *Reservation) Status(now time.Time) Status {
	return Classify(r.StartTime, r.EndTime, now)
}

// SortByStartTime orders reservations by start time, oldest first, in place.
// Ties are broken by creation time, then by id.
func SortByStartTime(rs []*Reservation) {
	sort.SliceStable(rs, func(i, j int) bool {
		a, b := rs[i], rs[j]
		if !a.StartTime.Equal(b.StartTime) {
			return a.StartTime.Before(b.StartTime)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// GroupByResource buckets reservations by resource, preserving input order within each bucket.
func GroupByResource(rs []*Reservation) map[string][]*Reservation {
	groups := make(map[string][]*Reservation)
	for _, r := range rs {
		groups[r.Resource] = append(groups[r.Resource], r)
	}
	return groups
}

// Summarize counts rs by status at now and by resource.
func Summarize(rs []*Reservation, now time.Time) Summary {
	sum := Summary{
		Total:      len(rs),
		ByResource: make(map[string]int),
	}
	for _, r := range rs {
		switch r.Status(now) {
		case StatusUpcoming:
			sum.Upcoming++
		case StatusOngoing:
			sum.Ongoing++
		case StatusPast:
			sum.Past++
		}
	}
	for name, group := range GroupByResource(rs) {
		sum.ByResource[name] = len(group)
	}
	return sum
}
