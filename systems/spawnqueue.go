package systems

import (
	"sort"
	"time"
)

type queuedSpawn struct {
	req SpawnRequest
	due time.Duration
}

// SpawnQueue holds staggered spawn requests until the frame loop releases them.
type SpawnQueue struct {
	pending []queuedSpawn
}

// Push schedules req for now + req.Delay.
func (q *SpawnQueue) Push(req SpawnRequest, now time.Duration) {
	q.pending = append(q.pending, queuedSpawn{req: req, due: now + req.Delay})
}

// Due removes every request due at or before now and appends them to out,
// earliest first. Requests with equal due times keep push order.
func (q *SpawnQueue) Due(now time.Duration, out []SpawnRequest) []SpawnRequest {
	if len(q.pending) == 0 {
		return out
	}

	keep := q.pending[:0]
	var ready []queuedSpawn
	for _, s := range q.pending {
		if s.due <= now {
			ready = append(ready, s)
		} else {
			keep = append(keep, s)
		}
	}
	q.pending = keep

	sort.SliceStable(ready, func(i, j int) bool { return ready[i].due < ready[j].due })
	for _, s := range ready {
		out = append(out, s.req)
	}
	return out
}

// Len returns the number of pending requests.
func (q *SpawnQueue) Len() int {
	return len(q.pending)
}

// Clear drops all pending requests.
func (q *SpawnQueue) Clear() {
	q.pending = q.pending[:0]
}
