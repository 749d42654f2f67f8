package analytics

import "sort"

// Tally counts keys and remembers the order they were first seen in.
type Tally struct {
	order  []string
	counts map[string]int64
}

// Count is one ranked Tally row.
type Count struct {
	Key string
	N   int64
}

func NewTally() *Tally {
	return &Tally{counts: make(map[string]int64)}
}

func (t *Tally) Add(key string, n int64) {
	if _, ok := t.counts[key]; !ok {
		t.order = append(t.order, key)
	}
	t.counts[key] += n
}

// Ranked returns keys by descending count; ties keep first-seen order.
// limit <= 0 means no limit.
func (t *Tally) Ranked(limit int) []Count {
	out := make([]Count, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, Count{Key: k, N: t.counts[k]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].N > out[j].N })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
