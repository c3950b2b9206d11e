// NextTrack - Adaptive Music Recommendation Service
// Copyright 2026 zayLatt25
// SPDX-License-Identifier: MIT
// https://github.com/zayLatt25/NextTrack

package recommend

// orderedCounter counts string occurrences while remembering first-seen
// order, so that ties break deterministically.
type orderedCounter struct {
	counts map[string]int
	order  []string
}

func newOrderedCounter() *orderedCounter {
	return &orderedCounter{counts: make(map[string]int)}
}

func (c *orderedCounter) add(value string) {
	if _, ok := c.counts[value]; !ok {
		c.order = append(c.order, value)
	}
	c.counts[value]++
}

// top returns up to n values by descending count, first-seen order on ties.
func (c *orderedCounter) top(n int) []string {
	ranked := append([]string(nil), c.order...)
	// Stable selection: repeated max scans keep first-seen order on ties.
	var out []string
	used := make(map[string]struct{}, n)
	for len(out) < n && len(out) < len(ranked) {
		best := ""
		bestCount := -1
		for _, v := range ranked {
			if _, ok := used[v]; ok {
				continue
			}
			if c.counts[v] > bestCount {
				best = v
				bestCount = c.counts[v]
			}
		}
		if bestCount < 0 {
			break
		}
		used[best] = struct{}{}
		out = append(out, best)
	}
	return out
}

// PredictNextGenre implements the simple predictor: among transitions
// "lastGenre->X" in the history, pick the X with the highest count, ties
// broken by first-seen order. Falls back to the last genre when the history
// holds no transition out of it. An empty history predicts nothing.
func PredictNextGenre(history []TrackMetadata) (string, bool) {
	last, ok := LastTrack(history)
	if !ok {
		return "", false
	}

	direct := newOrderedCounter()
	for i := 1; i < len(history); i++ {
		if history[i-1].Genre == last.Genre {
			direct.add(history[i].Genre)
		}
	}

	if top := direct.top(1); len(top) > 0 {
		return top[0], true
	}
	return last.Genre, true
}

// PredictGenreSet implements the acceptance-set predictor: the union of the
// top two direct transitions from the last genre with the top three most
// frequent genres across the whole history. Falls back to {lastGenre} when
// the union is empty. This form is more robust on sparse histories and is
// the engine default.
func PredictGenreSet(history []TrackMetadata) []string {
	last, ok := LastTrack(history)
	if !ok {
		return nil
	}

	direct := newOrderedCounter()
	for i := 1; i < len(history); i++ {
		if history[i-1].Genre == last.Genre {
			direct.add(history[i].Genre)
		}
	}

	overall := newOrderedCounter()
	for _, t := range history {
		overall.add(t.Genre)
	}

	set := make(map[string]struct{})
	var out []string
	for _, g := range direct.top(2) {
		if _, ok := set[g]; !ok {
			set[g] = struct{}{}
			out = append(out, g)
		}
	}
	for _, g := range overall.top(3) {
		if _, ok := set[g]; !ok {
			set[g] = struct{}{}
			out = append(out, g)
		}
	}

	if len(out) == 0 {
		return []string{last.Genre}
	}
	return out
}

// FrequentArtists returns up to n artists by play count in the history,
// first-seen order on ties.
func FrequentArtists(history []TrackMetadata, n int) []string {
	counter := newOrderedCounter()
	for _, t := range history {
		if t.Artist != "" {
			counter.add(t.Artist)
		}
	}
	return counter.top(n)
}
