// Package tally turns recorded answers into per-option vote counts.
package tally

import "strconv"

// Counts maps a 1-based option index, as text, to the number of votes
// it received. String keys because that is the shape clients render.
type Counts map[string]int

// Count aggregates answers (participant name -> 1-based option index)
// into per-option counts. Every index from 1 to numOptions is present,
// zero or not, so clients get stable keys. Answers outside the option
// range are ignored.
func Count(answers map[string]int, numOptions int) Counts {
	counts := make(Counts, numOptions)
	for i := 1; i <= numOptions; i++ {
		counts[strconv.Itoa(i)] = 0
	}
	for _, opt := range answers {
		if opt < 1 || opt > numOptions {
			continue
		}
		counts[strconv.Itoa(opt)]++
	}
	return counts
}

// Total returns the sum of all counts.
func (c Counts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}
