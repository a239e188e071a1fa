package main

import (
	"fmt"
	"sort"
)

// WindowCap bounds how much history feeds the signal maps.
const WindowCap = 80

// history is most-recent-first throughout this file.

func frequencyMap(history [][]int) map[int]float64 {
	m := make(map[int]float64, NumberMax)
	for n := 1; n <= NumberMax; n++ {
		m[n] = 0
	}
	for _, draw := range history {
		for _, n := range draw {
			if n >= 1 && n <= NumberMax {
				m[n]++
			}
		}
	}
	return m
}

// omissionMap measures how long each number has been absent: 1 means it
// appeared in the most recent draw, len(history)+1 means never seen in
// the window.
func omissionMap(history [][]int) map[int]float64 {
	m := make(map[int]float64, NumberMax)
	absent := float64(len(history) + 1)
	for n := 1; n <= NumberMax; n++ {
		m[n] = absent
	}
	for i := len(history) - 1; i >= 0; i-- {
		for _, n := range history[i] {
			if n >= 1 && n <= NumberMax {
				m[n] = float64(i + 1)
			}
		}
	}
	return m
}

// momentumMap sums a recency decay 1/(1+i) over the draws each number
// appears in, so recent appearances dominate.
func momentumMap(history [][]int) map[int]float64 {
	m := make(map[int]float64, NumberMax)
	for n := 1; n <= NumberMax; n++ {
		m[n] = 0
	}
	for i, draw := range history {
		w := 1.0 / float64(1+i)
		for _, n := range draw {
			if n >= 1 && n <= NumberMax {
				m[n] += w
			}
		}
	}
	return m
}

// normalizeMap rescales values into [0,1] by min-max. A degenerate map
// where every value is equal carries no signal and collapses to zeros.
func normalizeMap(m map[int]float64) map[int]float64 {
	out := make(map[int]float64, len(m))
	first := true
	var lo, hi float64
	for _, v := range m {
		if first {
			lo, hi = v, v
			first = false
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi == lo {
		for n := range m {
			out[n] = 0
		}
		return out
	}
	span := hi - lo
	for n, v := range m {
		out[n] = (v - lo) / span
	}
	return out
}

// compositeScores blends the normalized signals by a strategy's weight
// triple. Omission is used directly: a long-absent number scores high on
// the omission axis, which is what a cold-rebound strategy wants.
func compositeScores(def StrategyDef, history [][]int) map[int]float64 {
	freq := normalizeMap(frequencyMap(history))
	omit := normalizeMap(omissionMap(history))
	mom := normalizeMap(momentumMap(history))

	scores := make(map[int]float64, NumberMax)
	for n := 1; n <= NumberMax; n++ {
		scores[n] = def.WFreq*freq[n] + def.WOmission*omit[n] + def.WMomentum*mom[n]
	}
	return scores
}

// ensembleScores rank-votes across the base strategies: each base map
// awards every number 49-rank votes, so a number ranked first everywhere
// collects the most. The vote tally is normalized back into [0,1].
func ensembleScores(history [][]int) map[int]float64 {
	votes := make(map[int]float64, NumberMax)
	for n := 1; n <= NumberMax; n++ {
		votes[n] = 0
	}
	for _, def := range Strategies {
		if def.Ensemble {
			continue
		}
		scores := compositeScores(def, history)
		for rank, n := range rankedNumbers(scores) {
			votes[n] += float64(NumberMax - rank)
		}
	}
	return normalizeMap(votes)
}

// rankedNumbers orders 1..49 by score descending, ties broken by the
// smaller number.
func rankedNumbers(scores map[int]float64) []int {
	nums := make([]int, 0, NumberMax)
	for n := 1; n <= NumberMax; n++ {
		nums = append(nums, n)
	}
	sort.SliceStable(nums, func(i, j int) bool {
		if scores[nums[i]] != scores[nums[j]] {
			return scores[nums[i]] > scores[nums[j]]
		}
		return nums[i] < nums[j]
	})
	return nums
}

// selectNumbers fills six slots greedily in score order. A candidate is
// deferred when accepting it would leave a selection of four or more all
// one parity; a second pass fills any remaining slots from the deferred
// list with the constraint waived.
func selectNumbers(ranked []int) []int {
	selected := make([]int, 0, DrawSize)
	var deferred []int

	for _, n := range ranked {
		if len(selected) >= DrawSize {
			break
		}
		proposal := append(append(make([]int, 0, len(selected)+1), selected...), n)
		if len(proposal) >= 4 && samePolarity(proposal) {
			deferred = append(deferred, n)
			continue
		}
		selected = append(selected, n)
	}
	for _, n := range deferred {
		if len(selected) >= DrawSize {
			break
		}
		selected = append(selected, n)
	}
	return selected
}

func samePolarity(nums []int) bool {
	if len(nums) == 0 {
		return false
	}
	parity := nums[0] % 2
	for _, n := range nums[1:] {
		if n%2 != parity {
			return false
		}
	}
	return true
}

// ScoreStrategy runs one strategy over recent history and returns its six
// ranked picks plus the best number left outside the six as the special
// candidate.
func ScoreStrategy(def StrategyDef, history [][]int) ([]Pick, SpecialCandidate) {
	if len(history) > WindowCap {
		history = history[:WindowCap]
	}

	var scores map[int]float64
	if def.Ensemble {
		scores = ensembleScores(history)
	} else {
		scores = compositeScores(def, history)
	}

	ranked := rankedNumbers(scores)
	chosen := selectNumbers(ranked)

	picks := make([]Pick, 0, len(chosen))
	inSet := make(map[int]bool, len(chosen))
	for i, n := range chosen {
		inSet[n] = true
		picks = append(picks, Pick{
			Number: n,
			Rank:   i + 1,
			Score:  scores[n],
			Reason: fmt.Sprintf("%s score=%.4f", def.Label, scores[n]),
		})
	}

	var special SpecialCandidate
	for _, n := range ranked {
		if !inSet[n] {
			special = SpecialCandidate{Number: n, Score: scores[n]}
			break
		}
	}
	return picks, special
}
