package deck

import "math/rand/v2"

// SampleUpTo returns min(n, len(items)) elements drawn uniformly without
// replacement from items. It runs a partial Fisher-Yates shuffle over a
// working copy: only the first n positions are settled, so the cost is O(n)
// swaps regardless of how long the input is. The input slice is not touched.
func SampleUpTo(rng *rand.Rand, items []string, n int) []string {
	if n <= 0 || len(items) == 0 {
		return nil
	}
	if n > len(items) {
		n = len(items)
	}

	work := make([]string, len(items))
	copy(work, items)

	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(work)-i)
		work[i], work[j] = work[j], work[i]
	}

	return work[:n:n]
}
