package cache

import (
	"math/rand"
)

// ReplacementPolicy selects the eviction strategy within a set.
type ReplacementPolicy int

// Supported replacement policies.
const (
	LRU ReplacementPolicy = iota
	FIFO
	Random
	Smallest
)

func (p ReplacementPolicy) String() string {
	switch p {
	case LRU:
		return "LRU"
	case FIFO:
		return "FIFO"
	case Random:
		return "RANDOM"
	case Smallest:
		return "SMALLEST"
	default:
		return "INVALID"
	}
}

// maxVictimAttempts bounds the retry loops of the stochastic and rotating
// policies. A single submission cannot legitimately lock more lines than
// exist, so exhausting the budget means eviction starvation.
const maxVictimAttempts = 1000

// A victimFinder picks the line to evict within a set. It must never return
// a locked index. The second return value is false on starvation.
type victimFinder interface {
	FindVictim(lines []Line, geom geometry, setIndex int, locked *lockSet) (int, bool)
}

// lruVictimFinder evicts the line with the largest age. Falls back to
// random selection when every aged candidate is locked.
type lruVictimFinder struct {
	fallback *randomVictimFinder
}

func (f *lruVictimFinder) FindVictim(
	lines []Line,
	geom geometry,
	setIndex int,
	locked *lockSet,
) (int, bool) {
	oldestIdx := -1
	oldestAge := int64(-1)

	lo, hi := geom.setBounds(setIndex)
	for idx := lo; idx < hi; idx++ {
		if int64(lines[idx].Age) > oldestAge {
			if locked.Contains(idx) {
				continue
			}

			oldestAge = int64(lines[idx].Age)
			oldestIdx = idx
		}
	}

	if oldestIdx == -1 {
		return f.fallback.FindVictim(lines, geom, setIndex, locked)
	}

	return oldestIdx, true
}

// fifoVictimFinder keeps a rotating cursor per set and evicts the line
// under the cursor, skipping locked lines.
type fifoVictimFinder struct {
	cursors []int
}

func newFIFOVictimFinder(numSets int) *fifoVictimFinder {
	return &fifoVictimFinder{cursors: make([]int, numSets)}
}

func (f *fifoVictimFinder) FindVictim(
	lines []Line,
	geom geometry,
	setIndex int,
	locked *lockSet,
) (int, bool) {
	idx := -1
	for attempt := 0; attempt < maxVictimAttempts; attempt++ {
		f.cursors[setIndex] = (f.cursors[setIndex] + 1) % geom.linesPerSet
		idx = setIndex*geom.linesPerSet + f.cursors[setIndex]

		if !locked.Contains(idx) {
			return idx, true
		}
	}

	return -1, false
}

// randomVictimFinder draws uniform indices within the set until one is
// unlocked.
type randomVictimFinder struct {
	rng *rand.Rand
}

func (f *randomVictimFinder) FindVictim(
	lines []Line,
	geom geometry,
	setIndex int,
	locked *lockSet,
) (int, bool) {
	for attempt := 0; attempt < maxVictimAttempts; attempt++ {
		idx := setIndex*geom.linesPerSet + f.rng.Intn(geom.linesPerSet)

		if !locked.Contains(idx) {
			return idx, true
		}
	}

	return -1, false
}

// findVictimAnywhere draws uniform indices across the whole line table.
// Used by the direct-mapped organisation when the sole candidate line of a
// set is locked.
func (f *randomVictimFinder) findVictimAnywhere(
	lines []Line,
	locked *lockSet,
) (int, bool) {
	for attempt := 0; attempt < maxVictimAttempts; attempt++ {
		idx := f.rng.Intn(len(lines))

		if !locked.Contains(idx) {
			return idx, true
		}
	}

	return -1, false
}

// smallestVictimFinder evicts the populated line holding the fewest bytes.
// Falls back to random selection when no populated line is unlocked.
type smallestVictimFinder struct {
	fallback *randomVictimFinder
}

func (f *smallestVictimFinder) FindVictim(
	lines []Line,
	geom geometry,
	setIndex int,
	locked *lockSet,
) (int, bool) {
	smallestIdx := -1
	smallestSize := -1

	lo, hi := geom.setBounds(setIndex)
	for idx := lo; idx < hi; idx++ {
		if lines[idx].IsEmpty() {
			continue
		}

		if smallestSize == -1 || lines[idx].Size < smallestSize {
			if locked.Contains(idx) {
				continue
			}

			smallestSize = lines[idx].Size
			smallestIdx = idx
		}
	}

	if smallestIdx == -1 {
		return f.fallback.FindVictim(lines, geom, setIndex, locked)
	}

	return smallestIdx, true
}
