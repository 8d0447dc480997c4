package file_allocation_demo

import (
	"cmp"
	"slices"
)

// FreeRuns maps the start index of every maximal run of free blocks to the
// length of the run. Every free block is covered by exactly one run, a single
// free block is a run of length 1.
//
// FreeRuns is a pure function of the disk state at the time it is computed, it
// is never kept up to date incrementally.
type FreeRuns map[int]int

type location struct {
	offset int
	length int
}

// loadFreeRuns scans the blocks and collects the free runs.
func loadFreeRuns(blocks []Block) FreeRuns {
	runs := FreeRuns{}
	freeCnt := 0
	freeStartsAt := 0

	for i := range blocks {
		if !blocks[i].IsFree() {
			if freeCnt > 0 {
				runs[freeStartsAt] = freeCnt
				freeCnt = 0
			}
			continue
		}
		if freeCnt == 0 {
			freeStartsAt = i
		}
		freeCnt++
	}
	if freeCnt > 0 {
		runs[freeStartsAt] = freeCnt
	}
	return runs
}

// locations returns the runs ordered by start index.
func (r FreeRuns) locations() []location {
	locs := make([]location, 0, len(r))
	for offset, length := range r {
		locs = append(locs, location{offset: offset, length: length})
	}
	slices.SortFunc(locs, func(a, b location) int {
		return cmp.Compare(a.offset, b.offset)
	})
	return locs
}

// FirstFit returns the lowest start index of a run that can hold size blocks.
func (r FreeRuns) FirstFit(size int) (int, bool) {
	for _, l := range r.locations() {
		if l.length >= size {
			return l.offset, true
		}
	}
	return 0, false
}

// Total returns the number of free blocks.
func (r FreeRuns) Total() int {
	total := 0
	for _, length := range r {
		total += length
	}
	return total
}

// Largest returns the length of the longest run, 0 when the disk is full.
func (r FreeRuns) Largest() int {
	largest := 0
	for _, length := range r {
		largest = max(largest, length)
	}
	return largest
}
