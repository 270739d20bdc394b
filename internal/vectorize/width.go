package vectorize

import (
	"sort"
	"strconv"
	"strings"
)

// elementBits parses an IR element type ("i64", "f32", ...) into its
// bit width.
func elementBits(elementType string) (int, bool) {
	if elementType == "" {
		return 0, false
	}
	prefix := elementType[:1]
	if prefix != "i" && prefix != "f" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(elementType, prefix))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// SelectWidth runs phase 4 (§4.5 "Width selection"): pick the widest
// configured SIMD width evenly divisible by the element's bit width,
// and derive the resulting lane count. An i64 element at a 512-bit
// width yields lanes=8, matching §8 scenario 3's vector-width-8
// accumulator. Returns lanes=1 (no vectorization) if no configured
// width fits at least two lanes.
func SelectWidth(widths []int, elementType string) (bitWidth, lanes int) {
	bits, ok := elementBits(elementType)
	if !ok || bits == 0 {
		return 0, 1
	}
	sorted := append([]int(nil), widths...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	for _, w := range sorted {
		if w <= 0 || w%bits != 0 {
			continue
		}
		if l := w / bits; l >= 2 {
			return w, l
		}
	}
	return bits, 1
}
