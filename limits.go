package goadjacent

const (
	// NoLimit passed to Dataset.Limit disables the bound.
	NoLimit = -1

	DefaultCount       = 1
	DefaultAroundCount = 4
)

// IsNormalizedCount returns count, or defaultCount when count is not
// positive. The boolean is false when the input had to be replaced.
func IsNormalizedCount(count int, defaultCount int) (int, bool) {
	if count <= 0 {
		return defaultCount, false
	}

	return count, true
}

func NormalizeCount(count int, defaultCount int) int {
	ret, _ := IsNormalizedCount(count, defaultCount)
	return ret
}
