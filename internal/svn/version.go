package svn

import (
	"strconv"
	"strings"
)

// CompareVersions compares two dotted numeric versions. It returns -1, 0 or 1
// as a is older than, equal to or newer than b. Missing components count as
// zero. ok is false if either version is not numeric.
func CompareVersions(a, b string) (cmp int, ok bool) {
	av := parseVersion(a)
	bv := parseVersion(b)
	if av == nil || bv == nil {
		return 0, false
	}
	for i := range 3 {
		if av[i] > bv[i] {
			return 1, true
		}
		if av[i] < bv[i] {
			return -1, true
		}
	}
	return 0, true
}

// parseVersion strips a "v" prefix and splits "major[.minor[.patch]]" into
// three ints. Returns nil if parsing fails.
func parseVersion(v string) []int {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ".")
	if len(parts) > 3 {
		return nil
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil
		}
		nums[i] = n
	}
	return nums
}
