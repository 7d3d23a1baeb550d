package mathx

import "golang.org/x/exp/constraints"

// Between reports lo <= v && v <= hi (order-insensitive).
func Between[T constraints.Ordered](v, lo, hi T) bool {
	if hi < lo {
		lo, hi = hi, lo
	}
	return v >= lo && v <= hi
}

// In reports whether v is one of set.
// Legal divider tables are a handful of entries, so a linear scan is enough.
func In[T constraints.Integer](v T, set []T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
