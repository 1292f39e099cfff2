package models

import "math"

// Summable is implemented by values that contribute a signed amount to a
// running total.
type Summable interface {
	// Extract returns the signed contribution of the value.
	Extract() int64
	// Empty returns the additive identity used to start a fold.
	Empty() int64
}

// Extract returns +amount for income and -amount for expenses.
// The uint32 magnitude is widened before negation so it never overflows.
func (i Item) Extract() int64 {
	v := int64(i.Amount)
	if i.Kind == Out {
		return -v
	}
	return v
}

// Empty returns 0.
func (Item) Empty() int64 {
	return 0
}

// Sum folds Extract over values starting from Empty. It returns
// ErrSumOverflow instead of wrapping when the total leaves the int64 range.
func Sum[T Summable](values []T) (int64, error) {
	var total int64
	var zero T
	// nil when T is itself an interface type
	if s, ok := any(zero).(Summable); ok {
		total = s.Empty()
	}
	for _, v := range values {
		n := v.Extract()
		if (n > 0 && total > math.MaxInt64-n) || (n < 0 && total < math.MinInt64-n) {
			return 0, ErrSumOverflow
		}
		total += n
	}
	return total, nil
}
