package analysis

import "math"

type Settle struct {
	// Index is the first sample after which the series stays within the
	// tolerance of Value.
	Index int
	// Value is the mean of the series from Index on.
	Value   float64
	Settled bool
}

// Settling finds where series comes to rest. The final sample is the
// reference; a series is settled when that tail spans more than one sample.
func Settling(series []float64, tol float64) Settle {
	n := len(series)
	if n == 0 {
		return Settle{}
	}
	final := series[n-1]

	idx := 0
	for i := n - 1; i >= 0; i-- {
		if math.Abs(series[i]-final) > tol || math.IsNaN(series[i]) {
			idx = i + 1
			break
		}
	}

	sum := 0.0
	for _, v := range series[idx:] {
		sum += v
	}
	return Settle{
		Index:   idx,
		Value:   sum / float64(n-idx),
		Settled: n-idx > 1,
	}
}
