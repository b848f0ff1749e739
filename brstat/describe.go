// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package brstat

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// ErrUndefined is returned when a statistic
// is not defined for a population.
var ErrUndefined = errors.New("undefined statistic")

// Summary is a description of a population of values.
type Summary struct {
	Median float64
	Mean   float64

	// Population variance
	Var float64

	// Population excess kurtosis
	// and skewness.
	// They are NaN if the variance is zero.
	Kurt float64
	Skew float64
}

// Describe returns the summary of a population.
// The population must have at least two values.
func Describe(x []float64) (Summary, error) {
	if len(x) <= 1 {
		return Summary{}, fmt.Errorf("population of size %d: %w", len(x), ErrUndefined)
	}

	s := Summary{
		Median: median(x),
		Mean:   stat.Mean(x, nil),
		Var:    stat.Moment(2, x, nil),
		Kurt:   math.NaN(),
		Skew:   math.NaN(),
	}
	if s.Var > 0 {
		s.Skew = stat.Moment(3, x, nil) / math.Pow(s.Var, 1.5)
		s.Kurt = stat.Moment(4, x, nil)/(s.Var*s.Var) - 3
	}
	return s, nil
}

func median(x []float64) float64 {
	v := slices.Clone(x)
	slices.Sort(v)
	n := len(v)
	if n%2 == 1 {
		return v[n/2]
	}
	return (v[n/2-1] + v[n/2]) / 2
}
