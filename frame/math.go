// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package frame

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// AddScalar adds the scalar to all values in the frame
func (f *Frame[T]) AddScalar(scalar float64) *Frame[T] {
	for idx := range f.Vals {
		floats.AddConst(scalar, f.Vals[idx])
	}
	return f
}

// MulScalar multiplies all values in the frame by the scalar
func (f *Frame[T]) MulScalar(scalar float64) *Frame[T] {
	for idx := range f.Vals {
		floats.Scale(scalar, f.Vals[idx])
	}
	return f
}

// ColMean returns the arithmetic mean of the named column, or NaN if the
// column does not exist or is empty
func (f *Frame[T]) ColMean(colName string) float64 {
	col, err := f.Col(colName)
	if err != nil {
		return math.NaN()
	}
	if len(col) == 0 {
		return math.NaN()
	}
	return stat.Mean(col, nil)
}

// ColWeightedMean returns the weighted mean of the named column, or NaN if
// the column does not exist or the weights do not align
func (f *Frame[T]) ColWeightedMean(colName string, weights []float64) float64 {
	col, err := f.Col(colName)
	if err != nil {
		return math.NaN()
	}
	if len(col) == 0 || len(col) != len(weights) {
		return math.NaN()
	}
	return stat.Mean(col, weights)
}

// Mean averages the frames together column wise; all frames must share the
// same index and column layout
func Mean[T comparable](frames ...*Frame[T]) (*Frame[T], error) {
	if len(frames) == 0 {
		return nil, ErrIndexNotAligned
	}

	result := frames[0].Copy()
	for _, other := range frames[1:] {
		if other.Len() != result.Len() || other.ColCount() != result.ColCount() {
			return nil, ErrIndexNotAligned
		}
		for idx, rowKey := range other.Index {
			if rowKey != result.Index[idx] {
				return nil, ErrIndexNotAligned
			}
		}
		for colIdx := range result.Vals {
			floats.Add(result.Vals[colIdx], other.Vals[colIdx])
		}
	}

	count := float64(len(frames))
	for colIdx := range result.Vals {
		floats.Scale(1/count, result.Vals[colIdx])
	}

	return result, nil
}
