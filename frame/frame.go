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
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
)

var (
	ErrIndexNotAligned = errors.New("index does not align")
	ErrColNotFound     = errors.New("column not found")
)

// Frame stores a table of values organized by a typed index. Vals is column
// major:
//
//	       strike  vol
//	0.25   1       4
//	0.50   2       5
//	0.75   3       6
//
//	Vals[0][0] = 1
//	Vals[1][2] = 6
type Frame[T comparable] struct {
	Index    []T
	ColNames []string
	Vals     [][]float64
}

// New constructs an empty frame with the given columns
func New[T comparable](colNames ...string) *Frame[T] {
	vals := make([][]float64, len(colNames))
	for ii := range vals {
		vals[ii] = []float64{}
	}
	return &Frame[T]{
		Index:    []T{},
		ColNames: colNames,
		Vals:     vals,
	}
}

// Len returns the number of rows in the frame
func (f *Frame[T]) Len() int {
	return len(f.Index)
}

// ColCount returns the number of columns in the frame
func (f *Frame[T]) ColCount() int {
	return len(f.ColNames)
}

// ColIndex returns the index of the named column, or -1 if it's not present
func (f *Frame[T]) ColIndex(colName string) int {
	for idx, col := range f.ColNames {
		if col == colName {
			return idx
		}
	}
	return -1
}

// Col returns the values of the named column
func (f *Frame[T]) Col(colName string) ([]float64, error) {
	idx := f.ColIndex(colName)
	if idx == -1 {
		return nil, ErrColNotFound
	}
	return f.Vals[idx], nil
}

// AsMap creates a map with the index as the key and the specified column as
// the value
func (f *Frame[T]) AsMap(colName string) map[T]float64 {
	res := make(map[T]float64, f.Len())
	colIdx := f.ColIndex(colName)
	if colIdx == -1 {
		return res
	}

	for idx, rowKey := range f.Index {
		res[rowKey] = f.Vals[colIdx][idx]
	}

	return res
}

// Copy creates a deep copy of the frame
func (f *Frame[T]) Copy() *Frame[T] {
	copied := &Frame[T]{
		Index:    make([]T, len(f.Index)),
		ColNames: make([]string, len(f.ColNames)),
		Vals:     make([][]float64, len(f.Vals)),
	}
	copy(copied.Index, f.Index)
	copy(copied.ColNames, f.ColNames)
	for idx := range f.Vals {
		copied.Vals[idx] = make([]float64, len(f.Vals[idx]))
		copy(copied.Vals[idx], f.Vals[idx])
	}
	return copied
}

// Insert adds a new column to the frame
func (f *Frame[T]) Insert(name string, col []float64) *Frame[T] {
	f.ColNames = append(f.ColNames, name)
	f.Vals = append(f.Vals, col)
	return f
}

// InsertRow adds a new row to the frame. Vals must be specified in column
// order
func (f *Frame[T]) InsertRow(idx T, vals ...float64) *Frame[T] {
	f.Index = append(f.Index, idx)
	for colIdx := range f.ColNames {
		if colIdx < len(vals) {
			f.Vals[colIdx] = append(f.Vals[colIdx], vals[colIdx])
		} else {
			f.Vals[colIdx] = append(f.Vals[colIdx], math.NaN())
		}
	}
	return f
}

// Drop removes rows where any column has the value val. To drop rows with
// NaNs pass math.NaN() as the value
func (f *Frame[T]) Drop(val float64) *Frame[T] {
	isNaN := math.IsNaN(val)
	newIndex := make([]T, 0, len(f.Index))
	newVals := make([][]float64, len(f.Vals))

	for rowIdx, rowKey := range f.Index {
		keep := true
		for colIdx := range f.Vals {
			v := f.Vals[colIdx][rowIdx]
			if v == val || (isNaN && math.IsNaN(v)) {
				keep = false
				break
			}
		}
		if keep {
			newIndex = append(newIndex, rowKey)
			for colIdx := range f.Vals {
				newVals[colIdx] = append(newVals[colIdx], f.Vals[colIdx][rowIdx])
			}
		}
	}

	f.Index = newIndex
	f.Vals = newVals
	return f
}

// String renders the frame as an ascii table
func (f *Frame[T]) String(indexName string) string {
	s := &strings.Builder{}

	table := tablewriter.NewWriter(s)
	table.SetHeader(append([]string{indexName}, f.ColNames...))
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")

	for rowIdx, rowKey := range f.Index {
		row := make([]string, 0, len(f.ColNames)+1)
		row = append(row, fmt.Sprintf("%v", rowKey))
		for colIdx := range f.Vals {
			row = append(row, strconv.FormatFloat(f.Vals[colIdx][rowIdx], 'f', -1, 64))
		}
		table.Append(row)
	}

	table.Render()
	return s.String()
}
