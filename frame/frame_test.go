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

package frame_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/openmeasure/mq-api/frame"
)

var _ = Describe("Frame operations", func() {
	var f *frame.Frame[float64]

	BeforeEach(func() {
		f = frame.New[float64]("vol")
		f.InsertRow(0.25, 0.21)
		f.InsertRow(0.50, 0.19)
		f.InsertRow(0.75, 0.23)
	})

	Describe("When building a frame row by row", func() {
		Context("with a single column", func() {
			It("should have the expected dimensions", func() {
				Expect(f.Len()).To(Equal(3))
				Expect(f.ColCount()).To(Equal(1))
			})

			It("should resolve column names", func() {
				Expect(f.ColIndex("vol")).To(Equal(0))
				Expect(f.ColIndex("missing")).To(Equal(-1))
			})

			It("should convert to a map", func() {
				m := f.AsMap("vol")
				Expect(m).To(HaveLen(3))
				Expect(m[0.50]).To(BeNumerically("~", 0.19, 1e-9))
			})

			It("should return an error for a missing column", func() {
				_, err := f.Col("missing")
				Expect(err).To(Equal(frame.ErrColNotFound))
			})
		})

		Context("with short rows", func() {
			It("should pad missing values with NaN", func() {
				f.Insert("skew", []float64{.01, .02, .03})
				f.InsertRow(1.0, 0.25)
				skew, err := f.Col("skew")
				Expect(err).To(BeNil())
				Expect(math.IsNaN(skew[3])).To(BeTrue())
			})
		})
	})

	Describe("When copying a frame", func() {
		Context("and mutating the copy", func() {
			It("should not modify the original", func() {
				copied := f.Copy()
				copied.Vals[0][0] = 99
				Expect(f.Vals[0][0]).To(BeNumerically("~", 0.21, 1e-9))
			})
		})
	})

	Describe("When dropping values", func() {
		Context("with NaN rows", func() {
			It("should remove rows containing NaN", func() {
				f.InsertRow(1.0, math.NaN())
				f.Drop(math.NaN())
				Expect(f.Len()).To(Equal(3))
				Expect(f.Index).To(Equal([]float64{0.25, 0.50, 0.75}))
			})
		})
	})
})
