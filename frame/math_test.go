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

var _ = Describe("Frame math", func() {
	var f *frame.Frame[string]

	BeforeEach(func() {
		f = frame.New[string]("price")
		f.InsertRow("F21", 2.880)
		f.InsertRow("G21", 2.844)
		f.InsertRow("H21", 2.726)
	})

	Describe("When applying scalar operations", func() {
		Context("with AddScalar", func() {
			It("should shift every value", func() {
				f.AddScalar(1.0)
				Expect(f.Vals[0][0]).To(BeNumerically("~", 3.880, 1e-9))
				Expect(f.Vals[0][2]).To(BeNumerically("~", 3.726, 1e-9))
			})
		})

		Context("with MulScalar", func() {
			It("should scale every value", func() {
				f.MulScalar(2.0)
				Expect(f.Vals[0][1]).To(BeNumerically("~", 5.688, 1e-9))
			})
		})
	})

	Describe("When averaging a column", func() {
		Context("with equal weights", func() {
			It("should return the arithmetic mean", func() {
				Expect(f.ColMean("price")).To(BeNumerically("~", 2.8166667, 1e-6))
			})
		})

		Context("with day-count weights", func() {
			It("should return the weighted mean", func() {
				mean := f.ColWeightedMean("price", []float64{31, 28, 31})
				Expect(mean).To(BeNumerically("~", 2.8157556, 1e-6))
			})
		})

		Context("with a missing column", func() {
			It("should return NaN", func() {
				Expect(math.IsNaN(f.ColMean("missing"))).To(BeTrue())
			})
		})

		Context("with misaligned weights", func() {
			It("should return NaN", func() {
				Expect(math.IsNaN(f.ColWeightedMean("price", []float64{1, 2}))).To(BeTrue())
			})
		})
	})

	Describe("When averaging multiple frames", func() {
		Context("with aligned indexes", func() {
			It("should average column wise", func() {
				other := frame.New[string]("price")
				other.InsertRow("F21", 3.120)
				other.InsertRow("G21", 3.156)
				other.InsertRow("H21", 3.274)

				avg, err := frame.Mean(f, other)
				Expect(err).To(BeNil())
				Expect(avg.Vals[0][0]).To(BeNumerically("~", 3.0, 1e-9))
				Expect(avg.Vals[0][1]).To(BeNumerically("~", 3.0, 1e-9))
				Expect(avg.Vals[0][2]).To(BeNumerically("~", 3.0, 1e-9))
			})
		})

		Context("with misaligned indexes", func() {
			It("should return an error", func() {
				other := frame.New[string]("price")
				other.InsertRow("J21", 3.120)
				other.InsertRow("K21", 3.156)
				other.InsertRow("M21", 3.274)

				_, err := frame.Mean(f, other)
				Expect(err).To(Equal(frame.ErrIndexNotAligned))
			})
		})
	})
})
