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

package data_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/openmeasure/mq-api/common"
	"github.com/openmeasure/mq-api/data"
)

func tz() *time.Location {
	return common.GetTimezone()
}

var _ = Describe("Query builder", func() {
	var spx *data.Asset

	BeforeEach(func() {
		spx = &data.Asset{
			ID:    "MA4B66MW5E27U8P32SB",
			BBID:  "SPX",
			Class: data.ClassEquity,
			Type:  data.TypeIndex,
		}
	})

	Describe("When validating queries", func() {
		Context("with missing pieces", func() {
			It("should reject a query without assets", func() {
				q := data.NewQuery().Measure(data.MeasurePrice)
				Expect(q.Validate()).To(Equal(data.ErrEmptyQuery))
			})

			It("should reject a query without a measure", func() {
				q := data.NewQuery(spx)
				Expect(q.Validate()).To(Equal(data.ErrNoMeasure))
			})

			It("should reject an inverted date range", func() {
				q := data.NewQuery(spx).Measure(data.MeasurePrice).
					Between(time.Date(2021, 1, 2, 0, 0, 0, 0, tz()), time.Date(2021, 1, 1, 0, 0, 0, 0, tz()))
				Expect(q.Validate()).To(Equal(data.ErrInvalidTimeRange))
			})
		})

		Context("with a complete query", func() {
			It("should validate", func() {
				q := data.NewQuery(spx).Measure(data.MeasureImpliedVolatility).
					Where("tenor", "1m").
					Between(time.Date(2021, 1, 1, 0, 0, 0, 0, tz()), time.Date(2021, 1, 31, 0, 0, 0, 0, tz()))
				Expect(q.Validate()).To(BeNil())
			})
		})
	})

	Describe("When hashing queries", func() {
		Context("with identical parameters", func() {
			It("should produce the same key regardless of date range", func() {
				a := data.NewQuery(spx).Measure(data.MeasurePrice).Where("tenor", "1m").
					Between(time.Date(2021, 1, 1, 0, 0, 0, 0, tz()), time.Date(2021, 1, 31, 0, 0, 0, 0, tz()))
				b := data.NewQuery(spx).Measure(data.MeasurePrice).Where("tenor", "1m").
					Between(time.Date(2022, 1, 1, 0, 0, 0, 0, tz()), time.Date(2022, 1, 31, 0, 0, 0, 0, tz()))
				Expect(a.HashKey()).To(Equal(b.HashKey()))
			})
		})

		Context("with differing parameters", func() {
			It("should produce different keys for different measures", func() {
				a := data.NewQuery(spx).Measure(data.MeasurePrice)
				b := data.NewQuery(spx).Measure(data.MeasureImpliedVolatility)
				Expect(a.HashKey()).ToNot(Equal(b.HashKey()))
			})

			It("should produce different keys for different qualifiers", func() {
				a := data.NewQuery(spx).Measure(data.MeasurePrice).Where("tenor", "1m")
				b := data.NewQuery(spx).Measure(data.MeasurePrice).Where("tenor", "3m")
				Expect(a.HashKey()).ToNot(Equal(b.HashKey()))
			})

			It("should produce different keys for intraday requests", func() {
				a := data.NewQuery(spx).Measure(data.MeasurePrice)
				b := data.NewQuery(spx).Measure(data.MeasurePrice).RealTime()
				Expect(a.HashKey()).ToNot(Equal(b.HashKey()))
			})
		})
	})
})
