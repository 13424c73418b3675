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

package measures_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/openmeasure/mq-api/common"
	"github.com/openmeasure/mq-api/data"
	"github.com/openmeasure/mq-api/measures"
)

var _ = Describe("Tenor parsing", func() {
	DescribeTable("when parsing well-formed tenors",
		func(code string, count int, unit measures.TenorUnit) {
			tenor, err := measures.ParseTenor(code)
			Expect(err).To(BeNil())
			Expect(tenor.Count).To(Equal(count))
			Expect(tenor.Unit).To(Equal(unit))
			Expect(tenor.String()).To(Equal(code))
		},
		Entry("3 days", "3d", 3, measures.TenorDays),
		Entry("2 weeks", "2w", 2, measures.TenorWeeks),
		Entry("6 months", "6m", 6, measures.TenorMonths),
		Entry("10 years", "10y", 10, measures.TenorYears),
		Entry("5 business days", "5b", 5, measures.TenorBusinessDays),
	)

	DescribeTable("when parsing malformed tenors",
		func(code string) {
			_, err := measures.ParseTenor(code)
			Expect(err).To(Equal(measures.ErrUnsupportedTenor))
		},
		Entry("empty string", ""),
		Entry("missing unit", "3"),
		Entry("missing count", "m"),
		Entry("unknown unit", "3x"),
		Entry("uppercase unit", "3M"),
		Entry("trailing garbage", "3m2"),
	)

	DescribeTable("when converting tenors to months",
		func(code string, months int, expectedErr error) {
			m, err := measures.TenorToMonths(code)
			if expectedErr != nil {
				Expect(err).To(Equal(expectedErr))
			} else {
				Expect(err).To(BeNil())
				Expect(m).To(Equal(months))
			}
		},
		Entry("3 months", "3m", 3, nil),
		Entry("2 years", "2y", 24, nil),
		Entry("days do not convert", "5d", 0, measures.ErrUnsupportedTenor),
		Entry("business days do not convert", "5b", 0, measures.ErrUnsupportedTenor),
	)

	DescribeTable("when rendering months as tenors",
		func(months int, code string, expectedErr error) {
			got, err := measures.MonthsToTenor(months)
			if expectedErr != nil {
				Expect(err).To(Equal(expectedErr))
			} else {
				Expect(err).To(BeNil())
				Expect(got).To(Equal(code))
			}
		},
		Entry("18 months", 18, "18m", nil),
		Entry("two years", 24, "2y", nil),
		Entry("one month", 1, "1m", nil),
		Entry("zero months", 0, "", measures.ErrUnsupportedTenor),
	)

	DescribeTable("when validating forward tenors",
		func(code string, valid bool) {
			err := measures.CheckForwardTenor(code)
			if valid {
				Expect(err).To(BeNil())
			} else {
				Expect(err).To(Equal(measures.ErrUnsupportedTenor))
			}
		},
		Entry("spot starting", "", true),
		Entry("zero business days", "0b", true),
		Entry("two years forward", "2y", true),
		Entry("six months forward", "6m", true),
		Entry("first IMM date", "imm1", true),
		Entry("fourth IMM date", "imm4", true),
		Entry("fifth IMM date", "imm5", false),
		Entry("first FRB date", "frb1", true),
		Entry("twelfth FRB date", "frb12", true),
		Entry("zeroth FRB date", "frb0", false),
		Entry("calendar days not allowed", "3d", false),
	)
})

var _ = Describe("Tenor offsets", func() {
	var (
		manager *data.Manager
		asOf    time.Time
	)

	BeforeEach(func() {
		manager = data.NewManager(data.NewClientWithHTTP("https://mds.example.com", "token", nil), 16)
		// Mon Jun 7 through Fri Jun 11, 2021
		manager.SetTradingDays([]time.Time{
			time.Date(2021, 6, 7, 0, 0, 0, 0, common.GetTimezone()),
			time.Date(2021, 6, 8, 0, 0, 0, 0, common.GetTimezone()),
			time.Date(2021, 6, 9, 0, 0, 0, 0, common.GetTimezone()),
			time.Date(2021, 6, 10, 0, 0, 0, 0, common.GetTimezone()),
			time.Date(2021, 6, 11, 0, 0, 0, 0, common.GetTimezone()),
		})
		asOf = time.Date(2021, 6, 11, 0, 0, 0, 0, common.GetTimezone())
	})

	DescribeTable("when offsetting by calendar tenors",
		func(code string, expected time.Time) {
			tenor, err := measures.ParseTenor(code)
			Expect(err).To(BeNil())
			got, err := tenor.Offset(manager, asOf)
			Expect(err).To(BeNil())
			Expect(got).To(Equal(expected))
		},
		Entry("3 days", "3d", time.Date(2021, 6, 8, 0, 0, 0, 0, common.GetTimezone())),
		Entry("1 week", "1w", time.Date(2021, 6, 4, 0, 0, 0, 0, common.GetTimezone())),
		Entry("2 months", "2m", time.Date(2021, 4, 11, 0, 0, 0, 0, common.GetTimezone())),
		Entry("1 year", "1y", time.Date(2020, 6, 11, 0, 0, 0, 0, common.GetTimezone())),
	)

	It("should walk the trading calendar for business-day tenors", func() {
		tenor, err := measures.ParseTenor("2b")
		Expect(err).To(BeNil())
		got, err := tenor.Offset(manager, asOf)
		Expect(err).To(BeNil())
		Expect(got).To(Equal(time.Date(2021, 6, 9, 0, 0, 0, 0, common.GetTimezone())))
	})

	It("should fail business-day offsets past the start of the calendar", func() {
		tenor, err := measures.ParseTenor("10b")
		Expect(err).To(BeNil())
		_, err = tenor.Offset(manager, asOf)
		Expect(err).To(Equal(data.ErrOutsideCoveredTime))
	})

	Describe("when resolving pricing dates", func() {
		It("should return asOf for an empty pricing date", func() {
			begin, end, err := measures.RangeFromPricingDate(manager, asOf, "")
			Expect(err).To(BeNil())
			Expect(begin).To(Equal(asOf))
			Expect(end).To(Equal(asOf))
		})

		It("should offset by the pricing date tenor", func() {
			begin, end, err := measures.RangeFromPricingDate(manager, asOf, "1b")
			Expect(err).To(BeNil())
			Expect(begin).To(Equal(time.Date(2021, 6, 10, 0, 0, 0, 0, common.GetTimezone())))
			Expect(end).To(Equal(begin))
		})

		It("should reject malformed pricing dates", func() {
			_, _, err := measures.RangeFromPricingDate(manager, asOf, "soon")
			Expect(err).To(Equal(measures.ErrUnsupportedTenor))
		})
	})
})
