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

package calendar_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/openmeasure/mq-api/calendar"
	"github.com/openmeasure/mq-api/common"
)

func tz() *time.Location {
	return common.GetTimezone()
}

var _ = Describe("Calendar code parsing", func() {
	Describe("When parsing well-formed codes", func() {
		Context("with each recognized grammar", func() {
			DescribeTable("check parsed interval",
				func(code string, begin, end time.Time) {
					interval, err := calendar.Parse(code)
					Expect(err).To(BeNil())
					Expect(interval.Begin).To(Equal(begin))
					Expect(interval.End).To(Equal(end))
				},

				Entry("When code is a futures month code", "K20",
					time.Date(2020, 5, 1, 0, 0, 0, 0, tz()),
					time.Date(2020, 5, 31, 0, 0, 0, 0, tz())),

				Entry("When code is a lowercase futures month code", "k20",
					time.Date(2020, 5, 1, 0, 0, 0, 0, tz()),
					time.Date(2020, 5, 31, 0, 0, 0, 0, tz())),

				Entry("When code is a february month code in a leap year", "G20",
					time.Date(2020, 2, 1, 0, 0, 0, 0, tz()),
					time.Date(2020, 2, 29, 0, 0, 0, 0, tz())),

				Entry("When code is a calendar year shorthand", "Cal22",
					time.Date(2022, 1, 1, 0, 0, 0, 0, tz()),
					time.Date(2022, 12, 31, 0, 0, 0, 0, tz())),

				Entry("When code is a calendar year in the 1900s", "Cal53",
					time.Date(1953, 1, 1, 0, 0, 0, 0, tz()),
					time.Date(1953, 12, 31, 0, 0, 0, 0, tz())),

				Entry("When code is a calendar year with 4-digit year", "Cal2012",
					time.Date(2012, 1, 1, 0, 0, 0, 0, tz()),
					time.Date(2012, 12, 31, 0, 0, 0, 0, tz())),

				Entry("When code is a bare 4-digit year", "2010",
					time.Date(2010, 1, 1, 0, 0, 0, 0, tz()),
					time.Date(2010, 12, 31, 0, 0, 0, 0, tz())),

				Entry("When code is a quarter", "3Q20",
					time.Date(2020, 7, 1, 0, 0, 0, 0, tz()),
					time.Date(2020, 9, 30, 0, 0, 0, 0, tz())),

				Entry("When code is a lowercase quarter", "3q20",
					time.Date(2020, 7, 1, 0, 0, 0, 0, tz()),
					time.Date(2020, 9, 30, 0, 0, 0, 0, tz())),

				Entry("When code is a first quarter", "1Q21",
					time.Date(2021, 1, 1, 0, 0, 0, 0, tz()),
					time.Date(2021, 3, 31, 0, 0, 0, 0, tz())),

				Entry("When code is a half-year with 4-digit year", "2H2021",
					time.Date(2021, 7, 1, 0, 0, 0, 0, tz()),
					time.Date(2021, 12, 31, 0, 0, 0, 0, tz())),

				Entry("When code is a lowercase half-year", "2h2021",
					time.Date(2021, 7, 1, 0, 0, 0, 0, tz()),
					time.Date(2021, 12, 31, 0, 0, 0, 0, tz())),

				Entry("When code is a first half with 2-digit year", "1H21",
					time.Date(2021, 1, 1, 0, 0, 0, 0, tz()),
					time.Date(2021, 6, 30, 0, 0, 0, 0, tz())),

				Entry("When code is an abbreviated month name", "Mar2021",
					time.Date(2021, 3, 1, 0, 0, 0, 0, tz()),
					time.Date(2021, 3, 31, 0, 0, 0, 0, tz())),

				Entry("When code is a full month name", "March2021",
					time.Date(2021, 3, 1, 0, 0, 0, 0, tz()),
					time.Date(2021, 3, 31, 0, 0, 0, 0, tz())),

				Entry("When code is a month name with 2-digit year", "Sep21",
					time.Date(2021, 9, 1, 0, 0, 0, 0, tz()),
					time.Date(2021, 9, 30, 0, 0, 0, 0, tz())),
			)
		})

		Context("with the same code parsed twice", func() {
			It("should return identical results", func() {
				a, errA := calendar.Parse("K20")
				b, errB := calendar.Parse("K20")
				Expect(errA).To(BeNil())
				Expect(errB).To(BeNil())
				Expect(a.Begin).To(Equal(b.Begin))
				Expect(a.End).To(Equal(b.End))
			})
		})
	})

	Describe("When parsing malformed codes", func() {
		Context("with each error category", func() {
			DescribeTable("check returned error",
				func(code string, expected error) {
					interval, err := calendar.Parse(code)
					Expect(interval).To(BeNil())
					Expect(err).To(Equal(expected))
				},

				Entry("When month letter is not a delivery month", "I20", calendar.ErrInvalidMonth),
				Entry("When quarter is out of range", "5Q20", calendar.ErrInvalidQuarter),
				Entry("When half is out of range", "3H2021", calendar.ErrInvalidHalfYear),
				Entry("When half is out of range with 2-digit year", "3H20", calendar.ErrInvalidHalfYear),
				Entry("When half digit is not numeric", "HH2021", calendar.ErrInvalidYear),
				Entry("When calendar year digits are malformed", "Cal2a", calendar.ErrInvalidYear),
				Entry("When month name year digits are malformed", "Marc201", calendar.ErrInvalidDateCode),
				Entry("When month name is followed by garbage", "Marcha2021", calendar.ErrInvalidDateCode),
				Entry("When letters and digits are interleaved", "M1a2021", calendar.ErrInvalidDateCode),
				Entry("When letters are not a month name", "Foo2021", calendar.ErrInvalidMonth),
				Entry("When code is bare 2-digit number", "20", calendar.ErrUnknownDateCode),
				Entry("When code is empty", "", calendar.ErrUnknownDateCode),
			)
		})
	})

	Describe("When parsing contract strips", func() {
		Context("with a dash separated strip", func() {
			It("should return one interval per contract month", func() {
				intervals, err := calendar.ParseStrip("J20-K20")
				Expect(err).To(BeNil())
				Expect(intervals).To(HaveLen(2))
				Expect(intervals[0].Begin).To(Equal(time.Date(2020, 4, 1, 0, 0, 0, 0, tz())))
				Expect(intervals[0].End).To(Equal(time.Date(2020, 4, 30, 0, 0, 0, 0, tz())))
				Expect(intervals[1].Begin).To(Equal(time.Date(2020, 5, 1, 0, 0, 0, 0, tz())))
				Expect(intervals[1].End).To(Equal(time.Date(2020, 5, 31, 0, 0, 0, 0, tz())))
			})

			It("should span a full quarter strip", func() {
				intervals, err := calendar.ParseStrip("F21-H21")
				Expect(err).To(BeNil())
				Expect(intervals).To(HaveLen(3))
				Expect(intervals[0].Begin.Month()).To(Equal(time.January))
				Expect(intervals[2].Begin.Month()).To(Equal(time.March))
			})
		})

		Context("with a single code", func() {
			It("should return one interval for a contract month", func() {
				intervals, err := calendar.ParseStrip("K20")
				Expect(err).To(BeNil())
				Expect(intervals).To(HaveLen(1))
				Expect(intervals[0].Begin).To(Equal(time.Date(2020, 5, 1, 0, 0, 0, 0, tz())))
			})

			It("should expand a quarter into its contract months", func() {
				intervals, err := calendar.ParseStrip("2Q20")
				Expect(err).To(BeNil())
				Expect(intervals).To(HaveLen(3))
				Expect(intervals[0].Begin).To(Equal(time.Date(2020, 4, 1, 0, 0, 0, 0, tz())))
				Expect(intervals[0].End).To(Equal(time.Date(2020, 4, 30, 0, 0, 0, 0, tz())))
				Expect(intervals[2].Begin).To(Equal(time.Date(2020, 6, 1, 0, 0, 0, 0, tz())))
				Expect(intervals[2].End).To(Equal(time.Date(2020, 6, 30, 0, 0, 0, 0, tz())))
			})

			It("should expand a half-year into its contract months", func() {
				intervals, err := calendar.ParseStrip("1H21")
				Expect(err).To(BeNil())
				Expect(intervals).To(HaveLen(6))
				Expect(intervals[0].Begin.Month()).To(Equal(time.January))
				Expect(intervals[5].Begin.Month()).To(Equal(time.June))
			})

			It("should expand a calendar year into its contract months", func() {
				intervals, err := calendar.ParseStrip("Cal21")
				Expect(err).To(BeNil())
				Expect(intervals).To(HaveLen(12))
				Expect(intervals[0].Begin).To(Equal(time.Date(2021, 1, 1, 0, 0, 0, 0, tz())))
				Expect(intervals[11].End).To(Equal(time.Date(2021, 12, 31, 0, 0, 0, 0, tz())))
			})
		})

		Context("with malformed strips", func() {
			DescribeTable("check returned error",
				func(code string, expected error) {
					intervals, err := calendar.ParseStrip(code)
					Expect(intervals).To(BeNil())
					Expect(err).To(Equal(expected))
				},

				Entry("When second leg has an invalid month", "F20-I20", calendar.ErrInvalidMonth),
				Entry("When strip is a bad half-year", "3H20", calendar.ErrInvalidHalfYear),
				Entry("When strip is unrecognized", "Invalid", calendar.ErrUnknownDateCode),
				Entry("When legs are reversed", "K20-J20", calendar.ErrBeginAfterEnd),
			)
		})
	})

	Describe("When generating contract codes", func() {
		Context("with a date", func() {
			DescribeTable("check generated code",
				func(t time.Time, expected string) {
					Expect(calendar.ContractCode(t)).To(Equal(expected))
				},

				Entry("When date is in May 2020", time.Date(2020, 5, 15, 0, 0, 0, 0, tz()), "K20"),
				Entry("When date is in January 2021", time.Date(2021, 1, 1, 0, 0, 0, 0, tz()), "F21"),
				Entry("When date is in December 2019", time.Date(2019, 12, 31, 0, 0, 0, 0, tz()), "Z19"),
			)
		})
	})
})
