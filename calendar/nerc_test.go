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
)

var _ = Describe("NERC holiday calendar", func() {
	Describe("When listing holidays for a year", func() {
		Context("with 2021", func() {
			It("should contain the six NERC holidays", func() {
				days := calendar.NercHolidays(2021, tz())
				Expect(days).To(HaveLen(6))
				Expect(days[0]).To(Equal(time.Date(2021, 1, 1, 0, 0, 0, 0, tz())))
				Expect(days[1]).To(Equal(time.Date(2021, 5, 31, 0, 0, 0, 0, tz())))
				Expect(days[2]).To(Equal(time.Date(2021, 7, 5, 0, 0, 0, 0, tz())))
				Expect(days[3]).To(Equal(time.Date(2021, 9, 6, 0, 0, 0, 0, tz())))
				Expect(days[4]).To(Equal(time.Date(2021, 11, 25, 0, 0, 0, 0, tz())))
				Expect(days[5]).To(Equal(time.Date(2021, 12, 25, 0, 0, 0, 0, tz())))
			})
		})

		Context("with 2022", func() {
			It("should observe sunday holidays on monday", func() {
				days := calendar.NercHolidays(2022, tz())
				// Dec 25 2022 falls on a Sunday
				Expect(days[5]).To(Equal(time.Date(2022, 12, 26, 0, 0, 0, 0, tz())))
			})
		})
	})

	Describe("When testing individual dates", func() {
		Context("with holidays and regular days", func() {
			DescribeTable("check holiday flag",
				func(t time.Time, expected bool) {
					Expect(calendar.IsNercHoliday(t)).To(Equal(expected))
				},

				Entry("When date is new years day", time.Date(2021, 1, 1, 0, 0, 0, 0, tz()), true),
				Entry("When date is memorial day", time.Date(2021, 5, 31, 0, 0, 0, 0, tz()), true),
				Entry("When date is thanksgiving", time.Date(2021, 11, 25, 0, 0, 0, 0, tz()), true),
				Entry("When date is mid-afternoon on a holiday", time.Date(2021, 7, 5, 15, 30, 0, 0, tz()), true),
				Entry("When date is a regular weekday", time.Date(2021, 3, 17, 0, 0, 0, 0, tz()), false),
				Entry("When date is july 4 observed on the 5th", time.Date(2021, 7, 4, 0, 0, 0, 0, tz()), false),
			)
		})
	})
})
