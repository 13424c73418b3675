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
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/openmeasure/mq-api/data"
	"github.com/openmeasure/mq-api/data/database"
	"github.com/pashagolub/pgxmock"
)

var _ = Describe("Trading calendar", func() {
	Describe("When loading trading days from the database", func() {
		Context("with a populated calendar", func() {
			It("should return sorted days", func() {
				dbPool, err := pgxmock.NewConn()
				Expect(err).To(BeNil())
				database.SetPool(dbPool)

				dbPool.ExpectBegin()
				dbPool.ExpectExec("SET ROLE").WillReturnResult(pgxmock.NewResult("SET", 0))
				rows := pgxmock.NewRows([]string{"trading_day"}).
					AddRow(time.Date(2021, 1, 4, 0, 0, 0, 0, tz())).
					AddRow(time.Date(2021, 1, 5, 0, 0, 0, 0, tz())).
					AddRow(time.Date(2021, 1, 6, 0, 0, 0, 0, tz()))
				dbPool.ExpectQuery("SELECT trading_day FROM trading_days").WillReturnRows(rows)
				dbPool.ExpectCommit()

				days, err := data.LoadTradingDays(context.Background(),
					time.Date(2021, 1, 1, 0, 0, 0, 0, tz()), time.Date(2021, 1, 31, 0, 0, 0, 0, tz()))
				Expect(err).To(BeNil())
				Expect(days).To(HaveLen(3))
				Expect(days[0]).To(Equal(time.Date(2021, 1, 4, 0, 0, 0, 0, tz())))
			})
		})

		Context("with an empty calendar", func() {
			It("should return ErrNoTradingDays", func() {
				dbPool, err := pgxmock.NewConn()
				Expect(err).To(BeNil())
				database.SetPool(dbPool)

				dbPool.ExpectBegin()
				dbPool.ExpectExec("SET ROLE").WillReturnResult(pgxmock.NewResult("SET", 0))
				rows := pgxmock.NewRows([]string{"trading_day"})
				dbPool.ExpectQuery("SELECT trading_day FROM trading_days").WillReturnRows(rows)
				dbPool.ExpectCommit()

				_, err = data.LoadTradingDays(context.Background(),
					time.Date(2021, 1, 1, 0, 0, 0, 0, tz()), time.Date(2021, 1, 31, 0, 0, 0, 0, tz()))
				Expect(err).To(Equal(data.ErrNoTradingDays))
			})
		})
	})

	Describe("When slicing the calendar", func() {
		var days []time.Time

		BeforeEach(func() {
			days = []time.Time{
				time.Date(2021, 1, 4, 0, 0, 0, 0, tz()),
				time.Date(2021, 1, 5, 0, 0, 0, 0, tz()),
				time.Date(2021, 1, 6, 0, 0, 0, 0, tz()),
				time.Date(2021, 1, 7, 0, 0, 0, 0, tz()),
				time.Date(2021, 1, 8, 0, 0, 0, 0, tz()),
			}
		})

		Context("with an interior range", func() {
			It("should include both end points", func() {
				got := data.TradingDaysBetween(days,
					time.Date(2021, 1, 5, 0, 0, 0, 0, tz()), time.Date(2021, 1, 7, 0, 0, 0, 0, tz()))
				Expect(got).To(HaveLen(3))
				Expect(got[0]).To(Equal(days[1]))
				Expect(got[2]).To(Equal(days[3]))
			})
		})

		Context("with a previous trading day lookup", func() {
			It("should skip weekends", func() {
				// Jan 9-10 2021 is a weekend
				prev, err := data.PreviousTradingDay(days, time.Date(2021, 1, 10, 0, 0, 0, 0, tz()))
				Expect(err).To(BeNil())
				Expect(prev).To(Equal(time.Date(2021, 1, 8, 0, 0, 0, 0, tz())))
			})

			It("should error before the first trading day", func() {
				_, err := data.PreviousTradingDay(days, time.Date(2021, 1, 4, 0, 0, 0, 0, tz()))
				Expect(err).To(Equal(data.ErrOutsideCoveredTime))
			})

			It("should error on an empty calendar", func() {
				_, err := data.PreviousTradingDay(nil, time.Date(2021, 1, 4, 0, 0, 0, 0, tz()))
				Expect(err).To(Equal(data.ErrNoTradingDays))
			})
		})
	})
})
