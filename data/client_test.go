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
	"net/http"
	"time"

	"github.com/jarcoal/httpmock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/openmeasure/mq-api/data"
)

var _ = Describe("Market-data client", Ordered, func() {
	var (
		client     *data.Client
		httpClient *http.Client
		brent      *data.Asset
	)

	BeforeAll(func() {
		httpClient = &http.Client{}
		httpmock.ActivateNonDefault(httpClient)
		client = data.NewClientWithHTTP("https://mds.example.com", "test-token", httpClient)
		brent = &data.Asset{ID: "MA001", BBID: "CO1 Comdty", Class: data.ClassCommod, Type: data.TypeIndex}
	})

	AfterAll(func() {
		httpmock.DeactivateAndReset()
	})

	BeforeEach(func() {
		httpmock.Reset()
	})

	Describe("When querying the market-data service", func() {
		Context("with a successful response", func() {
			BeforeEach(func() {
				httpmock.RegisterResponder("POST", "https://mds.example.com/v1/data/query",
					httpmock.NewStringResponder(200, `{"data":[
						{"date":"2021-01-04","price":54.2},
						{"date":"2021-01-05","price":54.8,"bucket":"PEAK"}
					]}`))
			})

			It("should decode rows with values and tags", func() {
				q := data.NewQuery(brent).Measure(data.MeasurePrice).
					Between(time.Date(2021, 1, 1, 0, 0, 0, 0, tz()), time.Date(2021, 1, 31, 0, 0, 0, 0, tz()))
				rows, err := client.Query(context.Background(), q)
				Expect(err).To(BeNil())
				Expect(rows).To(HaveLen(2))
				Expect(rows[0].Date).To(Equal(time.Date(2021, 1, 4, 0, 0, 0, 0, tz())))
				Expect(rows[0].Values["price"]).To(BeNumerically("~", 54.2, 1e-9))
				Expect(rows[1].Tags["bucket"]).To(Equal("PEAK"))
			})
		})

		Context("with an error status", func() {
			BeforeEach(func() {
				httpmock.RegisterResponder("POST", "https://mds.example.com/v1/data/query",
					httpmock.NewStringResponder(500, `{"error":"internal"}`))
			})

			It("should return ErrRemoteStatus", func() {
				q := data.NewQuery(brent).Measure(data.MeasurePrice)
				_, err := client.Query(context.Background(), q)
				Expect(err).To(Equal(data.ErrRemoteStatus))
			})
		})

		Context("with an invalid query", func() {
			It("should not contact the service", func() {
				q := data.NewQuery().Measure(data.MeasurePrice)
				_, err := client.Query(context.Background(), q)
				Expect(err).To(Equal(data.ErrEmptyQuery))
				Expect(httpmock.GetTotalCallCount()).To(Equal(0))
			})
		})
	})

	Describe("When queries run through the manager", func() {
		Context("with repeated close-of-market requests", func() {
			BeforeEach(func() {
				httpmock.RegisterResponder("POST", "https://mds.example.com/v1/data/query",
					httpmock.NewStringResponder(200, `{"data":[{"date":"2021-01-04","price":54.2}]}`))
			})

			It("should serve the second request from cache", func() {
				manager := data.NewManager(client, 16)

				q := data.NewQuery(brent).Measure(data.MeasurePrice).
					Between(time.Date(2021, 1, 1, 0, 0, 0, 0, tz()), time.Date(2021, 1, 31, 0, 0, 0, 0, tz()))
				rows, err := manager.Do(context.Background(), q)
				Expect(err).To(BeNil())
				Expect(rows).To(HaveLen(1))

				q2 := data.NewQuery(brent).Measure(data.MeasurePrice).
					Between(time.Date(2021, 1, 1, 0, 0, 0, 0, tz()), time.Date(2021, 1, 31, 0, 0, 0, 0, tz()))
				rows, err = manager.Do(context.Background(), q2)
				Expect(err).To(BeNil())
				Expect(rows).To(HaveLen(1))
				Expect(httpmock.GetTotalCallCount()).To(Equal(1))
			})

			It("should always hit the service for intraday requests", func() {
				manager := data.NewManager(client, 16)

				q := data.NewQuery(brent).Measure(data.MeasurePrice).RealTime()
				_, err := manager.Do(context.Background(), q)
				Expect(err).To(BeNil())
				_, err = manager.Do(context.Background(), q)
				Expect(err).To(BeNil())
				Expect(httpmock.GetTotalCallCount()).To(Equal(2))
			})
		})
	})
})
