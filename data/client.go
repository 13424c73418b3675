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

package data

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/openmeasure/mq-api/common"
	"github.com/openmeasure/mq-api/observability/opentelemetry"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Client talks to the vendor market-data service
type Client struct {
	endpoint string
	token    string
	client   *http.Client
}

type queryRequest struct {
	AssetIDs  []string          `json:"assetIds"`
	Measure   string            `json:"measure"`
	Where     map[string]string `json:"where,omitempty"`
	StartDate string            `json:"startDate,omitempty"`
	EndDate   string            `json:"endDate,omitempty"`
	RealTime  bool              `json:"realTime,omitempty"`
}

type queryResponse struct {
	Data []map[string]interface{} `json:"data"`
}

// NewClient creates a market-data client from the mds configuration keys
func NewClient() *Client {
	return &Client{
		endpoint: viper.GetString("mds.endpoint"),
		token:    viper.GetString("mds.token"),
		client:   http.DefaultClient,
	}
}

// NewClientWithHTTP creates a market-data client with an explicit endpoint
// and http client; used by tests
func NewClientWithHTTP(endpoint, token string, httpClient *http.Client) *Client {
	return &Client{
		endpoint: endpoint,
		token:    token,
		client:   httpClient,
	}
}

// Query sends the query to the market-data service and decodes the returned
// rows. Dates in the response are interpreted in the reference timezone.
func (c *Client) Query(ctx context.Context, q *Query) ([]*Row, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "mds.Query")
	defer span.End()

	if err := q.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	ids := make([]string, 0, len(q.assets))
	for _, asset := range q.assets {
		ids = append(ids, asset.ID)
	}

	reqBody := queryRequest{
		AssetIDs: ids,
		Measure:  q.measure,
		Where:    q.where,
		RealTime: q.realTime,
	}
	if !q.begin.IsZero() {
		reqBody.StartDate = q.begin.Format("2006-01-02")
	}
	if !q.end.IsZero() {
		reqBody.EndDate = q.end.Format("2006-01-02")
	}

	span.SetAttributes(
		attribute.String("Measure", q.measure),
		attribute.StringSlice("AssetIDs", ids),
	)

	encoded, err := json.Marshal(reqBody)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "could not marshal query")
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/data/query", c.endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "could not build request")
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))

	resp, err := c.client.Do(req)
	if err != nil {
		span.RecordError(err)
		msg := "market-data request failed"
		span.SetStatus(codes.Error, msg)
		log.Error().Err(err).Str("Url", url).Msg(msg)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		span.SetAttributes(attribute.Int("StatusCode", resp.StatusCode))
		msg := "market-data service returned an error status"
		span.SetStatus(codes.Error, msg)
		log.Error().Int("StatusCode", resp.StatusCode).Str("Url", url).Msg(msg)
		return nil, ErrRemoteStatus
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		msg := "could not read market-data response"
		span.SetStatus(codes.Error, msg)
		log.Error().Err(err).Str("Url", url).Msg(msg)
		return nil, err
	}

	var decoded queryResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		span.RecordError(err)
		msg := "could not unmarshal market-data response"
		span.SetStatus(codes.Error, msg)
		log.Error().Err(err).Str("Url", url).Msg(msg)
		return nil, err
	}

	rows := make([]*Row, 0, len(decoded.Data))
	for _, raw := range decoded.Data {
		row, err := rowFromRaw(raw)
		if err != nil {
			log.Warn().Err(err).Msg("skipping malformed row in market-data response")
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func rowFromRaw(raw map[string]interface{}) (*Row, error) {
	row := &Row{
		Values: make(map[string]float64),
		Tags:   make(map[string]string),
	}

	for k, v := range raw {
		switch val := v.(type) {
		case float64:
			row.Values[k] = val
		case string:
			if k == "date" {
				d, err := time.ParseInLocation("2006-01-02", val, common.GetTimezone())
				if err != nil {
					// intraday rows carry a full timestamp
					d, err = time.Parse(time.RFC3339, val)
					if err != nil {
						return nil, err
					}
				}
				row.Date = d
				continue
			}
			row.Tags[k] = val
		}
	}

	return row, nil
}
