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

package measures

import "errors"

var (
	ErrRealTimeUnsupported    = errors.New("realtime data not supported for this measure")
	ErrUnsupportedTenor       = errors.New("invalid tenor format")
	ErrUnsupportedCurrency    = errors.New("unsupported currency")
	ErrUnsupportedBucket      = errors.New("unsupported bucket")
	ErrUnsupportedISO         = errors.New("unsupported independent system operator")
	ErrUnsupportedGranularity = errors.New("unsupported granularity; expected d or m")
	ErrStrikeNotFound         = errors.New("relative strike not available on date")
	ErrUnsupportedReference   = errors.New("unsupported volatility reference")
	ErrCrossUnknown           = errors.New("cross currency pair cannot be resolved")
	ErrUnsupportedMetric      = errors.New("unsupported ESG metric")
	ErrUnsupportedUnit        = errors.New("unsupported ESG unit")
)
