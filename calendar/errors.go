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

package calendar

import "errors"

var (
	ErrBeginAfterEnd   = errors.New("invalid interval; begin after end date")
	ErrInvalidMonth    = errors.New("invalid month in date code")
	ErrInvalidQuarter  = errors.New("invalid quarter; must be between 1 and 4")
	ErrInvalidHalfYear = errors.New("invalid half-year; must be 1 or 2")
	ErrInvalidYear     = errors.New("invalid year in date code")
	ErrInvalidDateCode = errors.New("invalid date code")
	ErrUnknownDateCode = errors.New("unknown date code format")
)
