// Copyright 2021-2023
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

package navseries

import (
	"errors"
	"time"
)

var (
	ErrEmptySeries    = errors.New("series has no observations")
	ErrLengthMismatch = errors.New("dates and values differ in length")
	ErrUnorderedDates = errors.New("observation dates out of order")
	ErrDuplicateDate  = errors.New("duplicate observation date")
	ErrNonPositiveNav = errors.New("nav values must be greater than zero")
)

// Series stores a net asset value curve as parallel arrays of
// observation dates and values - e.g.,
//
// Date        NAV
// 2021-01-04  1.0000
// 2021-01-05  1.0034
//
// Dates[0] = 2021-01-04, Vals[0] = 1.0000
// Dates[1] = 2021-01-05, Vals[1] = 1.0034
type Series struct {
	Name  string
	Dates []time.Time
	Vals  []float64
}
