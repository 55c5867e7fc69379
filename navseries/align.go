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

import "time"

// Align performs an inner join of two series on their observation dates and
// returns new series containing only the dates present in both, in ascending
// order. Observations that exist in one series but not the other are dropped.
// Dates are matched on their unix timestamp so two observations of the same
// instant compare equal regardless of how their time.Time was constructed
func Align(a, b *Series) (*Series, *Series) {
	index := make(map[int64]int, b.Len())
	for idx, dt := range b.Dates {
		index[dt.Unix()] = idx
	}

	a2 := &Series{
		Name:  a.Name,
		Dates: make([]time.Time, 0, a.Len()),
		Vals:  make([]float64, 0, a.Len()),
	}

	b2 := &Series{
		Name:  b.Name,
		Dates: make([]time.Time, 0, a.Len()),
		Vals:  make([]float64, 0, a.Len()),
	}

	for idx, dt := range a.Dates {
		if bIdx, ok := index[dt.Unix()]; ok {
			a2.Dates = append(a2.Dates, dt)
			a2.Vals = append(a2.Vals, a.Vals[idx])

			b2.Dates = append(b2.Dates, dt)
			b2.Vals = append(b2.Vals, b.Vals[bIdx])
		}
	}

	return a2, b2
}
