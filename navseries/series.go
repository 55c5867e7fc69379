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
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
)

// Len returns the number of observations in the series
func (s *Series) Len() int {
	return len(s.Dates)
}

// Less reports whether the observation at i occurs before the observation at j
func (s *Series) Less(i, j int) bool {
	return s.Dates[i].Before(s.Dates[j])
}

// Swap exchanges the observations at i and j
func (s *Series) Swap(i, j int) {
	s.Dates[i], s.Dates[j] = s.Dates[j], s.Dates[i]
	s.Vals[i], s.Vals[j] = s.Vals[j], s.Vals[i]
}

// Sort orders the observations by ascending date
func (s *Series) Sort() {
	sort.Stable(s)
}

// Start returns the first observation date of the series
func (s *Series) Start() time.Time {
	if len(s.Dates) == 0 {
		return time.Time{}
	}

	return s.Dates[0]
}

// End returns the last observation date of the series
func (s *Series) End() time.Time {
	if len(s.Dates) == 0 {
		return time.Time{}
	}

	return s.Dates[len(s.Dates)-1]
}

// Copy creates a copy of the series
func (s *Series) Copy() *Series {
	s2 := &Series{
		Name:  s.Name,
		Dates: make([]time.Time, len(s.Dates)),
		Vals:  make([]float64, len(s.Vals)),
	}

	copy(s2.Dates, s.Dates)
	copy(s2.Vals, s.Vals)

	return s2
}

// Validate checks the series invariants: dates and values have equal length,
// dates are strictly increasing, and every nav is a positive number.
// NaN values fail the positive test and are reported as ErrNonPositiveNav
func (s *Series) Validate() error {
	if len(s.Dates) != len(s.Vals) {
		return ErrLengthMismatch
	}

	for idx, val := range s.Vals {
		if val <= 0 || math.IsNaN(val) {
			return ErrNonPositiveNav
		}

		if idx == 0 {
			continue
		}

		switch {
		case s.Dates[idx].Equal(s.Dates[idx-1]):
			return ErrDuplicateDate
		case s.Dates[idx].Before(s.Dates[idx-1]):
			return ErrUnorderedDates
		}
	}

	return nil
}

// Returns computes the simple period-over-period returns of the series;
// the result has Len()-1 entries and is empty when the series has fewer
// than 2 observations
func (s *Series) Returns() []float64 {
	if s.Len() < 2 {
		return []float64{}
	}

	rets := make([]float64, 0, s.Len()-1)
	for ii := 1; ii < s.Len(); ii++ {
		rets = append(rets, s.Vals[ii]/s.Vals[ii-1]-1)
	}

	return rets
}

// Trim returns a series restricted to the date range [begin, end] (inclusive);
// the returned series shares backing arrays with the receiver
func (s *Series) Trim(begin, end time.Time) *Series {
	s2 := &Series{
		Name:  s.Name,
		Dates: s.Dates,
		Vals:  s.Vals,
	}

	// special case 0: requested range is invalid
	if end.Before(begin) {
		s2.Dates = []time.Time{}
		s2.Vals = []float64{}
		return s2
	}

	// special case 1: series is empty
	if s.Len() == 0 {
		return s2
	}

	// special case 2: end time is before series start
	if end.Before(s.Dates[0]) {
		s2.Dates = []time.Time{}
		s2.Vals = []float64{}
		return s2
	}

	// special case 3: start time is after series end
	if begin.After(s.Dates[len(s.Dates)-1]) {
		s2.Dates = []time.Time{}
		s2.Vals = []float64{}
		return s2
	}

	// Use binary search to find the index corresponding to the start and end times
	beginIdx := sort.Search(len(s.Dates), func(i int) bool {
		return s.Dates[i].After(begin) || s.Dates[i].Equal(begin)
	})

	endIdx := sort.Search(len(s.Dates), func(i int) bool {
		return s.Dates[i].After(end) || s.Dates[i].Equal(end)
	})

	if endIdx != len(s.Dates) && s.Dates[endIdx].Equal(end) {
		endIdx++
	}

	s2.Dates = s.Dates[beginIdx:endIdx]
	s2.Vals = s.Vals[beginIdx:endIdx]

	return s2
}

// Table prints an ASCII formatted table to stdout
func (s *Series) Table() string {
	if len(s.Dates) == 0 {
		return "<NO DATA>" // nothing to do as there is no data available in the series
	}

	colName := s.Name
	if colName == "" {
		colName = "NAV"
	}

	// initialize table
	sb := &strings.Builder{}
	table := tablewriter.NewWriter(sb)
	table.SetHeader([]string{"Date", colName})
	table.SetFooter([]string{"Num Rows", fmt.Sprintf("%d", s.Len())})
	table.SetBorder(false) // Set Border to false

	for idx, dt := range s.Dates {
		table.Append([]string{dt.Format("2006-01-02"), fmt.Sprintf("%.4f", s.Vals[idx])})
	}

	table.Render()
	return sb.String()
}

// Sparkline renders the nav curve as an ASCII graph suitable for terminal output
func (s *Series) Sparkline(height int) string {
	if len(s.Vals) == 0 {
		return "<NO DATA>"
	}

	return asciigraph.Plot(s.Vals,
		asciigraph.Height(height),
		asciigraph.Caption(s.Name))
}

// MarshalZerologObject implement the log marshaller interface for zerolog
func (s *Series) MarshalZerologObject(e *zerolog.Event) {
	e.Str("Name", s.Name).
		Int("NumObs", s.Len()).
		Time("Start", s.Start()).
		Time("End", s.End())
}
