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

package perf

import (
	"fmt"
	"sort"
	"time"

	"github.com/penny-vault/nav-report/navseries"
)

// Window identifies a reporting period anchored at the most recent
// observation of a series
type Window string

const (
	// WindowInterval covers the span between the two most recent observations
	WindowInterval Window = "interval"
	Window1W       Window = "1w"
	Window1M       Window = "1m"
	Window3M       Window = "3m"
	Window6M       Window = "6m"
	WindowYTD      Window = "ytd"
	Window1Y       Window = "1y"
	WindowAll      Window = "all"
)

// Kind identifies which nav curve a metric bundle describes
type Kind string

const (
	Strategy  Kind = "Strategy"
	Benchmark Kind = "Benchmark"
	Excess    Kind = "Excess"
)

// Windows returns the reporting windows in display order
func Windows() []Window {
	return []Window{WindowInterval, Window1W, Window1M, Window3M, Window6M, WindowYTD, Window1Y, WindowAll}
}

// PayloadKey returns the key a bundle is stored under in the report payload.
// Strategy bundles use the bare window name; benchmark and excess bundles
// carry a suffix, e.g. "ytd", "ytd_Benchmark", "ytd_Excess"
func PayloadKey(window Window, kind Kind) string {
	if kind == Strategy {
		return string(window)
	}

	return fmt.Sprintf("%s_%s", window, kind)
}

// ResolveWindows maps each reporting window to the date range it covers for
// the given series. Every window ends at the last observation; the begin of
// each window is the first observation on or after the window cutoff so that
// interval boundaries always land on real observation dates. Series with a
// single observation resolve every window to a zero length interval.
// ErrEmptySeries is returned when the series has no observations
func ResolveWindows(series *navseries.Series) (map[Window]Interval, error) {
	if series.Len() == 0 {
		return nil, navseries.ErrEmptySeries
	}

	end := series.End()
	yearStart := time.Date(end.Year(), time.January, 1, 0, 0, 0, 0, end.Location())

	intervalBegin := end
	if series.Len() > 1 {
		intervalBegin = series.Dates[series.Len()-2]
	}

	windows := map[Window]Interval{
		WindowInterval: {Begin: intervalBegin, End: end},
		Window1W:       {Begin: firstOnOrAfter(series, end.AddDate(0, 0, -7)), End: end},
		Window1M:       {Begin: firstOnOrAfter(series, end.AddDate(0, -1, 0)), End: end},
		Window3M:       {Begin: firstOnOrAfter(series, end.AddDate(0, -3, 0)), End: end},
		Window6M:       {Begin: firstOnOrAfter(series, end.AddDate(0, -6, 0)), End: end},
		WindowYTD:      {Begin: firstOnOrAfter(series, yearStart), End: end},
		Window1Y:       {Begin: firstOnOrAfter(series, end.AddDate(-1, 0, 0)), End: end},
		WindowAll:      {Begin: series.Start(), End: end},
	}

	return windows, nil
}

// firstOnOrAfter finds the earliest observation date on or after cutoff; if
// every observation falls before the cutoff the series start is returned
func firstOnOrAfter(series *navseries.Series, cutoff time.Time) time.Time {
	idx := sort.Search(series.Len(), func(i int) bool {
		return series.Dates[i].After(cutoff) || series.Dates[i].Equal(cutoff)
	})

	if idx == series.Len() {
		return series.Start()
	}

	return series.Dates[idx]
}
