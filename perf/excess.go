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
	"errors"
	"math"

	"github.com/penny-vault/nav-report/navseries"
)

var (
	ErrMisalignedSeries = errors.New("strategy and benchmark share too few observation dates")
)

// ExcessSeries builds a synthetic nav curve of the strategy's return in
// excess of the benchmark. The two input series are inner joined on their
// shared observation dates; the curve starts at 1 and compounds the daily
// return difference:
//
//	excess[0] = 1
//	excess[t] = excess[t-1] * (1 + strategyReturn[t] - benchmarkReturn[t])
//
// ErrMisalignedSeries is returned when fewer than 2 shared dates exist, in
// which case no meaningful excess curve can be built
func ExcessSeries(strategy, benchmark *navseries.Series) (*navseries.Series, error) {
	strat, bench := navseries.Align(strategy, benchmark)
	if strat.Len() < 2 {
		return nil, ErrMisalignedSeries
	}

	stratRets := strat.Returns()
	benchRets := bench.Returns()

	excess := &navseries.Series{
		Name:  "excess",
		Dates: strat.Dates,
		Vals:  make([]float64, strat.Len()),
	}

	excess.Vals[0] = 1.0
	for ii := range stratRets {
		excess.Vals[ii+1] = excess.Vals[ii] * (1 + stratRets[ii] - benchRets[ii])
	}

	return excess, nil
}

// DrawDownSeries converts a nav curve into its draw down curve: the
// fractional distance below the running peak at each observation. Values
// are 0 at new highs and negative below them
func DrawDownSeries(series *navseries.Series) *navseries.Series {
	drawDown := &navseries.Series{
		Name:  "drawdown",
		Dates: series.Dates,
		Vals:  make([]float64, series.Len()),
	}

	if series.Len() == 0 {
		return drawDown
	}

	peak := series.Vals[0]
	for idx, value := range series.Vals {
		peak = math.Max(peak, value)
		drawDown.Vals[idx] = value/peak - 1
	}

	return drawDown
}
