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
	"math"

	"github.com/penny-vault/nav-report/navseries"
	"gonum.org/v1/gonum/stat"
)

// TradingDays is the number of trading days in a year
const TradingDays = 252

// Metric Functions

// PeriodReturn computes the total return of the series from its first to its
// last observation. Series with fewer than 2 observations have a return of 0
func PeriodReturn(series *navseries.Series) float64 {
	n := series.Len()
	if n < 2 {
		return 0
	}

	return series.Vals[n-1]/series.Vals[0] - 1
}

// AnnualizedReturn scales the period return to a full year; a window of n
// observations counts as n/252 years
func AnnualizedReturn(series *navseries.Series) float64 {
	if series.Len() < 2 {
		return 0
	}

	years := float64(series.Len()) / TradingDays
	return math.Pow(1+PeriodReturn(series), 1/years) - 1
}

// Volatility computes the annualized standard deviation of the daily returns
// of the series. The sample standard deviation (n-1 denominator) is used.
// NaN is returned when there are fewer than 2 returns
func Volatility(series *navseries.Series) float64 {
	rets := series.Returns()
	if len(rets) < 2 {
		return math.NaN()
	}

	return stat.StdDev(rets, nil) * math.Sqrt(TradingDays)
}

// SharpeRatio computes the annualized return in excess of the risk free rate
// per unit of annualized volatility:
//
//	(mean(r) * 252 - riskFreeRate) / (stddev(r) * sqrt(252))
//
// The ratio is undefined (NaN) when there are fewer than 2 returns or when
// the returns have zero variance; NaN is returned rather than 0 so that a
// flat series cannot be mistaken for one with no excess return
func SharpeRatio(series *navseries.Series, riskFreeRate float64) float64 {
	rets := series.Returns()
	if len(rets) < 2 {
		return math.NaN()
	}

	stdev := stat.StdDev(rets, nil)
	if stdev == 0 || math.IsNaN(stdev) {
		return math.NaN()
	}

	return (stat.Mean(rets, nil)*TradingDays - riskFreeRate) / (stdev * math.Sqrt(TradingDays))
}

// MaxDrawDown computes the largest peak-to-trough loss of the series in a
// single pass by tracking the running peak. The result is always 0 or
// negative; a monotonically increasing series has a draw down of 0
func MaxDrawDown(series *navseries.Series) float64 {
	if series.Len() == 0 {
		return 0
	}

	peak := series.Vals[0]
	maxDrawDown := 0.0

	for _, value := range series.Vals {
		peak = math.Max(peak, value)
		diff := value/peak - 1
		if diff < maxDrawDown {
			maxDrawDown = diff
		}
	}

	return maxDrawDown
}

// KarmaRatio relates the period return to the magnitude of the maximum draw
// down experienced while earning it. The ratio is undefined (NaN) when the
// series never drew down
func KarmaRatio(series *navseries.Series) float64 {
	maxDrawDown := MaxDrawDown(series)
	if maxDrawDown == 0 {
		return math.NaN()
	}

	return PeriodReturn(series) / (-1 * maxDrawDown)
}
