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
	"time"

	"github.com/goccy/go-json"
	"github.com/penny-vault/nav-report/navseries"
	"github.com/rs/zerolog"
)

// Bundle collects the performance metrics of a single nav curve over a
// single reporting window. Metrics whose denominator degenerates hold NaN
// rather than a misleading 0
type Bundle struct {
	Begin            time.Time
	End              time.Time
	Return           float64
	AnnualizedReturn float64
	Volatility       float64
	MaxDrawDown      float64
	SharpeRatio      float64
	KarmaRatio       float64
	Observations     int
}

// ComputeBundle calculates the full metric set for the given sub series.
// The input series is not modified. Degenerate windows (fewer than 2
// observations) yield a return of 0 and NaN ratio metrics
func ComputeBundle(series *navseries.Series, riskFreeRate float64) *Bundle {
	return &Bundle{
		Begin:            series.Start(),
		End:              series.End(),
		Return:           PeriodReturn(series),
		AnnualizedReturn: AnnualizedReturn(series),
		Volatility:       Volatility(series),
		MaxDrawDown:      MaxDrawDown(series),
		SharpeRatio:      SharpeRatio(series, riskFreeRate),
		KarmaRatio:       KarmaRatio(series),
		Observations:     series.Len(),
	}
}

// SentinelBundle builds a bundle whose ratio metrics are all undefined. It
// stands in for windows that cannot be computed, e.g. when the excess curve
// has too few aligned observations, so that the remaining bundles of a
// report are unaffected
func SentinelBundle(span Interval) *Bundle {
	return &Bundle{
		Begin:       span.Begin,
		End:         span.End,
		Volatility:  math.NaN(),
		SharpeRatio: math.NaN(),
		KarmaRatio:  math.NaN(),
	}
}

type bundleJSON struct {
	StartDate        string   `json:"start_date"`
	EndDate          string   `json:"end_date"`
	Return           *float64 `json:"interval_return"`
	AnnualizedReturn *float64 `json:"annualized_return"`
	Volatility       *float64 `json:"volatility"`
	MaxDrawDown      *float64 `json:"interval_MDD"`
	SharpeRatio      *float64 `json:"interval_sharpe"`
	KarmaRatio       *float64 `json:"interval_karma"`
	Observations     int      `json:"observations"`
}

// MarshalJSON serializes the bundle. JSON has no representation for NaN so
// undefined metrics are encoded as null
func (b *Bundle) MarshalJSON() ([]byte, error) {
	return json.Marshal(&bundleJSON{
		StartDate:        b.Begin.Format("2006-01-02"),
		EndDate:          b.End.Format("2006-01-02"),
		Return:           nanToNull(b.Return),
		AnnualizedReturn: nanToNull(b.AnnualizedReturn),
		Volatility:       nanToNull(b.Volatility),
		MaxDrawDown:      nanToNull(b.MaxDrawDown),
		SharpeRatio:      nanToNull(b.SharpeRatio),
		KarmaRatio:       nanToNull(b.KarmaRatio),
		Observations:     b.Observations,
	})
}

func nanToNull(x float64) *float64 {
	if math.IsNaN(x) {
		return nil
	}

	return &x
}

// MarshalZerologObject implement the log marshaller interface for zerolog
func (b *Bundle) MarshalZerologObject(e *zerolog.Event) {
	e.Time("Begin", b.Begin).
		Time("End", b.End).
		Float64("Return", b.Return).
		Float64("MaxDrawDown", b.MaxDrawDown).
		Float64("SharpeRatio", b.SharpeRatio).
		Float64("KarmaRatio", b.KarmaRatio).
		Int("Observations", b.Observations)
}
