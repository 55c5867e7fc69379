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

package perf_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/nav-report/common"
	"github.com/penny-vault/nav-report/navseries"
	"github.com/penny-vault/nav-report/perf"
)

// dailySeries builds a series with one observation per calendar day starting
// at the given date
func dailySeries(name string, start time.Time, vals []float64) *navseries.Series {
	series := &navseries.Series{
		Name:  name,
		Dates: make([]time.Time, 0, len(vals)),
		Vals:  vals,
	}

	for ii := range vals {
		series.Dates = append(series.Dates, start.AddDate(0, 0, ii))
	}

	return series
}

var _ = Describe("Metrics", func() {
	var (
		series *navseries.Series
		tz     *time.Location
	)

	BeforeEach(func() {
		tz = common.GetTimezone()
	})

	Describe("when computing the period return", func() {
		It("computes the return of a two observation series", func() {
			series = dailySeries("nav", time.Date(2021, time.March, 1, 0, 0, 0, 0, tz), []float64{1.0, 1.1})
			Expect(perf.PeriodReturn(series)).Should(BeNumerically("~", 0.1, 1e-9))
		})

		It("returns 0 for a single observation", func() {
			series = dailySeries("nav", time.Date(2021, time.March, 1, 0, 0, 0, 0, tz), []float64{1.0})
			Expect(perf.PeriodReturn(series)).To(Equal(0.0))
		})

		It("returns 0 for an empty series", func() {
			series = &navseries.Series{}
			Expect(perf.PeriodReturn(series)).To(Equal(0.0))
		})
	})

	Describe("when computing the annualized return", func() {
		It("matches the period return over exactly one year of observations", func() {
			vals := make([]float64, 252)
			for ii := range vals {
				vals[ii] = 1 + 0.1*float64(ii)/251
			}
			series = dailySeries("nav", time.Date(2021, time.January, 1, 0, 0, 0, 0, tz), vals)
			Expect(perf.AnnualizedReturn(series)).Should(BeNumerically("~", 0.1, 1e-9))
		})

		It("compounds a half year of observations", func() {
			vals := make([]float64, 126)
			for ii := range vals {
				vals[ii] = 1 + 0.1*float64(ii)/125
			}
			series = dailySeries("nav", time.Date(2021, time.January, 1, 0, 0, 0, 0, tz), vals)
			Expect(perf.AnnualizedReturn(series)).Should(BeNumerically("~", math.Pow(1.1, 2)-1, 1e-9))
		})

		It("returns 0 for a single observation", func() {
			series = dailySeries("nav", time.Date(2021, time.March, 1, 0, 0, 0, 0, tz), []float64{1.0})
			Expect(perf.AnnualizedReturn(series)).To(Equal(0.0))
		})
	})

	Describe("when computing the max draw down", func() {
		It("finds the largest peak to trough loss", func() {
			series = dailySeries("nav", time.Date(2021, time.March, 1, 0, 0, 0, 0, tz), []float64{100, 120, 90, 110})
			Expect(perf.MaxDrawDown(series)).Should(BeNumerically("~", -0.25, 1e-9))
		})

		It("is 0 for a monotonically increasing series", func() {
			series = dailySeries("nav", time.Date(2021, time.March, 1, 0, 0, 0, 0, tz), []float64{1.0, 1.1, 1.2, 1.3})
			Expect(perf.MaxDrawDown(series)).To(Equal(0.0))
		})

		It("is never positive", func() {
			series = dailySeries("nav", time.Date(2021, time.March, 1, 0, 0, 0, 0, tz), []float64{1.0, 0.9, 0.95, 1.2, 1.1})
			Expect(perf.MaxDrawDown(series)).To(BeNumerically("<=", 0))
		})

		It("is 0 for an empty series", func() {
			series = &navseries.Series{}
			Expect(perf.MaxDrawDown(series)).To(Equal(0.0))
		})
	})

	Describe("when computing volatility", func() {
		It("annualizes the sample standard deviation of daily returns", func() {
			series = dailySeries("nav", time.Date(2021, time.March, 1, 0, 0, 0, 0, tz),
				[]float64{1.0, 1.01, 1.01 * 1.02, 1.01 * 1.02 * 1.03})
			Expect(perf.Volatility(series)).Should(BeNumerically("~", 0.01*math.Sqrt(252), 1e-6))
		})

		It("is NaN when there are fewer than 2 returns", func() {
			series = dailySeries("nav", time.Date(2021, time.March, 1, 0, 0, 0, 0, tz), []float64{1.0, 1.1})
			Expect(math.IsNaN(perf.Volatility(series))).Should(BeTrue())
		})
	})

	Describe("when computing the sharpe ratio", func() {
		Context("with steadily increasing returns", func() {
			BeforeEach(func() {
				series = dailySeries("nav", time.Date(2021, time.March, 1, 0, 0, 0, 0, tz),
					[]float64{1.0, 1.01, 1.01 * 1.02, 1.01 * 1.02 * 1.03})
			})

			It("computes the annualized ratio with no risk free rate", func() {
				// mean 0.02 / std 0.01 scaled by sqrt(252)
				Expect(perf.SharpeRatio(series, 0)).Should(BeNumerically("~", 2*math.Sqrt(252), 1e-6))
			})

			It("shrinks as the risk free rate grows", func() {
				Expect(perf.SharpeRatio(series, 0.02)).To(BeNumerically("<", perf.SharpeRatio(series, 0)))
			})
		})

		It("is NaN for a flat series rather than 0", func() {
			series = dailySeries("nav", time.Date(2021, time.March, 1, 0, 0, 0, 0, tz), []float64{1.0, 1.0, 1.0, 1.0})
			Expect(math.IsNaN(perf.SharpeRatio(series, 0.02))).Should(BeTrue())
		})

		It("is NaN when there are fewer than 2 returns", func() {
			series = dailySeries("nav", time.Date(2021, time.March, 1, 0, 0, 0, 0, tz), []float64{1.0, 1.1})
			Expect(math.IsNaN(perf.SharpeRatio(series, 0.02))).Should(BeTrue())
		})
	})

	Describe("when computing the karma ratio", func() {
		It("divides the period return by the draw down magnitude", func() {
			series = dailySeries("nav", time.Date(2021, time.March, 1, 0, 0, 0, 0, tz), []float64{100, 120, 90, 110})
			Expect(perf.KarmaRatio(series)).Should(BeNumerically("~", 0.4, 1e-9))
		})

		It("is NaN when the series never drew down", func() {
			series = dailySeries("nav", time.Date(2021, time.March, 1, 0, 0, 0, 0, tz), []float64{1.0, 1.1, 1.2})
			Expect(math.IsNaN(perf.KarmaRatio(series))).Should(BeTrue())
		})

		It("is NaN for a degenerate single observation window", func() {
			series = dailySeries("nav", time.Date(2021, time.March, 1, 0, 0, 0, 0, tz), []float64{1.0})
			Expect(math.IsNaN(perf.KarmaRatio(series))).Should(BeTrue())
		})
	})
})
