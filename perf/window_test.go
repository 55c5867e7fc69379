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
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/nav-report/common"
	"github.com/penny-vault/nav-report/navseries"
	"github.com/penny-vault/nav-report/perf"
)

var _ = Describe("ResolveWindows", func() {
	var (
		series *navseries.Series
		tz     *time.Location
	)

	BeforeEach(func() {
		tz = common.GetTimezone()
	})

	Context("with 10 daily observations", func() {
		BeforeEach(func() {
			vals := make([]float64, 10)
			for ii := range vals {
				vals[ii] = 1 + 0.01*float64(ii)
			}
			series = dailySeries("nav", time.Date(2024, time.January, 1, 0, 0, 0, 0, tz), vals)
		})

		It("anchors every window at the last observation", func() {
			windows, err := perf.ResolveWindows(series)
			Expect(err).To(BeNil())
			for _, span := range windows {
				Expect(span.End).To(Equal(time.Date(2024, time.January, 10, 0, 0, 0, 0, tz)))
			}
		})

		It("resolves the interval window to the two most recent observations", func() {
			windows, err := perf.ResolveWindows(series)
			Expect(err).To(BeNil())
			Expect(windows[perf.WindowInterval].Begin).To(Equal(time.Date(2024, time.January, 9, 0, 0, 0, 0, tz)))
		})

		It("resolves the week window to the observation on the cutoff", func() {
			windows, err := perf.ResolveWindows(series)
			Expect(err).To(BeNil())
			Expect(windows[perf.Window1W].Begin).To(Equal(time.Date(2024, time.January, 3, 0, 0, 0, 0, tz)))
		})

		It("falls back to the first observation when the series is shorter than the window", func() {
			windows, err := perf.ResolveWindows(series)
			Expect(err).To(BeNil())
			Expect(windows[perf.Window1M].Begin).To(Equal(time.Date(2024, time.January, 1, 0, 0, 0, 0, tz)))
			Expect(windows[perf.Window1Y].Begin).To(Equal(time.Date(2024, time.January, 1, 0, 0, 0, 0, tz)))
			Expect(windows[perf.WindowAll].Begin).To(Equal(time.Date(2024, time.January, 1, 0, 0, 0, 0, tz)))
		})

		It("begins every window on an actual observation date", func() {
			windows, err := perf.ResolveWindows(series)
			Expect(err).To(BeNil())

			onCurve := make(map[int64]bool, series.Len())
			for _, dt := range series.Dates {
				onCurve[dt.Unix()] = true
			}

			for _, span := range windows {
				Expect(onCurve[span.Begin.Unix()]).Should(BeTrue())
			}
		})

		It("resolves the same windows when called twice", func() {
			first, err := perf.ResolveWindows(series)
			Expect(err).To(BeNil())
			second, err := perf.ResolveWindows(series)
			Expect(err).To(BeNil())
			Expect(second).To(Equal(first))
		})
	})

	Context("with sparse observations spanning a year boundary", func() {
		BeforeEach(func() {
			series = &navseries.Series{
				Name: "nav",
				Dates: []time.Time{
					time.Date(2023, time.November, 1, 0, 0, 0, 0, tz),
					time.Date(2023, time.December, 1, 0, 0, 0, 0, tz),
					time.Date(2024, time.January, 2, 0, 0, 0, 0, tz),
					time.Date(2024, time.January, 20, 0, 0, 0, 0, tz),
					time.Date(2024, time.February, 15, 0, 0, 0, 0, tz),
				},
				Vals: []float64{1.0, 1.02, 1.05, 1.03, 1.08},
			}
		})

		It("starts the ytd window at the first observation of the calendar year", func() {
			windows, err := perf.ResolveWindows(series)
			Expect(err).To(BeNil())
			Expect(windows[perf.WindowYTD].Begin).To(Equal(time.Date(2024, time.January, 2, 0, 0, 0, 0, tz)))
		})

		It("moves the month window forward to the next observation after the cutoff", func() {
			windows, err := perf.ResolveWindows(series)
			Expect(err).To(BeNil())
			// cutoff 2024-01-15 is not observed; the next observation is 2024-01-20
			Expect(windows[perf.Window1M].Begin).To(Equal(time.Date(2024, time.January, 20, 0, 0, 0, 0, tz)))
		})

		It("resolves the quarter window across the year boundary", func() {
			windows, err := perf.ResolveWindows(series)
			Expect(err).To(BeNil())
			Expect(windows[perf.Window3M].Begin).To(Equal(time.Date(2023, time.December, 1, 0, 0, 0, 0, tz)))
		})
	})

	Context("with a single observation", func() {
		BeforeEach(func() {
			series = dailySeries("nav", time.Date(2024, time.March, 15, 0, 0, 0, 0, tz), []float64{1.0})
		})

		It("resolves every window to a zero length interval", func() {
			windows, err := perf.ResolveWindows(series)
			Expect(err).To(BeNil())
			for _, span := range windows {
				Expect(span.Begin).To(Equal(span.End))
				Expect(span.Valid()).To(Succeed())
			}
		})
	})

	Context("with an empty series", func() {
		It("returns an error", func() {
			_, err := perf.ResolveWindows(&navseries.Series{})
			Expect(err).To(MatchError(navseries.ErrEmptySeries))
		})
	})
})

var _ = Describe("PayloadKey", func() {
	It("uses the bare window name for strategy bundles", func() {
		Expect(perf.PayloadKey(perf.WindowYTD, perf.Strategy)).To(Equal("ytd"))
	})

	It("suffixes benchmark bundles", func() {
		Expect(perf.PayloadKey(perf.WindowYTD, perf.Benchmark)).To(Equal("ytd_Benchmark"))
	})

	It("suffixes excess bundles", func() {
		Expect(perf.PayloadKey(perf.Window1M, perf.Excess)).To(Equal("1m_Excess"))
	})
})
