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

package navseries_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/nav-report/common"
	"github.com/penny-vault/nav-report/navseries"
)

var _ = Describe("Series", func() {
	var (
		series *navseries.Series
		tz     *time.Location
	)

	BeforeEach(func() {
		tz = common.GetTimezone()

		series = &navseries.Series{
			Name: "strategy",
			Dates: []time.Time{
				time.Date(2021, time.January, 4, 0, 0, 0, 0, tz),
				time.Date(2021, time.January, 5, 0, 0, 0, 0, tz),
				time.Date(2021, time.January, 6, 0, 0, 0, 0, tz),
				time.Date(2021, time.January, 7, 0, 0, 0, 0, tz),
				time.Date(2021, time.January, 8, 0, 0, 0, 0, tz),
			},
			Vals: []float64{1.0, 1.1, 1.05, 1.2, 1.15},
		}
	})

	Describe("when inspecting the series", func() {
		It("reports the number of observations", func() {
			Expect(series.Len()).To(Equal(5))
		})

		It("returns the first observation date", func() {
			Expect(series.Start()).To(Equal(time.Date(2021, time.January, 4, 0, 0, 0, 0, tz)))
		})

		It("returns the last observation date", func() {
			Expect(series.End()).To(Equal(time.Date(2021, time.January, 8, 0, 0, 0, 0, tz)))
		})

		Context("with an empty series", func() {
			BeforeEach(func() {
				series = &navseries.Series{}
			})

			It("returns the zero time for start", func() {
				Expect(series.Start().IsZero()).To(BeTrue())
			})

			It("returns the zero time for end", func() {
				Expect(series.End().IsZero()).To(BeTrue())
			})
		})
	})

	Describe("when validating the series", func() {
		It("accepts a well formed series", func() {
			Expect(series.Validate()).To(Succeed())
		})

		It("rejects mismatched dates and values", func() {
			series.Vals = series.Vals[:3]
			Expect(series.Validate()).To(MatchError(navseries.ErrLengthMismatch))
		})

		It("rejects duplicate dates", func() {
			series.Dates[2] = series.Dates[1]
			Expect(series.Validate()).To(MatchError(navseries.ErrDuplicateDate))
		})

		It("rejects out of order dates", func() {
			series.Dates[1], series.Dates[3] = series.Dates[3], series.Dates[1]
			Expect(series.Validate()).To(MatchError(navseries.ErrUnorderedDates))
		})

		It("rejects a zero nav", func() {
			series.Vals[4] = 0
			Expect(series.Validate()).To(MatchError(navseries.ErrNonPositiveNav))
		})

		It("rejects a negative nav", func() {
			series.Vals[0] = -1.0
			Expect(series.Validate()).To(MatchError(navseries.ErrNonPositiveNav))
		})
	})

	Describe("when sorting the series", func() {
		It("orders observations by date and keeps values attached", func() {
			series.Dates[0], series.Dates[4] = series.Dates[4], series.Dates[0]
			series.Vals[0], series.Vals[4] = series.Vals[4], series.Vals[0]

			series.Sort()

			Expect(series.Dates[0]).To(Equal(time.Date(2021, time.January, 4, 0, 0, 0, 0, tz)))
			Expect(series.Dates[4]).To(Equal(time.Date(2021, time.January, 8, 0, 0, 0, 0, tz)))
			Expect(series.Vals).To(Equal([]float64{1.0, 1.1, 1.05, 1.2, 1.15}))
		})
	})

	Describe("when computing returns", func() {
		It("computes period over period returns", func() {
			rets := series.Returns()
			Expect(rets).To(HaveLen(4))
			Expect(rets[0]).Should(BeNumerically("~", 0.1, 1e-9))
			Expect(rets[1]).Should(BeNumerically("~", -0.0454545454, 1e-9))
			Expect(rets[2]).Should(BeNumerically("~", 0.1428571428, 1e-9))
			Expect(rets[3]).Should(BeNumerically("~", -0.0416666666, 1e-9))
		})

		It("returns an empty slice for a single observation", func() {
			series.Dates = series.Dates[:1]
			series.Vals = series.Vals[:1]
			Expect(series.Returns()).To(BeEmpty())
		})
	})

	Describe("when trimming the series", func() {
		It("keeps observations inside the range", func() {
			trimmed := series.Trim(
				time.Date(2021, time.January, 5, 0, 0, 0, 0, tz),
				time.Date(2021, time.January, 7, 0, 0, 0, 0, tz))
			Expect(trimmed.Len()).To(Equal(3))
			Expect(trimmed.Start()).To(Equal(time.Date(2021, time.January, 5, 0, 0, 0, 0, tz)))
			Expect(trimmed.End()).To(Equal(time.Date(2021, time.January, 7, 0, 0, 0, 0, tz)))
			Expect(trimmed.Vals).To(Equal([]float64{1.1, 1.05, 1.2}))
		})

		It("excludes an end date that falls between observations", func() {
			trimmed := series.Trim(
				time.Date(2021, time.January, 4, 0, 0, 0, 0, tz),
				time.Date(2021, time.January, 6, 12, 0, 0, 0, tz))
			Expect(trimmed.Len()).To(Equal(3))
			Expect(trimmed.End()).To(Equal(time.Date(2021, time.January, 6, 0, 0, 0, 0, tz)))
		})

		It("returns an empty series when begin is after end", func() {
			trimmed := series.Trim(
				time.Date(2021, time.January, 7, 0, 0, 0, 0, tz),
				time.Date(2021, time.January, 5, 0, 0, 0, 0, tz))
			Expect(trimmed.Len()).To(Equal(0))
		})

		It("returns an empty series when the range is before all observations", func() {
			trimmed := series.Trim(
				time.Date(2020, time.January, 1, 0, 0, 0, 0, tz),
				time.Date(2020, time.December, 31, 0, 0, 0, 0, tz))
			Expect(trimmed.Len()).To(Equal(0))
		})

		It("returns an empty series when the range is after all observations", func() {
			trimmed := series.Trim(
				time.Date(2022, time.January, 1, 0, 0, 0, 0, tz),
				time.Date(2022, time.December, 31, 0, 0, 0, 0, tz))
			Expect(trimmed.Len()).To(Equal(0))
		})

		It("is idempotent for a range wider than the series", func() {
			trimmed := series.Trim(
				time.Date(2020, time.January, 1, 0, 0, 0, 0, tz),
				time.Date(2022, time.December, 31, 0, 0, 0, 0, tz))
			Expect(trimmed.Len()).To(Equal(5))
			Expect(trimmed.Dates).To(Equal(series.Dates))
			Expect(trimmed.Vals).To(Equal(series.Vals))
		})
	})

	Describe("when copying the series", func() {
		It("does not share backing arrays", func() {
			dup := series.Copy()
			dup.Vals[0] = 99.0
			Expect(series.Vals[0]).To(Equal(1.0))
		})
	})

	Describe("when rendering the series", func() {
		It("produces a table with all rows", func() {
			tbl := series.Table()
			Expect(tbl).To(ContainSubstring("2021-01-04"))
			Expect(tbl).To(ContainSubstring("1.2000"))
		})

		It("reports missing data", func() {
			series = &navseries.Series{}
			Expect(series.Table()).To(Equal("<NO DATA>"))
			Expect(series.Sparkline(10)).To(Equal("<NO DATA>"))
		})
	})
})
