// Copyright 2021-2022
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

package cmd

import (
	"fmt"
	"math"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/penny-vault/nav-report/perf"
	"github.com/penny-vault/nav-report/report"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// activeProfile loads the report profile named on the command line, falling
// back to the built-in profile
func activeProfile() *report.Profile {
	path := viper.GetString("report.profile")
	if path == "" {
		return report.DefaultProfile()
	}

	profile, err := report.LoadProfile(path)
	if err != nil {
		log.Fatal().Err(err).Str("Path", path).Msg("could not load report profile")
	}

	return profile
}

// formatMetric renders a metric for terminal output; undefined metrics
// render as --
func formatMetric(val float64, pct bool) string {
	if math.IsNaN(val) {
		return "--"
	}

	if pct {
		return fmt.Sprintf("%.2f%%", val*100)
	}

	return fmt.Sprintf("%.2f", val)
}

// printSummary renders the metric bundles of the payload as a table on
// stdout, one row per curve and window
func printSummary(payload *report.Payload) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Window", "Curve", "Start", "End", "Return", "Annualized", "Max Draw Down", "Sharpe", "Karma"})

	for _, window := range perf.Windows() {
		for _, kind := range []perf.Kind{perf.Strategy, perf.Benchmark, perf.Excess} {
			bundle, ok := payload.Bundles[perf.PayloadKey(window, kind)]
			if !ok {
				continue
			}

			table.Append([]string{
				string(window),
				string(kind),
				bundle.Begin.Format("2006-01-02"),
				bundle.End.Format("2006-01-02"),
				formatMetric(bundle.Return, true),
				formatMetric(bundle.AnnualizedReturn, true),
				formatMetric(bundle.MaxDrawDown, true),
				formatMetric(bundle.SharpeRatio, false),
				formatMetric(bundle.KarmaRatio, false),
			})
		}
	}

	table.Render()
}
