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

package cmd

import (
	"context"
	"fmt"

	"github.com/penny-vault/nav-report/common"
	"github.com/penny-vault/nav-report/data"
	"github.com/penny-vault/nav-report/perf"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(metricCmd)
}

var metricCmd = &cobra.Command{
	Use:   "metric <window>",
	Short: "calculate the metrics of a single window (mostly useful for debugging)",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		common.SetupLogging()
		common.SetupCache()

		profile := activeProfile()
		nav, err := data.LoadNavCSV(ctx, profile.NavFile)
		if err != nil {
			log.Fatal().Err(err).Str("NavFile", profile.NavFile).Msg("could not load nav file")
		}

		windows, err := perf.ResolveWindows(nav.Strategy)
		if err != nil {
			log.Fatal().Err(err).Msg("could not resolve reporting windows")
		}

		window := perf.Window(args[0])
		interval, ok := windows[window]
		if !ok {
			log.Fatal().Str("Window", args[0]).Msg("unknown reporting window")
		}

		subLog := log.With().Str("Window", string(window)).Logger()

		rf, err := data.RiskFreeRate(ctx, profile.RateSource(), interval.Begin, interval.End)
		if err != nil {
			subLog.Warn().Err(err).Msg("could not resolve risk free rate; using configured rate")
			rf = viper.GetFloat64("riskfree.rate") / 100
		}

		sub := nav.Strategy.Trim(interval.Begin, interval.End)
		subLog.Info().Object("Bundle", perf.ComputeBundle(sub, rf)).Msg("strategy")

		fmt.Println(sub.Table())
		fmt.Println(sub.Sparkline(10))

		if nav.HasBenchmark() {
			benchSub := nav.Benchmark.Trim(interval.Begin, interval.End)
			if benchSub.Len() > 0 {
				subLog.Info().Object("Bundle", perf.ComputeBundle(benchSub, rf)).Msg("benchmark")
			}

			if excess, err := perf.ExcessSeries(sub, benchSub); err == nil {
				subLog.Info().Object("Bundle", perf.ComputeBundle(excess, rf)).Msg("excess")
			} else {
				subLog.Warn().Err(err).Msg("excess curve is undefined for window")
			}
		}
	},
}
