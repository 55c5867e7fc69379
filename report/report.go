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

package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/penny-vault/nav-report/data"
	"github.com/penny-vault/nav-report/observability/opentelemetry"
	"github.com/penny-vault/nav-report/perf"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
)

// Assemble computes every metric bundle of the report. Each reporting window
// yields a strategy bundle and, when the nav file carries a benchmark, a
// benchmark bundle and an excess bundle. A window whose excess curve cannot
// be built (fewer than 2 shared observation dates) gets a sentinel bundle;
// the remaining bundles are unaffected
func Assemble(ctx context.Context, nav *data.NavFile, rates data.RateSource, profile *Profile) (*Payload, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "report.Assemble")
	defer span.End()

	windows, err := perf.ResolveWindows(nav.Strategy)
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not resolve reporting windows")
		return nil, err
	}

	fingerprint, err := Fingerprint(nav)
	if err != nil {
		return nil, err
	}

	payload := &Payload{
		Title:        profile.Title,
		ID:           uuid.New(),
		Fingerprint:  fingerprint,
		GeneratedAt:  time.Now(),
		HasBenchmark: nav.HasBenchmark(),
		RiskFree:     make(map[perf.Window]float64, len(windows)),
		Bundles:      make(map[string]*perf.Bundle, 3*len(windows)),
	}

	for _, window := range perf.Windows() {
		interval, ok := windows[window]
		if !ok {
			continue
		}

		rf, err := data.RiskFreeRate(ctx, rates, interval.Begin, interval.End)
		if err != nil {
			log.Warn().Err(err).Str("Window", string(window)).Msg("could not resolve risk free rate; using configured rate")
			rf = viper.GetFloat64("riskfree.rate") / 100
		}
		payload.RiskFree[window] = rf

		sub := nav.Strategy.Trim(interval.Begin, interval.End)
		payload.Bundles[perf.PayloadKey(window, perf.Strategy)] = perf.ComputeBundle(sub, rf)

		if !nav.HasBenchmark() {
			continue
		}

		benchSub := nav.Benchmark.Trim(interval.Begin, interval.End)
		if benchSub.Len() == 0 {
			payload.Bundles[perf.PayloadKey(window, perf.Benchmark)] = perf.SentinelBundle(interval)
		} else {
			payload.Bundles[perf.PayloadKey(window, perf.Benchmark)] = perf.ComputeBundle(benchSub, rf)
		}

		excess, err := perf.ExcessSeries(sub, benchSub)
		if err != nil {
			log.Warn().Err(err).Str("Window", string(window)).Msg("excess curve is undefined for window")
			payload.Bundles[perf.PayloadKey(window, perf.Excess)] = perf.SentinelBundle(interval)
		} else {
			payload.Bundles[perf.PayloadKey(window, perf.Excess)] = perf.ComputeBundle(excess, rf)
		}
	}

	payload.Chart = BuildChartData(nav)
	return payload, nil
}

// Generate runs the full pipeline for a profile: load the nav file,
// assemble the payload, render the page
func Generate(ctx context.Context, profile *Profile) (*Payload, []byte, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "report.Generate")
	defer span.End()

	nav, err := data.LoadNavCSV(ctx, profile.NavFile)
	if err != nil {
		return nil, nil, err
	}

	payload, err := Assemble(ctx, nav, profile.RateSource(), profile)
	if err != nil {
		return nil, nil, err
	}

	page, err := Render(payload, profile)
	if err != nil {
		return nil, nil, err
	}

	return payload, page, nil
}
