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
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	json "github.com/goccy/go-json"
	"github.com/penny-vault/nav-report/perf"
	"github.com/rs/zerolog/log"
)

//go:embed template.html
var pageTemplate string

var reportTemplate = template.Must(template.New("report").Parse(pageTemplate))

// SummaryCard is one period card at the top of the report page
type SummaryCard struct {
	Label     string
	DateRange string
	Metrics   []CardMetric
}

// CardMetric is a single formatted return line on a summary card
type CardMetric struct {
	Label string
	Value string
	Up    bool
}

var cardWindows = []struct {
	window perf.Window
	label  string
}{
	{perf.WindowInterval, "当日"},
	{perf.Window1W, "近一周"},
	{perf.Window1M, "近一月"},
	{perf.Window3M, "近三月"},
	{perf.WindowYTD, "今年以来"},
	{perf.WindowAll, "成立以来"},
}

func cardMetric(label string, value float64) CardMetric {
	return CardMetric{
		Label: label,
		Value: fmt.Sprintf("%.2f%%", value*100),
		Up:    value >= 0,
	}
}

// SummaryCards formats the per-period return cards shown at the top of the
// report page. Excess on a card is the simple difference of the strategy
// and benchmark returns over the period
func SummaryCards(payload *Payload) []SummaryCard {
	cards := make([]SummaryCard, 0, len(cardWindows))

	for _, cw := range cardWindows {
		bundle, ok := payload.Bundles[perf.PayloadKey(cw.window, perf.Strategy)]
		if !ok {
			continue
		}

		card := SummaryCard{
			Label:     cw.label,
			DateRange: formatDateRange(bundle),
			Metrics:   []CardMetric{cardMetric("策略收益", bundle.Return)},
		}

		if benchBundle, ok := payload.Bundles[perf.PayloadKey(cw.window, perf.Benchmark)]; ok {
			card.Metrics = append(card.Metrics,
				cardMetric("基准收益", benchBundle.Return),
				cardMetric("超额收益", bundle.Return-benchBundle.Return))
		}

		cards = append(cards, card)
	}

	return cards
}

func formatDateRange(bundle *perf.Bundle) string {
	begin := bundle.Begin.Format("2006-01-02")
	end := bundle.End.Format("2006-01-02")
	if begin == end {
		return begin
	}

	return fmt.Sprintf("%s ~ %s", begin, end)
}

type pageData struct {
	Title       string
	GeneratedAt string
	Cards       []SummaryCard
	ChartConfig template.JS
	Indicators  template.JS
}

// Render produces the self-contained report page for the payload
func Render(payload *Payload, profile *Profile) ([]byte, error) {
	chartConfig, err := chartConfigJSON(payload.Chart, payload.Title, profile.BenchmarkLabel)
	if err != nil {
		return nil, err
	}

	indicators, err := json.Marshal(payload.Bundles)
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not marshal indicator bundles")
		return nil, err
	}

	page := pageData{
		Title:       payload.Title,
		GeneratedAt: payload.GeneratedAt.Format("2006-01-02 15:04:05"),
		Cards:       SummaryCards(payload),
		ChartConfig: template.JS(chartConfig),
		Indicators:  template.JS(indicators),
	}

	buf := &bytes.Buffer{}
	if err := reportTemplate.Execute(buf, page); err != nil {
		log.Error().Stack().Err(err).Msg("could not render report page")
		return nil, err
	}

	return buf.Bytes(), nil
}
