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
	"math"

	"github.com/goccy/go-json"
	"github.com/penny-vault/nav-report/data"
	"github.com/penny-vault/nav-report/perf"
	"github.com/rs/zerolog/log"
)

const (
	strategyColor  = "#d9534f"
	benchmarkColor = "#5cb85c"
	excessColor    = "#007bff"
)

const (
	strategyLabel = "策略收益"
	excessLabel   = "累计超额收益"
	drawdownLabel = "策略回撤"
)

// ChartData holds the percent series charted by the report page: cumulative
// returns on the upper panel and the strategy drawdown on the lower panel
type ChartData struct {
	Dates     []string   `json:"dates"`
	Strategy  []float64  `json:"strategy"`
	Benchmark []*float64 `json:"benchmark,omitempty"`
	Excess    []*float64 `json:"excess,omitempty"`
	Drawdown  []float64  `json:"drawdown"`
}

// BuildChartData converts the nav curves into chart series. Cumulative
// returns are relative to each curve's first observation, in percent rounded
// to 2 decimal places; the excess series is the running difference of the
// two return series. Dates where the benchmark has no observation chart as
// gaps
func BuildChartData(nav *data.NavFile) *ChartData {
	strategy := nav.Strategy
	n := strategy.Len()

	chart := &ChartData{
		Dates:    make([]string, n),
		Strategy: make([]float64, n),
		Drawdown: make([]float64, n),
	}

	if n == 0 {
		return chart
	}

	dd := perf.DrawDownSeries(strategy)
	for idx, dt := range strategy.Dates {
		chart.Dates[idx] = dt.Format("2006-01-02")
		chart.Strategy[idx] = round2((strategy.Vals[idx]/strategy.Vals[0] - 1) * 100)
		chart.Drawdown[idx] = round2(dd.Vals[idx] * 100)
	}

	if nav.Benchmark == nil || nav.Benchmark.Len() == 0 {
		return chart
	}

	benchmark := nav.Benchmark
	base := benchmark.Vals[0]

	index := make(map[int64]int, benchmark.Len())
	for idx, dt := range benchmark.Dates {
		index[dt.Unix()] = idx
	}

	chart.Benchmark = make([]*float64, n)
	chart.Excess = make([]*float64, n)
	for idx, dt := range strategy.Dates {
		bIdx, ok := index[dt.Unix()]
		if !ok {
			continue
		}

		b := round2((benchmark.Vals[bIdx]/base - 1) * 100)
		e := round2(chart.Strategy[idx] - b)
		chart.Benchmark[idx] = &b
		chart.Excess[idx] = &e
	}

	return chart
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// echarts option fragments; field names follow the echarts option schema

type chartTitle struct {
	Text string `json:"text"`
	Left string `json:"left"`
}

type chartLegend struct {
	Data []string `json:"data"`
	Top  string   `json:"top"`
	Left string   `json:"left"`
}

type chartPointerLink struct {
	XAxisIndex string `json:"xAxisIndex"`
}

type chartAxisPointer struct {
	Show bool               `json:"show"`
	Link []chartPointerLink `json:"link"`
}

type chartTooltipPointer struct {
	Type string `json:"type"`
}

type chartTooltip struct {
	Trigger     string              `json:"trigger"`
	AxisPointer chartTooltipPointer `json:"axisPointer"`
}

type chartToolboxFeature struct {
	SaveAsImage struct{} `json:"saveAsImage"`
	Restore     struct{} `json:"restore"`
	DataZoom    struct{} `json:"dataZoom"`
}

type chartToolbox struct {
	Show    bool                `json:"show"`
	Left    string              `json:"left"`
	Feature chartToolboxFeature `json:"feature"`
}

type chartGrid struct {
	Top    string `json:"top"`
	Bottom string `json:"bottom"`
}

type chartXAxis struct {
	Type        string   `json:"type"`
	GridIndex   int      `json:"gridIndex"`
	BoundaryGap bool     `json:"boundaryGap"`
	Show        bool     `json:"show"`
	Data        []string `json:"data"`
}

type chartAxisLabel struct {
	Formatter string `json:"formatter"`
}

type chartYAxis struct {
	Type      string         `json:"type"`
	GridIndex int            `json:"gridIndex"`
	Name      string         `json:"name"`
	AxisLabel chartAxisLabel `json:"axisLabel"`
}

type chartDataZoom struct {
	Type       string `json:"type"`
	XAxisIndex []int  `json:"xAxisIndex"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
}

type chartLineStyle struct {
	Width float64 `json:"width"`
	Color string  `json:"color"`
}

type chartItemStyle struct {
	Color string `json:"color"`
}

type chartAreaStyle struct {
	Opacity float64 `json:"opacity"`
	Color   string  `json:"color"`
}

type chartSeries struct {
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	XAxisIndex int             `json:"xAxisIndex"`
	YAxisIndex int             `json:"yAxisIndex"`
	Smooth     bool            `json:"smooth"`
	ShowSymbol bool            `json:"showSymbol"`
	Data       interface{}     `json:"data"`
	LineStyle  chartLineStyle  `json:"lineStyle"`
	ItemStyle  chartItemStyle  `json:"itemStyle"`
	AreaStyle  *chartAreaStyle `json:"areaStyle,omitempty"`
}

type chartOption struct {
	Title       []chartTitle     `json:"title"`
	Legend      []chartLegend    `json:"legend"`
	Tooltip     chartTooltip     `json:"tooltip"`
	AxisPointer chartAxisPointer `json:"axisPointer"`
	Toolbox     chartToolbox     `json:"toolbox"`
	Grid        []chartGrid      `json:"grid"`
	XAxis       []chartXAxis     `json:"xAxis"`
	YAxis       []chartYAxis     `json:"yAxis"`
	DataZoom    []chartDataZoom  `json:"dataZoom"`
	Series      []chartSeries    `json:"series"`
}

func lineSeries(name string, data interface{}, color string, width float64) chartSeries {
	return chartSeries{
		Name:       name,
		Type:       "line",
		Smooth:     true,
		ShowSymbol: false,
		Data:       data,
		LineStyle:  chartLineStyle{Width: width, Color: color},
		ItemStyle:  chartItemStyle{Color: color},
	}
}

// chartConfigJSON builds the echarts option for the two panel layout: nav
// curves with a linked drawdown subchart and a shared slider zoom
func chartConfigJSON(chart *ChartData, title string, benchmarkLabel string) ([]byte, error) {
	legend := []string{strategyLabel}

	series := make([]chartSeries, 0, 4)
	series = append(series, lineSeries(strategyLabel, chart.Strategy, strategyColor, 2))

	if chart.Benchmark != nil {
		legend = append(legend, benchmarkLabel, excessLabel)

		series = append(series, lineSeries(benchmarkLabel, chart.Benchmark, benchmarkColor, 2))

		excess := lineSeries(excessLabel, chart.Excess, excessColor, 1)
		excess.AreaStyle = &chartAreaStyle{Opacity: 0.2, Color: excessColor}
		series = append(series, excess)
	}

	drawdown := lineSeries(drawdownLabel, chart.Drawdown, strategyColor, 1)
	drawdown.XAxisIndex = 1
	drawdown.YAxisIndex = 1
	drawdown.AreaStyle = &chartAreaStyle{Opacity: 0.5, Color: strategyColor}
	series = append(series, drawdown)

	option := &chartOption{
		Title:  []chartTitle{{Text: title, Left: "center"}},
		Legend: []chartLegend{{Data: legend, Top: "8%", Left: "center"}},
		Tooltip: chartTooltip{
			Trigger:     "axis",
			AxisPointer: chartTooltipPointer{Type: "cross"},
		},
		AxisPointer: chartAxisPointer{
			Show: true,
			Link: []chartPointerLink{{XAxisIndex: "all"}},
		},
		Toolbox: chartToolbox{Show: true, Left: "right"},
		Grid: []chartGrid{
			{Top: "12%", Bottom: "33%"},
			{Top: "74%", Bottom: "7%"},
		},
		XAxis: []chartXAxis{
			{Type: "category", GridIndex: 0, BoundaryGap: false, Show: true, Data: chart.Dates},
			{Type: "category", GridIndex: 1, BoundaryGap: false, Show: false, Data: chart.Dates},
		},
		YAxis: []chartYAxis{
			{Type: "value", GridIndex: 0, Name: "收益率 (%)", AxisLabel: chartAxisLabel{Formatter: "{value} %"}},
			{Type: "value", GridIndex: 1, Name: "回撤 (%)", AxisLabel: chartAxisLabel{Formatter: "{value} %"}},
		},
		DataZoom: []chartDataZoom{
			{Type: "slider", XAxisIndex: []int{0, 1}, Start: 0, End: 100},
		},
		Series: series,
	}

	doc, err := json.Marshal(option)
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not marshal chart option")
		return nil, err
	}

	return doc, nil
}
