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

package data

import (
	"context"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/penny-vault/nav-report/common"
	"github.com/penny-vault/nav-report/navseries"
	dataframe "github.com/rocketlaunchr/dataframe-go"
	imports "github.com/rocketlaunchr/dataframe-go/imports"
	"github.com/rs/zerolog/log"
)

const (
	DateColumn      = "Date"
	StrategyColumn  = "Strategy_Value"
	BenchmarkColumn = "Benchmark_Value"
)

// NavFile carries the series parsed from a nav history file
type NavFile struct {
	Strategy  *navseries.Series
	Benchmark *navseries.Series
}

// HasBenchmark reports whether the file carried a benchmark history
func (nav *NavFile) HasBenchmark() bool {
	return nav.Benchmark != nil
}

// LoadNavCSV reads a nav history file from disk. See LoadNav for the
// expected format
func LoadNavCSV(ctx context.Context, path string) (*NavFile, error) {
	subLog := log.With().Str("FilePath", path).Logger()

	fh, err := os.Open(path)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not open nav history file")
		return nil, err
	}

	defer fh.Close()
	return LoadNav(ctx, fh)
}

// LoadNav parses a nav history in CSV format. The file must have a Date
// column and a Strategy_Value column; a Benchmark_Value column is optional
// and the benchmark series is nil when it is absent. Rows with an empty
// benchmark cell are dropped from the benchmark series only.
//
// Observations are sorted by date before validation; files with duplicate
// dates or non-positive nav values are rejected
func LoadNav(ctx context.Context, r io.Reader) (*NavFile, error) {
	tz := common.GetTimezone()

	floatConverter := imports.Converter{
		ConcreteType: float64(0),
		ConverterFunc: func(in interface{}) (interface{}, error) {
			v, err := strconv.ParseFloat(in.(string), 64)
			if err != nil {
				return math.NaN(), nil
			}
			return v, nil
		},
	}

	res, err := imports.LoadFromCSV(ctx, r, imports.CSVLoadOptions{
		TrimLeadingSpace: true,
		DictateDataType: map[string]interface{}{
			DateColumn: imports.Converter{
				ConcreteType: time.Time{},
				ConverterFunc: func(in interface{}) (interface{}, error) {
					return time.ParseInLocation("2006-01-02", in.(string), tz)
				},
			},
			StrategyColumn:  floatConverter,
			BenchmarkColumn: floatConverter,
		},
	})
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not parse nav history csv")
		return nil, err
	}

	if _, err := res.NameToColumn(DateColumn); err != nil {
		log.Error().Str("Column", DateColumn).Msg("nav history is missing a required column")
		return nil, ErrMissingColumn
	}

	if _, err := res.NameToColumn(StrategyColumn); err != nil {
		log.Error().Str("Column", StrategyColumn).Msg("nav history is missing a required column")
		return nil, ErrMissingColumn
	}

	hasBenchmark := true
	if _, err := res.NameToColumn(BenchmarkColumn); err != nil {
		hasBenchmark = false
	}

	nRows := res.NRows()
	strategy := &navseries.Series{
		Name:  "strategy",
		Dates: make([]time.Time, 0, nRows),
		Vals:  make([]float64, 0, nRows),
	}

	var benchmark *navseries.Series
	if hasBenchmark {
		benchmark = &navseries.Series{
			Name:  "benchmark",
			Dates: make([]time.Time, 0, nRows),
			Vals:  make([]float64, 0, nRows),
		}
	}

	iterator := res.ValuesIterator(dataframe.ValuesOptions{InitialRow: 0, Step: 1, DontReadLock: true})
	for {
		row, val, _ := iterator(dataframe.SeriesName)
		if row == nil {
			break
		}

		dt, ok := val[DateColumn].(time.Time)
		if !ok {
			log.Error().Int("Row", *row).Msg("nav history row has no date")
			return nil, ErrInvalidObservation
		}

		nav, ok := val[StrategyColumn].(float64)
		if !ok {
			log.Error().Int("Row", *row).Time("Date", dt).Msg("nav history row has no strategy value")
			return nil, ErrInvalidObservation
		}

		strategy.Dates = append(strategy.Dates, dt)
		strategy.Vals = append(strategy.Vals, nav)

		if benchmark != nil {
			if benchNav, ok := val[BenchmarkColumn].(float64); ok && !math.IsNaN(benchNav) {
				benchmark.Dates = append(benchmark.Dates, dt)
				benchmark.Vals = append(benchmark.Vals, benchNav)
			}
		}
	}

	if strategy.Len() == 0 {
		return nil, ErrNoData
	}

	strategy.Sort()
	if err := strategy.Validate(); err != nil {
		log.Error().Stack().Err(err).Object("Series", strategy).Msg("nav history failed validation")
		return nil, err
	}

	if benchmark != nil && benchmark.Len() == 0 {
		log.Warn().Msg("benchmark column is present but has no values")
		benchmark = nil
	}

	if benchmark != nil {
		benchmark.Sort()
		if err := benchmark.Validate(); err != nil {
			log.Error().Stack().Err(err).Object("Series", benchmark).Msg("benchmark history failed validation")
			return nil, err
		}
	}

	return &NavFile{Strategy: strategy, Benchmark: benchmark}, nil
}
