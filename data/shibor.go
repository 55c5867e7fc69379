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
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/penny-vault/nav-report/common"
	dataframe "github.com/rocketlaunchr/dataframe-go"
	imports "github.com/rocketlaunchr/dataframe-go/imports"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/stat"
)

const (
	FixingDateColumn = "Date"
	FixingRateColumn = "Rate"
)

// Fixings stores dated interbank rate fixings. Rates are quoted as annual
// percentages, e.g. 2.5 means 2.5% per year; SHIBOR 3M is the usual source
type Fixings struct {
	Dates []time.Time
	Rates []float64
}

// RateSource supplies risk free rate fixings for a date range
type RateSource interface {
	Fixings(ctx context.Context, begin, end time.Time) (*Fixings, error)
}

// Len returns the number of fixings
func (fixings *Fixings) Len() int {
	return len(fixings.Dates)
}

// Less reports whether the fixing at i occurs before the fixing at j
func (fixings *Fixings) Less(i, j int) bool {
	return fixings.Dates[i].Before(fixings.Dates[j])
}

// Swap exchanges the fixings at i and j
func (fixings *Fixings) Swap(i, j int) {
	fixings.Dates[i], fixings.Dates[j] = fixings.Dates[j], fixings.Dates[i]
	fixings.Rates[i], fixings.Rates[j] = fixings.Rates[j], fixings.Rates[i]
}

// Between returns the fixings published in the date range [begin, end]
// (inclusive); the result shares backing arrays with the receiver
func (fixings *Fixings) Between(begin, end time.Time) *Fixings {
	if fixings.Len() == 0 || end.Before(begin) {
		return &Fixings{}
	}

	if end.Before(fixings.Dates[0]) || begin.After(fixings.Dates[fixings.Len()-1]) {
		return &Fixings{}
	}

	beginIdx := sort.Search(fixings.Len(), func(i int) bool {
		return fixings.Dates[i].After(begin) || fixings.Dates[i].Equal(begin)
	})

	endIdx := sort.Search(fixings.Len(), func(i int) bool {
		return fixings.Dates[i].After(end) || fixings.Dates[i].Equal(end)
	})

	if endIdx != fixings.Len() && fixings.Dates[endIdx].Equal(end) {
		endIdx++
	}

	return &Fixings{
		Dates: fixings.Dates[beginIdx:endIdx],
		Rates: fixings.Rates[beginIdx:endIdx],
	}
}

// Mean returns the average rate of the fixings; NaN when there are none
func (fixings *Fixings) Mean() float64 {
	if fixings.Len() == 0 {
		return math.NaN()
	}

	return stat.Mean(fixings.Rates, nil)
}

// RiskFreeRate computes the annual risk free rate over [begin, end] as the
// mean of the rate fixings published inside the range, converted from
// percent to a fraction. When src is nil or no fixing falls inside the
// range the configured riskfree.rate (annual percent) is used instead
func RiskFreeRate(ctx context.Context, src RateSource, begin, end time.Time) (float64, error) {
	if src == nil {
		return viper.GetFloat64("riskfree.rate") / 100, nil
	}

	fixings, err := src.Fixings(ctx, begin, end)
	if err != nil {
		return 0, err
	}

	if fixings.Len() == 0 {
		log.Debug().Time("Begin", begin).Time("End", end).Msg("no fixings in range; using configured risk free rate")
		return viper.GetFloat64("riskfree.rate") / 100, nil
	}

	return fixings.Mean() / 100, nil
}

// FileRateSource reads rate fixings from a CSV file with Date and Rate
// columns. The file is parsed once and held in memory
type FileRateSource struct {
	Path string

	once    sync.Once
	fixings *Fixings
	err     error
}

// NewFileRateSource creates a rate source backed by the CSV file at path
func NewFileRateSource(path string) *FileRateSource {
	return &FileRateSource{Path: path}
}

// Fixings returns the fixings published in the date range [begin, end]
func (src *FileRateSource) Fixings(ctx context.Context, begin, end time.Time) (*Fixings, error) {
	src.once.Do(func() {
		fh, err := os.Open(src.Path)
		if err != nil {
			log.Error().Stack().Err(err).Str("FilePath", src.Path).Msg("could not open rate fixings file")
			src.err = err
			return
		}

		defer fh.Close()
		src.fixings, src.err = loadFixings(ctx, fh)
	})

	if src.err != nil {
		return nil, src.err
	}

	return src.fixings.Between(begin, end), nil
}

// HTTPRateSource downloads rate fixings from a URL serving the same CSV
// format FileRateSource reads. Responses are stored in the shared cache so
// repeated report builds do not hammer the rate service
type HTTPRateSource struct {
	URL string
}

// NewHTTPRateSource creates a rate source backed by the fixings service at url
func NewHTTPRateSource(url string) *HTTPRateSource {
	return &HTTPRateSource{URL: url}
}

// Fixings returns the fixings published in the date range [begin, end]
func (src *HTTPRateSource) Fixings(ctx context.Context, begin, end time.Time) (*Fixings, error) {
	subLog := log.With().Str("Url", src.URL).Logger()

	body, err := common.CacheGet(src.URL)
	if err != nil || len(body) == 0 {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
		if err != nil {
			subLog.Error().Stack().Err(err).Msg("could not build fixings request")
			return nil, err
		}

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			subLog.Error().Stack().Err(err).Msg("fixings request failed")
			return nil, err
		}

		defer resp.Body.Close()
		if resp.StatusCode >= 400 {
			subLog.Warn().Int("HTTPResponseStatusCode", resp.StatusCode).Msg("fixings request failed")
			return nil, fmt.Errorf("HTTP request returned invalid status code: %d", resp.StatusCode)
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			subLog.Error().Stack().Err(err).Msg("could not read fixings response")
			return nil, err
		}

		if err := common.CacheSet(src.URL, body); err != nil {
			subLog.Warn().Err(err).Msg("could not cache fixings response")
		}
	}

	fixings, err := loadFixings(ctx, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	return fixings.Between(begin, end), nil
}

// loadFixings parses rate fixings in CSV format with Date and Rate columns
func loadFixings(ctx context.Context, r io.Reader) (*Fixings, error) {
	tz := common.GetTimezone()

	res, err := imports.LoadFromCSV(ctx, r, imports.CSVLoadOptions{
		TrimLeadingSpace: true,
		DictateDataType: map[string]interface{}{
			FixingDateColumn: imports.Converter{
				ConcreteType: time.Time{},
				ConverterFunc: func(in interface{}) (interface{}, error) {
					return time.ParseInLocation("2006-01-02", in.(string), tz)
				},
			},
			FixingRateColumn: imports.Converter{
				ConcreteType: float64(0),
				ConverterFunc: func(in interface{}) (interface{}, error) {
					v, err := strconv.ParseFloat(in.(string), 64)
					if err != nil {
						return math.NaN(), nil
					}
					return v, nil
				},
			},
		},
	})
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not parse rate fixings csv")
		return nil, err
	}

	if _, err := res.NameToColumn(FixingDateColumn); err != nil {
		log.Error().Str("Column", FixingDateColumn).Msg("rate fixings are missing a required column")
		return nil, ErrMissingColumn
	}

	if _, err := res.NameToColumn(FixingRateColumn); err != nil {
		log.Error().Str("Column", FixingRateColumn).Msg("rate fixings are missing a required column")
		return nil, ErrMissingColumn
	}

	fixings := &Fixings{
		Dates: make([]time.Time, 0, res.NRows()),
		Rates: make([]float64, 0, res.NRows()),
	}

	iterator := res.ValuesIterator(dataframe.ValuesOptions{InitialRow: 0, Step: 1, DontReadLock: true})
	for {
		row, val, _ := iterator(dataframe.SeriesName)
		if row == nil {
			break
		}

		dt, ok := val[FixingDateColumn].(time.Time)
		if !ok {
			return nil, ErrInvalidObservation
		}

		rate, ok := val[FixingRateColumn].(float64)
		if !ok || math.IsNaN(rate) {
			return nil, ErrInvalidObservation
		}

		fixings.Dates = append(fixings.Dates, dt)
		fixings.Rates = append(fixings.Rates, rate)
	}

	sort.Stable(fixings)
	return fixings, nil
}
