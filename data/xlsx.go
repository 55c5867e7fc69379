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
	"os"
	"strings"
	"time"

	"github.com/penny-vault/nav-report/common"
	dataframe "github.com/rocketlaunchr/dataframe-go"
	exports "github.com/rocketlaunchr/dataframe-go/exports"
	"github.com/rs/zerolog/log"
	"github.com/tealeg/xlsx/v3"
)

const (
	xlsxDateHeader = "日期"
	xlsxNavHeader  = "单位净值"
)

// dateLayouts are tried in order when a workbook stores dates as text
var dateLayouts = []string{"2006-01-02", "2006/1/2"}

// ConvertXlsx converts a nav workbook, as exported by fund accounting
// software, into the CSV format LoadNavCSV reads. The first sheet must carry
// a 日期 (date) column and a 单位净值 (unit nav) column; they map to the
// Date and Strategy_Value columns of the output
func ConvertXlsx(ctx context.Context, inPath, outPath string) error {
	subLog := log.With().Str("InPath", inPath).Str("OutPath", outPath).Logger()
	tz := common.GetTimezone()

	wb, err := xlsx.OpenFile(inPath)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not open nav workbook")
		return err
	}

	if len(wb.Sheets) == 0 {
		subLog.Error().Msg("nav workbook has no sheets")
		return ErrMissingSheet
	}

	sheet := wb.Sheets[0]

	dateCol := -1
	navCol := -1
	for col := 0; col < sheet.MaxCol; col++ {
		cell, err := sheet.Cell(0, col)
		if err != nil {
			continue
		}

		switch strings.TrimSpace(cell.String()) {
		case xlsxDateHeader:
			dateCol = col
		case xlsxNavHeader:
			navCol = col
		}
	}

	if dateCol == -1 || navCol == -1 {
		subLog.Error().Str("DateHeader", xlsxDateHeader).Str("NavHeader", xlsxNavHeader).Msg("nav workbook is missing a required column")
		return ErrMissingColumn
	}

	dates := make([]interface{}, 0, sheet.MaxRow)
	navs := make([]interface{}, 0, sheet.MaxRow)

	for rowIdx := 1; rowIdx < sheet.MaxRow; rowIdx++ {
		dateCell, err := sheet.Cell(rowIdx, dateCol)
		if err != nil {
			break
		}

		raw := strings.TrimSpace(dateCell.String())
		if raw == "" {
			// padding row
			continue
		}

		dt, err := dateCell.GetTime(false)
		if err != nil {
			dt, err = parseCellDate(raw, tz)
			if err != nil {
				subLog.Error().Int("Row", rowIdx).Str("Value", raw).Msg("could not parse date cell")
				return ErrInvalidObservation
			}
		}

		navCell, err := sheet.Cell(rowIdx, navCol)
		if err != nil {
			return ErrInvalidObservation
		}

		nav, err := navCell.Float()
		if err != nil {
			subLog.Error().Int("Row", rowIdx).Str("Value", navCell.String()).Msg("could not parse nav cell")
			return ErrInvalidObservation
		}

		dates = append(dates, dt.Format("2006-01-02"))
		navs = append(navs, nav)
	}

	if len(dates) == 0 {
		return ErrNoData
	}

	df := dataframe.NewDataFrame(
		dataframe.NewSeriesString(DateColumn, nil, dates...),
		dataframe.NewSeriesFloat64(StrategyColumn, nil, navs...),
	)

	out, err := os.Create(outPath)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not create output file")
		return err
	}

	defer out.Close()
	if err := exports.ExportToCSV(ctx, out, df); err != nil {
		subLog.Error().Stack().Err(err).Msg("could not write nav csv")
		return err
	}

	subLog.Info().Int("NumRows", len(dates)).Msg("converted nav workbook")
	return nil
}

func parseCellDate(raw string, tz *time.Location) (time.Time, error) {
	var dt time.Time
	var err error

	for _, layout := range dateLayouts {
		if dt, err = time.ParseInLocation(layout, raw, tz); err == nil {
			return dt, nil
		}
	}

	return dt, err
}
