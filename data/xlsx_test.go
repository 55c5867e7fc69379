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

package data_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/nav-report/common"
	"github.com/penny-vault/nav-report/data"
	"github.com/tealeg/xlsx/v3"
)

// writeNavWorkbook builds a workbook in the shape fund accounting software
// exports: a header row followed by one row per valuation date
func writeNavWorkbook(path string, headers []string, rows [][]interface{}) {
	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet("净值数据")
	Expect(err).To(BeNil())

	headerRow := sheet.AddRow()
	for _, header := range headers {
		headerRow.AddCell().SetString(header)
	}

	for _, cells := range rows {
		row := sheet.AddRow()
		for _, v := range cells {
			switch val := v.(type) {
			case string:
				row.AddCell().SetString(val)
			case float64:
				row.AddCell().SetFloat(val)
			case time.Time:
				row.AddCell().SetDate(val)
			}
		}
	}

	Expect(wb.Save(path)).To(Succeed())
}

var _ = Describe("ConvertXlsx", func() {
	var (
		ctx     context.Context
		tz      *time.Location
		dir     string
		inPath  string
		outPath string
	)

	BeforeEach(func() {
		ctx = context.Background()
		tz = common.GetTimezone()

		var err error
		dir, err = os.MkdirTemp("", "navrep")
		Expect(err).To(BeNil())

		inPath = filepath.Join(dir, "nav.xlsx")
		outPath = filepath.Join(dir, "nav.csv")
	})

	AfterEach(func() {
		os.RemoveAll(dir)
	})

	It("converts a workbook with text dates", func() {
		writeNavWorkbook(inPath, []string{"序号", "日期", "单位净值"}, [][]interface{}{
			{1.0, "2024-01-02", 1.0},
			{2.0, "2024-01-03", 1.015},
			{3.0, "2024-01-04", 1.008},
		})

		Expect(data.ConvertXlsx(ctx, inPath, outPath)).To(Succeed())

		nav, err := data.LoadNavCSV(ctx, outPath)
		Expect(err).To(BeNil())
		Expect(nav.HasBenchmark()).To(BeFalse())
		Expect(nav.Strategy.Len()).To(Equal(3))
		Expect(nav.Strategy.Vals).To(Equal([]float64{1.0, 1.015, 1.008}))
		Expect(nav.Strategy.Start()).To(BeTemporally("==", time.Date(2024, time.January, 2, 0, 0, 0, 0, tz)))
		Expect(nav.Strategy.End()).To(BeTemporally("==", time.Date(2024, time.January, 4, 0, 0, 0, 0, tz)))
	})

	It("converts a workbook with slash formatted dates", func() {
		writeNavWorkbook(inPath, []string{"日期", "单位净值"}, [][]interface{}{
			{"2024/1/2", 1.0},
			{"2024/1/15", 1.02},
		})

		Expect(data.ConvertXlsx(ctx, inPath, outPath)).To(Succeed())

		nav, err := data.LoadNavCSV(ctx, outPath)
		Expect(err).To(BeNil())
		Expect(nav.Strategy.Len()).To(Equal(2))
		Expect(nav.Strategy.End()).To(BeTemporally("==", time.Date(2024, time.January, 15, 0, 0, 0, 0, tz)))
	})

	It("converts a workbook with native date cells", func() {
		writeNavWorkbook(inPath, []string{"日期", "单位净值"}, [][]interface{}{
			{time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC), 1.0},
			{time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC), 1.015},
		})

		Expect(data.ConvertXlsx(ctx, inPath, outPath)).To(Succeed())

		nav, err := data.LoadNavCSV(ctx, outPath)
		Expect(err).To(BeNil())
		Expect(nav.Strategy.Len()).To(Equal(2))
		Expect(nav.Strategy.Start()).To(BeTemporally("==", time.Date(2024, time.January, 2, 0, 0, 0, 0, tz)))
	})

	It("skips padding rows", func() {
		writeNavWorkbook(inPath, []string{"日期", "单位净值"}, [][]interface{}{
			{"2024-01-02", 1.0},
			{"", 0.0},
			{"2024-01-03", 1.015},
		})

		Expect(data.ConvertXlsx(ctx, inPath, outPath)).To(Succeed())

		nav, err := data.LoadNavCSV(ctx, outPath)
		Expect(err).To(BeNil())
		Expect(nav.Strategy.Len()).To(Equal(2))
	})

	It("fails when the nav column is missing", func() {
		writeNavWorkbook(inPath, []string{"日期", "累计净值"}, [][]interface{}{
			{"2024-01-02", 1.0},
		})

		err := data.ConvertXlsx(ctx, inPath, outPath)
		Expect(err).To(MatchError(data.ErrMissingColumn))
	})

	It("fails when the workbook has only a header", func() {
		writeNavWorkbook(inPath, []string{"日期", "单位净值"}, nil)

		err := data.ConvertXlsx(ctx, inPath, outPath)
		Expect(err).To(MatchError(data.ErrNoData))
	})

	It("fails when the workbook does not exist", func() {
		err := data.ConvertXlsx(ctx, filepath.Join(dir, "missing.xlsx"), outPath)
		Expect(err).To(HaveOccurred())
	})

	It("fails when a date cell cannot be parsed", func() {
		writeNavWorkbook(inPath, []string{"日期", "单位净值"}, [][]interface{}{
			{"first trading day", 1.0},
		})

		err := data.ConvertXlsx(ctx, inPath, outPath)
		Expect(err).To(MatchError(data.ErrInvalidObservation))
	})
})
