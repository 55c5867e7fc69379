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

package report_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/nav-report/data"
	"github.com/penny-vault/nav-report/report"
)

var _ = Describe("Profile", func() {
	Describe("DefaultProfile", func() {
		It("carries the built-in defaults", func() {
			profile := report.DefaultProfile()
			Expect(profile.Title).To(Equal("实盘业绩报告"))
			Expect(profile.NavFile).To(Equal("performance_data.csv"))
			Expect(profile.BenchmarkLabel).To(Equal("基准收益 (中证500)"))
			Expect(profile.OutputFile).To(Equal("index.html"))
			Expect(profile.RatesFile).To(BeEmpty())
			Expect(profile.RatesURL).To(BeEmpty())
		})

		It("has no rate source by default", func() {
			Expect(report.DefaultProfile().RateSource()).To(BeNil())
		})
	})

	Describe("LoadProfile", func() {
		var dir string

		BeforeEach(func() {
			var err error
			dir, err = os.MkdirTemp("", "navrep")
			Expect(err).To(BeNil())
		})

		AfterEach(func() {
			os.RemoveAll(dir)
		})

		It("overlays file values onto the defaults", func() {
			path := filepath.Join(dir, "navrep.toml")
			doc := "title = \"我的组合\"\nrates_file = \"shibor3m.csv\"\n"
			Expect(os.WriteFile(path, []byte(doc), 0600)).To(Succeed())

			profile, err := report.LoadProfile(path)
			Expect(err).To(BeNil())
			Expect(profile.Title).To(Equal("我的组合"))
			Expect(profile.RatesFile).To(Equal("shibor3m.csv"))
			Expect(profile.NavFile).To(Equal("performance_data.csv"))
			Expect(profile.OutputFile).To(Equal("index.html"))
		})

		It("returns an error when the file is missing", func() {
			_, err := report.LoadProfile(filepath.Join(dir, "missing.toml"))
			Expect(err).To(HaveOccurred())
		})

		It("returns an error for malformed toml", func() {
			path := filepath.Join(dir, "broken.toml")
			Expect(os.WriteFile(path, []byte("title = ["), 0600)).To(Succeed())

			_, err := report.LoadProfile(path)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("RateSource", func() {
		It("prefers the download url", func() {
			profile := report.DefaultProfile()
			profile.RatesURL = "https://example.com/shibor3m.csv"
			profile.RatesFile = "shibor3m.csv"

			_, ok := profile.RateSource().(*data.HTTPRateSource)
			Expect(ok).To(BeTrue())
		})

		It("falls back to the fixings file", func() {
			profile := report.DefaultProfile()
			profile.RatesFile = "shibor3m.csv"

			_, ok := profile.RateSource().(*data.FileRateSource)
			Expect(ok).To(BeTrue())
		})
	})
})
