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
	_ "embed"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/penny-vault/nav-report/data"
	"github.com/rs/zerolog/log"
)

//go:embed navrep.toml
var defaultProfile []byte

// Profile describes a report: where its inputs live, what the page is
// titled, and where the rendered page is written
type Profile struct {
	Title          string `toml:"title"`
	NavFile        string `toml:"nav_file"`
	BenchmarkLabel string `toml:"benchmark_label"`
	RatesFile      string `toml:"rates_file"`
	RatesURL       string `toml:"rates_url"`
	OutputFile     string `toml:"output_file"`
}

// DefaultProfile returns the embedded default profile
func DefaultProfile() *Profile {
	profile := &Profile{}
	if err := toml.Unmarshal(defaultProfile, profile); err != nil {
		// the embedded profile is part of the build; it cannot fail to parse
		log.Panic().Err(err).Msg("embedded default profile does not parse")
	}

	return profile
}

// LoadProfile reads a profile file and overlays it on the defaults; fields
// absent from the file keep their default values
func LoadProfile(path string) (*Profile, error) {
	subLog := log.With().Str("FilePath", path).Logger()

	doc, err := os.ReadFile(path)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not read profile")
		return nil, err
	}

	profile := DefaultProfile()
	if err := toml.Unmarshal(doc, profile); err != nil {
		subLog.Error().Stack().Err(err).Msg("could not parse profile")
		return nil, err
	}

	return profile, nil
}

// RateSource builds the risk free rate source the profile calls for; nil
// when the profile configures none, in which case the configured scalar
// rate is used for every window
func (profile *Profile) RateSource() data.RateSource {
	switch {
	case profile.RatesURL != "":
		return data.NewHTTPRateSource(profile.RatesURL)
	case profile.RatesFile != "":
		return data.NewFileRateSource(profile.RatesFile)
	}

	return nil
}
