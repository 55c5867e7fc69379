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
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/penny-vault/nav-report/data"
	"github.com/penny-vault/nav-report/navseries"
	"github.com/penny-vault/nav-report/perf"
	"github.com/rs/zerolog/log"
	"github.com/zeebo/blake3"
)

var (
	ErrGenerateHash = errors.New("could not create a new hash")
)

// Payload is the complete precomputed result set of one report generation.
// Bundles are keyed by window name, with benchmark and excess bundles under
// suffixed keys ("ytd", "ytd_Benchmark", "ytd_Excess"); the page and the
// JSON API serve it as-is and never recompute metrics
type Payload struct {
	Title        string                  `json:"title"`
	ID           uuid.UUID               `json:"id"`
	Fingerprint  string                  `json:"fingerprint"`
	GeneratedAt  time.Time               `json:"generated_at"`
	HasBenchmark bool                    `json:"has_benchmark"`
	RiskFree     map[perf.Window]float64 `json:"risk_free"`
	Bundles      map[string]*perf.Bundle `json:"bundles"`
	Chart        *ChartData              `json:"chart"`
}

// Fingerprint calculates a 16-byte blake3 hash over the observations of the
// nav file. Inputs with identical dates and values hash identically, which
// lets the serve loop skip regenerating a report whose input has not changed
func Fingerprint(nav *data.NavFile) (string, error) {
	h := blake3.New()

	writeSeries := func(series *navseries.Series) error {
		if series == nil {
			return nil
		}

		if _, err := h.Write([]byte(series.Name)); err != nil {
			log.Error().Stack().Err(err).Msg("could not write series name to blake3 hasher")
			return err
		}

		for idx := range series.Dates {
			d, err := series.Dates[idx].UTC().MarshalText()
			if err != nil {
				return err
			}

			if _, err := h.Write(d); err != nil {
				log.Error().Stack().Err(err).Msg("could not write date to blake3 hasher")
				return err
			}

			if _, err := h.Write([]byte(fmt.Sprintf("%.8f", series.Vals[idx]))); err != nil {
				log.Error().Stack().Err(err).Msg("could not write nav to blake3 hasher")
				return err
			}
		}

		return nil
	}

	if err := writeSeries(nav.Strategy); err != nil {
		return "", err
	}

	if err := writeSeries(nav.Benchmark); err != nil {
		return "", err
	}

	digest := h.Digest()
	buf := make([]byte, 16)
	n, err := digest.Read(buf)
	if err != nil {
		return "", err
	}
	if n != 16 {
		return "", ErrGenerateHash
	}

	return hex.EncodeToString(buf), nil
}
