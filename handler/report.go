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

package handler

import (
	"context"
	"errors"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/penny-vault/nav-report/observability/opentelemetry"
	"github.com/penny-vault/nav-report/perf"
	"github.com/penny-vault/nav-report/report"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
)

var (
	ErrNoProfile = errors.New("no report profile is active")
)

// reportState holds the report currently served by the API. The report is
// swapped as a whole so readers always see a payload and page that belong
// together
type reportState struct {
	sync.RWMutex

	profile *report.Profile
	payload *report.Payload
	page    []byte
}

var state reportState

// BundleResponse groups the three metric bundles of a single window
type BundleResponse struct {
	Window    string       `json:"window"`
	Strategy  *perf.Bundle `json:"strategy"`
	Benchmark *perf.Bundle `json:"benchmark,omitempty"`
	Excess    *perf.Bundle `json:"excess,omitempty"`
}

// Activate generates the first report for the profile and remembers the
// profile for later refreshes
func Activate(ctx context.Context, profile *report.Profile) error {
	state.Lock()
	state.profile = profile
	state.Unlock()

	return Refresh(ctx)
}

// Refresh regenerates the report from the nav file. When the nav data is
// unchanged the current report is kept so its id and generation time remain
// stable
func Refresh(ctx context.Context) error {
	state.RLock()
	profile := state.profile
	previous := ""
	if state.payload != nil {
		previous = state.payload.Fingerprint
	}
	state.RUnlock()

	if profile == nil {
		return ErrNoProfile
	}

	payload, page, err := report.Generate(ctx, profile)
	if err != nil {
		return err
	}

	if payload.Fingerprint == previous {
		log.Debug().Str("Fingerprint", payload.Fingerprint).Msg("nav file unchanged; keeping current report")
		return nil
	}

	state.Lock()
	state.payload = payload
	state.page = page
	state.Unlock()

	log.Info().Str("ID", payload.ID.String()).Str("Fingerprint", payload.Fingerprint).Msg("report refreshed")
	return nil
}

// GetReport serves the rendered report page
func GetReport(c *fiber.Ctx) error {
	state.RLock()
	page := state.page
	state.RUnlock()

	if page == nil {
		return fiber.ErrServiceUnavailable
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(page)
}

// GetPayload serves the full metric payload
func GetPayload(c *fiber.Ctx) error {
	state.RLock()
	payload := state.payload
	state.RUnlock()

	if payload == nil {
		return fiber.ErrServiceUnavailable
	}

	return c.JSON(payload)
}

// GetBundle serves the metric bundles of a single reporting window
func GetBundle(c *fiber.Ctx) error {
	state.RLock()
	payload := state.payload
	state.RUnlock()

	if payload == nil {
		return fiber.ErrServiceUnavailable
	}

	window := perf.Window(c.Params("window"))
	strategy, ok := payload.Bundles[perf.PayloadKey(window, perf.Strategy)]
	if !ok {
		return fiber.ErrNotFound
	}

	return c.JSON(BundleResponse{
		Window:    string(window),
		Strategy:  strategy,
		Benchmark: payload.Bundles[perf.PayloadKey(window, perf.Benchmark)],
		Excess:    payload.Bundles[perf.PayloadKey(window, perf.Excess)],
	})
}

// RefreshReport regenerates the report on demand
func RefreshReport(c *fiber.Ctx) error {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(c.Context(), "handler.RefreshReport")
	defer span.End()
	span.SetAttributes(opentelemetry.SpanAttributesFromFiber(c)...)

	if err := Refresh(ctx); err != nil {
		log.Error().Stack().Err(err).Msg("could not refresh report")
		return fiber.ErrInternalServerError
	}

	state.RLock()
	id := state.payload.ID.String()
	state.RUnlock()

	return c.JSON(fiber.Map{"status": "success", "id": id})
}
