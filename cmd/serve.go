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

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"runtime/trace"

	"github.com/go-co-op/gocron"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/penny-vault/nav-report/common"
	"github.com/penny-vault/nav-report/handler"
	"github.com/penny-vault/nav-report/middleware"
	"github.com/penny-vault/nav-report/observability/opentelemetry"
	"github.com/penny-vault/nav-report/router"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	viper.BindEnv("server.port", "PORT")
	serveCmd.Flags().IntP("port", "p", 3000, "Port to run application server on")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))

	viper.BindEnv("server.refresh_minutes", "PV_REFRESH_MINUTES")
	serveCmd.Flags().Int("refresh-minutes", 60, "Minutes between checks of the nav file for changes")
	viper.BindPFlag("server.refresh_minutes", serveCmd.Flags().Lookup("refresh-minutes"))

	serveCmd.Flags().String("allow-origins", "*", "Origins allowed by CORS")
	viper.BindPFlag("server.allow_origins", serveCmd.Flags().Lookup("allow-origins"))

	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the nav-report server",
	Long:  `Run HTTP server that publishes the nav performance report`,
	Run: func(cmd *cobra.Command, args []string) {
		if Profile {
			f, err := os.Create("profile.out")
			if err != nil {
				log.Fatal().Err(err).Msg("could not create profile output file")
			}
			pprof.StartCPUProfile(f)
			defer pprof.StopCPUProfile()
		}

		if Trace {
			f, err := os.Create("trace.out")
			if err != nil {
				log.Fatal().Err(err).Msg("failed to create trace output file")
			}
			defer func() {
				if err := f.Close(); err != nil {
					log.Fatal().Err(err).Msg("failed to close trace file")
				}
			}()

			if err := trace.Start(f); err != nil {
				log.Fatal().Err(err).Msg("failed to start trace")
			}
			defer trace.Stop()
		}

		common.SetupLogging()
		common.SetupCache()
		log.Info().Msg("initialized logging")

		shutdownOtel, err := opentelemetry.Setup()
		if err != nil {
			log.Fatal().Err(err).Msg("could not setup opentelemetry")
		}
		defer func() {
			if err := shutdownOtel(context.Background()); err != nil {
				log.Error().Err(err).Msg("could not shutdown opentelemetry")
			}
		}()

		// generate the initial report
		if err := handler.Activate(context.Background(), activeProfile()); err != nil {
			log.Fatal().Err(err).Msg("could not generate initial report")
		}

		// Create new Fiber instance
		app := fiber.New()

		// shutdown cleanly on interrupt
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		go func() {
			sig := <-c // block until signal is read
			fmt.Printf("Received signal: '%s'; shutting down...\n", sig.String())
			if err := app.Shutdown(); err != nil {
				log.Fatal().Err(err).Msg("could not shutdown server")
			}
		}()

		// Configure CORS
		corsConfig := cors.Config{
			AllowOrigins: viper.GetString("server.allow_origins"),
			AllowHeaders: "*",
			AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		}
		app.Use(cors.New(corsConfig))

		// Setup logging middleware
		app.Use(middleware.NewLogger())

		// Setup routes
		router.SetupRoutes(app)

		// Periodically regenerate the report so nav file changes show up
		// without a restart
		scheduler := gocron.NewScheduler(common.GetTimezone())
		scheduler.Every(viper.GetInt("server.refresh_minutes")).Minutes().Do(func() {
			if err := handler.Refresh(context.Background()); err != nil {
				log.Error().Stack().Err(err).Msg("scheduled report refresh failed")
			}
		})
		scheduler.StartAsync()

		// Start server
		if err := app.Listen(":" + viper.GetString("server.port")); err != nil {
			log.Fatal().Err(err).Msg("could not start server")
		}
	},
}
