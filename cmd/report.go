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

	"github.com/guptarohit/asciigraph"
	"github.com/penny-vault/nav-report/common"
	"github.com/penny-vault/nav-report/report"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	reportCmd.Flags().StringP("output", "o", "", "Write report page to file; overrides the profile output_file")
	viper.BindPFlag("report.output", reportCmd.Flags().Lookup("output"))

	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report [flags]",
	Short: "Generate the performance report page",
	Long:  `Compute the performance metrics of the nav file and write the report page to disk`,
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
		common.SetupCache()

		profile := activeProfile()
		if output := viper.GetString("report.output"); output != "" {
			profile.OutputFile = output
		}

		payload, page, err := report.Generate(context.Background(), profile)
		if err != nil {
			log.Fatal().Err(err).Str("NavFile", profile.NavFile).Msg("could not generate report")
		}

		if err := os.WriteFile(profile.OutputFile, page, 0644); err != nil {
			log.Fatal().Err(err).Str("OutputFile", profile.OutputFile).Msg("could not write report page")
		}

		printSummary(payload)
		fmt.Println(asciigraph.Plot(payload.Chart.Strategy,
			asciigraph.Height(10),
			asciigraph.Caption("cumulative return (%)")))

		log.Info().Str("OutputFile", profile.OutputFile).Str("Fingerprint", payload.Fingerprint).Msg("wrote report page")
	},
}
