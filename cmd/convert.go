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

	"github.com/penny-vault/nav-report/common"
	"github.com/penny-vault/nav-report/data"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:        "convert [flags] input.xlsx output.csv",
	Short:      "Convert a nav workbook to the csv format read by the report",
	Args:       cobra.ExactArgs(2),
	ArgAliases: []string{"InputFile", "OutputFile"},
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()

		if err := data.ConvertXlsx(context.Background(), args[0], args[1]); err != nil {
			log.Fatal().Err(err).Str("InputFile", args[0]).Msg("could not convert nav workbook")
		}

		log.Info().Str("OutputFile", args[1]).Msg("wrote nav csv")
	},
}
