// Copyright 2025
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
	"os"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"github.com/secvault/secdata/library"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	exportTicker string
	exportOutput string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored financial statements as an analytical CSV",
	Long: `The export sub-command writes every stored financial statement as a CSV
row with company identity, dollar amounts rescaled to millions, raw
per-share figures, and derived margin, liquidity, and leverage ratios.
Ratios with missing or non-positive denominators are left blank.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		myLibrary, err := library.NewFromDB(ctx, viper.GetString("db.url"))
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to library")
		}
		defer myLibrary.Close()

		rows, err := myLibrary.ExportRows(ctx, exportTicker)
		if err != nil {
			log.Fatal().Err(err).Msg("could not read financial statements")
		}

		out := os.Stdout
		if exportOutput != "" {
			out, err = os.Create(exportOutput)
			if err != nil {
				log.Fatal().Err(err).Str("FileName", exportOutput).Msg("could not create output file")
			}
			defer out.Close()
		}

		if err := gocsv.Marshal(rows, out); err != nil {
			log.Fatal().Err(err).Msg("could not write csv")
		}

		if exportOutput != "" {
			log.Info().Int("NumRows", len(rows)).Str("FileName", exportOutput).Msg("export complete")
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportTicker, "ticker", "t", "", "only export rows for a single ticker")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write csv to file instead of stdout")
}
