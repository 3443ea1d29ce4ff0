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
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/secvault/secdata/edgar"
	"github.com/secvault/secdata/extract"
	"github.com/secvault/secdata/healthcheck"
	"github.com/secvault/secdata/library"
	"github.com/secvault/secdata/taxonomy"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// defaultTickers seeds the interactive picker when no tickers are given on
// the command line.
var defaultTickers = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "BRK-B",
	"JPM", "V", "JNJ", "WMT", "XOM", "PG", "KO",
}

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch [ticker...]",
	Short: "Fetch company facts from EDGAR and save normalized financial statements",
	Long: `The fetch sub-command downloads the XBRL company facts for each requested
ticker, normalizes them into one record per reporting period, and upserts
the records into the library. Running fetch again replaces stored periods
with the latest filed values.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		tickers := args
		if len(tickers) == 0 {
			if err := huh.NewForm(huh.NewGroup(
				huh.NewMultiSelect[string]().
					Title("Which companies should be fetched?").
					Options(huh.NewOptions(defaultTickers...)...).
					Value(&tickers),
			)).Run(); err != nil {
				log.Fatal().Err(err).Msg("error selecting tickers")
			}
		}

		if len(tickers) == 0 {
			log.Fatal().Msg("no tickers to fetch")
		}

		runID := uuid.New().String()
		logger := log.With().Str("RunID", runID).Logger()
		ctx = logger.WithContext(ctx)

		myLibrary, err := library.NewFromDB(ctx, viper.GetString("db.url"))
		if err != nil {
			logger.Fatal().Err(err).Msg("could not connect to library")
		}
		defer myLibrary.Close()

		client, err := edgar.NewClient(viper.GetString("edgar.useragent"))
		if err != nil {
			logger.Fatal().Err(err).Msg("could not create edgar client")
		}

		if err := healthcheck.Start(); err != nil {
			logger.Warn().Err(err).Msg("could not ping healthcheck start")
		}

		companies, err := client.FindCompanies(ctx, tickers)
		if err != nil {
			if hcErr := healthcheck.Failure(); hcErr != nil {
				logger.Warn().Err(hcErr).Msg("could not ping healthcheck failure")
			}

			logger.Fatal().Err(err).Msg("could not resolve tickers against the SEC company directory")
		}

		extractor := extract.NewExtractor(taxonomy.NewResolver())

		startTime := time.Now()
		totalSaved := 0
		totalFailed := 0

		for _, company := range companies {
			companyLogger := logger.With().Str("Ticker", company.Ticker).Str("CIK", company.CIK).Logger()
			companyCtx := companyLogger.WithContext(ctx)

			cik, err := strconv.ParseInt(company.CIK, 10, 64)
			if err != nil {
				companyLogger.Error().Err(err).Msg("invalid cik")
				continue
			}

			facts, err := client.CompanyFacts(companyCtx, cik)
			if err != nil {
				companyLogger.Error().Err(err).Msg("could not fetch company facts")
				continue
			}

			records := extractor.Extract(facts, company.CIK)
			if len(records) == 0 {
				companyLogger.Warn().Msg("no financial statements extracted")
				continue
			}

			if err := myLibrary.SaveCompany(companyCtx, company); err != nil {
				companyLogger.Error().Err(err).Msg("could not save company")
				continue
			}

			saved, failed, err := myLibrary.SaveFinancials(companyCtx, records)
			if err != nil {
				companyLogger.Error().Err(err).Msg("could not save financial statements")
				continue
			}

			totalSaved += saved
			totalFailed += failed

			companyLogger.Info().Int("Saved", saved).Int("Failed", failed).
				Msg("saved financial statements")
		}

		if err := healthcheck.Success(); err != nil {
			logger.Warn().Err(err).Msg("could not ping healthcheck success")
		}

		logger.Info().Int("NumCompanies", len(companies)).Int("TotalSaved", totalSaved).
			Int("TotalFailed", totalFailed).
			Str("RunTime", time.Since(startTime).Round(time.Second).String()).
			Msg("fetch complete")
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
