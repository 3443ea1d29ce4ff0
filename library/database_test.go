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
package library_test

import (
	"context"
	"os"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/secvault/secdata/data"
	"github.com/secvault/secdata/db"
	"github.com/secvault/secdata/library"
)

// These specs need a live PostgreSQL instance; set SECDATA_TEST_DB_URL to
// run them.
var _ = Describe("Library", func() {
	var (
		ctx       context.Context
		myLibrary *library.Library
	)

	BeforeEach(func() {
		dbURL := os.Getenv("SECDATA_TEST_DB_URL")
		if dbURL == "" {
			Skip("SECDATA_TEST_DB_URL not set")
		}

		ctx = context.Background()

		err := db.Migrate(strings.Replace(dbURL, "postgres://", "pgx5://", 1))
		Expect(err).ToNot(HaveOccurred())

		myLibrary, err = library.NewFromDB(ctx, dbURL)
		Expect(err).ToNot(HaveOccurred())

		_, err = myLibrary.Pool.Exec(ctx, "TRUNCATE companies CASCADE")
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		if myLibrary != nil {
			myLibrary.Close()
			myLibrary = nil
		}
	})

	newCompany := func() *data.Company {
		return &data.Company{
			CIK:         "0000320193",
			Ticker:      "AAPL",
			CompanyName: "Apple Inc.",
			SICCode:     "3571",
			Industry:    "Electronic Computers",
		}
	}

	newRecord := func(revenue float64) *data.FinancialRecord {
		filed := time.Date(2023, 11, 3, 0, 0, 0, 0, time.UTC)

		return &data.FinancialRecord{
			CIK:             "0000320193",
			PeriodEndDate:   time.Date(2023, 9, 30, 0, 0, 0, 0, time.UTC),
			FormType:        "10-K",
			FiscalYear:      2023,
			FilingDate:      &filed,
			AccessionNumber: "0000320193-23-000106",
			Revenue:         &revenue,
		}
	}

	Describe("SaveCompany", func() {
		It("inserts and updates by cik", func() {
			Expect(myLibrary.SaveCompany(ctx, newCompany())).To(Succeed())

			company := newCompany()
			company.CompanyName = "Apple Computer, Inc."
			Expect(myLibrary.SaveCompany(ctx, company)).To(Succeed())

			count, err := myLibrary.NumCompanies(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(count).To(Equal(1))
		})

		It("rejects a ticker bound to a different cik", func() {
			Expect(myLibrary.SaveCompany(ctx, newCompany())).To(Succeed())

			conflicting := newCompany()
			conflicting.CIK = "0000789019"
			Expect(myLibrary.SaveCompany(ctx, conflicting)).To(MatchError(data.ErrTickerConflict))
		})
	})

	Describe("SaveFinancials", func() {
		BeforeEach(func() {
			Expect(myLibrary.SaveCompany(ctx, newCompany())).To(Succeed())
		})

		It("replaces the period row on repeated ingestion", func() {
			saved, failed, err := myLibrary.SaveFinancials(ctx, []*data.FinancialRecord{newRecord(100)})
			Expect(err).ToNot(HaveOccurred())
			Expect(saved).To(Equal(1))
			Expect(failed).To(BeZero())

			// second ingestion of the same key wins
			saved, failed, err = myLibrary.SaveFinancials(ctx, []*data.FinancialRecord{newRecord(200)})
			Expect(err).ToNot(HaveOccurred())
			Expect(saved).To(Equal(1))
			Expect(failed).To(BeZero())

			count, err := myLibrary.NumStatements(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(count).To(Equal(1))

			var revenue float64
			err = myLibrary.Pool.QueryRow(ctx,
				"SELECT revenue FROM financial_statements WHERE cik = $1", "0000320193").Scan(&revenue)
			Expect(err).ToNot(HaveOccurred())
			Expect(revenue).To(Equal(200.0))
		})

		It("counts failures without aborting the batch", func() {
			orphan := newRecord(100)
			orphan.CIK = "0000000042"

			saved, failed, err := myLibrary.SaveFinancials(ctx,
				[]*data.FinancialRecord{orphan, newRecord(100)})
			Expect(err).ToNot(HaveOccurred())
			Expect(saved).To(Equal(1))
			Expect(failed).To(Equal(1))
		})
	})

	Describe("Stats", func() {
		It("reports zero values on an empty library", func() {
			stats, err := myLibrary.Stats(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(stats.NumCompanies).To(BeZero())
			Expect(stats.NumStatements).To(BeZero())
			Expect(stats.LastFiling.Equal(time.Time{})).To(BeTrue())
		})

		It("reports the filing date range", func() {
			Expect(myLibrary.SaveCompany(ctx, newCompany())).To(Succeed())

			_, _, err := myLibrary.SaveFinancials(ctx, []*data.FinancialRecord{newRecord(100)})
			Expect(err).ToNot(HaveOccurred())

			stats, err := myLibrary.Stats(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(stats.NumCompanies).To(Equal(1))
			Expect(stats.NumStatements).To(Equal(1))
			Expect(stats.FirstFiling.Format("2006-01-02")).To(Equal("2023-11-03"))
			Expect(stats.LastFiling.Format("2006-01-02")).To(Equal("2023-11-03"))
		})
	})

	Describe("ExportRows", func() {
		BeforeEach(func() {
			Expect(myLibrary.SaveCompany(ctx, newCompany())).To(Succeed())

			record := newRecord(100_000_000)
			record.NetIncome = f(25_000_000)
			record.CurrentAssets = f(30_000_000)
			record.CurrentLiabilities = f(20_000_000)

			_, _, err := myLibrary.SaveFinancials(ctx, []*data.FinancialRecord{record})
			Expect(err).ToNot(HaveOccurred())
		})

		It("joins company identity onto statement rows", func() {
			rows, err := myLibrary.ExportRows(ctx, "")
			Expect(err).ToNot(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].Ticker).To(Equal("AAPL"))
			Expect(rows[0].Industry).To(Equal("Electronic Computers"))
			Expect(rows[0].PeriodEndDate).To(Equal("2023-09-30"))
		})

		It("rescales currency columns and derives ratios", func() {
			rows, err := myLibrary.ExportRows(ctx, "")
			Expect(err).ToNot(HaveOccurred())
			Expect(rows[0].RevenueMillions).To(HaveValue(Equal(100.0)))
			Expect(rows[0].NetMarginPercent).To(HaveValue(Equal(25.0)))
			Expect(rows[0].CurrentRatio).To(HaveValue(Equal(1.5)))
			Expect(rows[0].OperatingMarginPercent).To(BeNil())
			Expect(rows[0].DebtToAssetsPercent).To(BeNil())
		})

		It("filters by ticker", func() {
			rows, err := myLibrary.ExportRows(ctx, "MSFT")
			Expect(err).ToNot(HaveOccurred())
			Expect(rows).To(BeEmpty())
		})
	})
})
