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
package library

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/xeonx/timeago"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type companySummary struct {
	Ticker        string     `db:"ticker"`
	CompanyName   string     `db:"company_name"`
	Industry      *string    `db:"industry"`
	NumStatements int        `db:"num_statements"`
	LastFiling    *time.Time `db:"last_filing"`
}

// Summary returns a description of the library in markdown
func (myLibrary *Library) Summary(ctx context.Context) (string, error) {
	p := message.NewPrinter(language.English)
	builder := strings.Builder{}

	if _, err := builder.WriteString("# Financial Statement Library\n\n"); err != nil {
		return "", err
	}

	if _, err := builder.WriteString("## Details\n\n"); err != nil {
		return "", err
	}

	stats, err := myLibrary.Stats(ctx)
	if err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * Companies: %d\n", stats.NumCompanies)); err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * Financial Statements: %d\n\n", stats.NumStatements)); err != nil {
		return "", err
	}

	if stats.LastFiling.Equal(time.Time{}) {
		if _, err := builder.WriteString("Latest Filing: Never\n\n"); err != nil {
			return "", err
		}
	} else {
		age := timeago.English.Format(stats.LastFiling)
		if _, err := builder.WriteString(fmt.Sprintf("Latest Filing: %s (%s)\n\n", age,
			stats.LastFiling.Format("01/02/2006"))); err != nil {
			return "", err
		}

		if _, err := builder.WriteString(fmt.Sprintf("Filing Range: %s - %s\n\n",
			stats.FirstFiling.Format("01/02/2006"), stats.LastFiling.Format("01/02/2006"))); err != nil {
			return "", err
		}
	}

	// Per-company listing
	if _, err := builder.WriteString("## Companies\n\n"); err != nil {
		return "", err
	}

	var companies []*companySummary
	err = pgxscan.Select(ctx, myLibrary.Pool, &companies, `SELECT c.ticker, c.company_name,
c.industry, count(fs.id) AS num_statements, max(fs.filing_date) AS last_filing
FROM companies c
LEFT JOIN financial_statements fs ON fs.cik = c.cik
GROUP BY c.ticker, c.company_name, c.industry
ORDER BY c.ticker`)
	if err != nil {
		return "", err
	}

	for _, company := range companies {
		industry := "Unclassified"
		if company.Industry != nil && *company.Industry != "" {
			industry = *company.Industry
		}

		lastFiling := "never"
		if company.LastFiling != nil {
			lastFiling = company.LastFiling.Format("Jan 2006")
		}

		if _, err := builder.WriteString(p.Sprintf("  * %s %s (%s) [%d statements, latest %s]\n",
			company.Ticker, company.CompanyName, industry, company.NumStatements, lastFiling)); err != nil {
			return "", err
		}
	}

	return builder.String(), nil
}
