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
package data

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/secvault/secdata/taxonomy"
)

// FinancialRecord is one normalized row of company fundamentals for a
// distinct (cik, period end, form type) combination. Metric slots are
// pointers; nil means the company did not report the line item for the
// period under any accepted tag or unit. A later ingestion of the same key
// replaces the row, which is how filing amendments are modeled.
type FinancialRecord struct {
	CIK             string
	PeriodEndDate   time.Time
	FormType        string
	FiscalYear      int
	FiscalQuarter   *int
	FilingDate      *time.Time
	AccessionNumber string

	Revenue            *float64
	CostOfRevenue      *float64
	GrossProfit        *float64
	OperatingIncome    *float64
	NetIncome          *float64
	EPSBasic           *float64
	EPSDiluted         *float64
	TotalAssets        *float64
	CurrentAssets      *float64
	TotalLiabilities   *float64
	CurrentLiabilities *float64
	StockholdersEquity *float64
	OperatingCashFlow  *float64
	InvestingCashFlow  *float64
	FinancingCashFlow  *float64
}

// slot returns the storage location for a canonical metric.
func (record *FinancialRecord) slot(metric taxonomy.Metric) **float64 {
	switch metric {
	case taxonomy.Revenue:
		return &record.Revenue
	case taxonomy.CostOfRevenue:
		return &record.CostOfRevenue
	case taxonomy.GrossProfit:
		return &record.GrossProfit
	case taxonomy.OperatingIncome:
		return &record.OperatingIncome
	case taxonomy.NetIncome:
		return &record.NetIncome
	case taxonomy.EPSBasic:
		return &record.EPSBasic
	case taxonomy.EPSDiluted:
		return &record.EPSDiluted
	case taxonomy.TotalAssets:
		return &record.TotalAssets
	case taxonomy.CurrentAssets:
		return &record.CurrentAssets
	case taxonomy.TotalLiabilities:
		return &record.TotalLiabilities
	case taxonomy.CurrentLiabilities:
		return &record.CurrentLiabilities
	case taxonomy.StockholdersEquity:
		return &record.StockholdersEquity
	case taxonomy.OperatingCashFlow:
		return &record.OperatingCashFlow
	case taxonomy.InvestingCashFlow:
		return &record.InvestingCashFlow
	case taxonomy.FinancingCashFlow:
		return &record.FinancingCashFlow
	}

	return nil
}

// SetMetric fills the slot for a canonical metric.
func (record *FinancialRecord) SetMetric(metric taxonomy.Metric, value float64) {
	if slot := record.slot(metric); slot != nil {
		v := value
		*slot = &v
	}
}

// Metric returns the value stored for a canonical metric, or nil when the
// slot is unfilled.
func (record *FinancialRecord) Metric(metric taxonomy.Metric) *float64 {
	if slot := record.slot(metric); slot != nil {
		return *slot
	}

	return nil
}

// HasAnyMetric reports whether at least one canonical metric slot is
// filled. Records where every slot is nil carry no information and are
// never persisted.
func (record *FinancialRecord) HasAnyMetric() bool {
	for _, metric := range taxonomy.Metrics {
		if record.Metric(metric) != nil {
			return true
		}
	}

	return false
}

// SaveDB inserts or replaces the record keyed by (cik, period_end_date,
// form_type). A missing parent company is reported as ErrMissingCompany;
// the store never auto-creates companies.
func (record *FinancialRecord) SaveDB(ctx context.Context, dbConn *pgxpool.Conn) error {
	_, err := dbConn.Exec(ctx, `INSERT INTO financial_statements (
		"cik",
		"filing_date",
		"period_end_date",
		"form_type",
		"fiscal_year",
		"fiscal_quarter",
		"revenue",
		"cost_of_revenue",
		"gross_profit",
		"operating_income",
		"net_income",
		"eps_basic",
		"eps_diluted",
		"total_assets",
		"current_assets",
		"total_liabilities",
		"current_liabilities",
		"stockholders_equity",
		"operating_cash_flow",
		"investing_cash_flow",
		"financing_cash_flow",
		"accession_number"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		$16, $17, $18, $19, $20, $21, $22
	) ON CONFLICT ON CONSTRAINT financial_statements_period_key DO UPDATE SET
		filing_date = EXCLUDED.filing_date,
		fiscal_year = EXCLUDED.fiscal_year,
		fiscal_quarter = EXCLUDED.fiscal_quarter,
		revenue = EXCLUDED.revenue,
		cost_of_revenue = EXCLUDED.cost_of_revenue,
		gross_profit = EXCLUDED.gross_profit,
		operating_income = EXCLUDED.operating_income,
		net_income = EXCLUDED.net_income,
		eps_basic = EXCLUDED.eps_basic,
		eps_diluted = EXCLUDED.eps_diluted,
		total_assets = EXCLUDED.total_assets,
		current_assets = EXCLUDED.current_assets,
		total_liabilities = EXCLUDED.total_liabilities,
		current_liabilities = EXCLUDED.current_liabilities,
		stockholders_equity = EXCLUDED.stockholders_equity,
		operating_cash_flow = EXCLUDED.operating_cash_flow,
		investing_cash_flow = EXCLUDED.investing_cash_flow,
		financing_cash_flow = EXCLUDED.financing_cash_flow,
		accession_number = EXCLUDED.accession_number`,
		record.CIK,
		record.FilingDate,
		record.PeriodEndDate,
		record.FormType,
		record.FiscalYear,
		record.FiscalQuarter,
		record.Revenue,
		record.CostOfRevenue,
		record.GrossProfit,
		record.OperatingIncome,
		record.NetIncome,
		record.EPSBasic,
		record.EPSDiluted,
		record.TotalAssets,
		record.CurrentAssets,
		record.TotalLiabilities,
		record.CurrentLiabilities,
		record.StockholdersEquity,
		record.OperatingCashFlow,
		record.InvestingCashFlow,
		record.FinancingCashFlow,
		record.AccessionNumber,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			log.Error().Object("FinancialRecord", record).Msg("financial statement references unknown company")
			return ErrMissingCompany
		}

		log.Error().Err(err).Object("FinancialRecord", record).Msg("save financial statement to DB failed")
		return err
	}

	return nil
}

func (record *FinancialRecord) MarshalZerologObject(e *zerolog.Event) {
	e.Str("CIK", record.CIK)
	e.Time("PeriodEndDate", record.PeriodEndDate)
	e.Str("FormType", record.FormType)
	e.Int("FiscalYear", record.FiscalYear)
}
