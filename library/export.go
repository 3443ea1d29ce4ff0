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
	"math"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
)

// ExportRow is one flattened line of the analytical export. Currency
// amounts are rescaled to millions (suffix _millions); per-share amounts
// stay raw. Nil pointers serialize as empty cells.
type ExportRow struct {
	Ticker        string `csv:"ticker" db:"ticker"`
	CompanyName   string `csv:"company_name" db:"company_name"`
	Industry      string `csv:"industry" db:"industry"`
	FiscalYear    int    `csv:"fiscal_year" db:"fiscal_year"`
	FiscalQuarter *int   `csv:"fiscal_quarter" db:"fiscal_quarter"`
	FormType      string `csv:"form_type" db:"form_type"`
	FilingDate    string `csv:"filing_date" db:"-"`
	PeriodEndDate string `csv:"period_end_date" db:"-"`

	RevenueMillions            *float64 `csv:"revenue_millions" db:"-"`
	CostOfRevenueMillions      *float64 `csv:"cost_of_revenue_millions" db:"-"`
	GrossProfitMillions        *float64 `csv:"gross_profit_millions" db:"-"`
	OperatingIncomeMillions    *float64 `csv:"operating_income_millions" db:"-"`
	NetIncomeMillions          *float64 `csv:"net_income_millions" db:"-"`
	EPSBasic                   *float64 `csv:"eps_basic" db:"-"`
	EPSDiluted                 *float64 `csv:"eps_diluted" db:"-"`
	TotalAssetsMillions        *float64 `csv:"total_assets_millions" db:"-"`
	CurrentAssetsMillions      *float64 `csv:"current_assets_millions" db:"-"`
	TotalLiabilitiesMillions   *float64 `csv:"total_liabilities_millions" db:"-"`
	CurrentLiabilitiesMillions *float64 `csv:"current_liabilities_millions" db:"-"`
	StockholdersEquityMillions *float64 `csv:"stockholders_equity_millions" db:"-"`
	OperatingCashFlowMillions  *float64 `csv:"operating_cash_flow_millions" db:"-"`
	InvestingCashFlowMillions  *float64 `csv:"investing_cash_flow_millions" db:"-"`
	FinancingCashFlowMillions  *float64 `csv:"financing_cash_flow_millions" db:"-"`

	NetMarginPercent       *float64 `csv:"net_margin_percent" db:"-"`
	OperatingMarginPercent *float64 `csv:"operating_margin_percent" db:"-"`
	CurrentRatio           *float64 `csv:"current_ratio" db:"-"`
	DebtToAssetsPercent    *float64 `csv:"debt_to_assets_percent" db:"-"`
}

// exportRecord is the raw join of a financial statement with its company,
// before rescaling and ratio derivation.
type exportRecord struct {
	Ticker             string     `db:"ticker"`
	CompanyName        string     `db:"company_name"`
	Industry           *string    `db:"industry"`
	FiscalYear         int        `db:"fiscal_year"`
	FiscalQuarter      *int       `db:"fiscal_quarter"`
	FormType           string     `db:"form_type"`
	FilingDate         *time.Time `db:"filing_date"`
	PeriodEndDate      time.Time  `db:"period_end_date"`
	Revenue            *float64   `db:"revenue"`
	CostOfRevenue      *float64   `db:"cost_of_revenue"`
	GrossProfit        *float64   `db:"gross_profit"`
	OperatingIncome    *float64   `db:"operating_income"`
	NetIncome          *float64   `db:"net_income"`
	EPSBasic           *float64   `db:"eps_basic"`
	EPSDiluted         *float64   `db:"eps_diluted"`
	TotalAssets        *float64   `db:"total_assets"`
	CurrentAssets      *float64   `db:"current_assets"`
	TotalLiabilities   *float64   `db:"total_liabilities"`
	CurrentLiabilities *float64   `db:"current_liabilities"`
	StockholdersEquity *float64   `db:"stockholders_equity"`
	OperatingCashFlow  *float64   `db:"operating_cash_flow"`
	InvestingCashFlow  *float64   `db:"investing_cash_flow"`
	FinancingCashFlow  *float64   `db:"financing_cash_flow"`
}

// Millions rescales an absolute currency amount to millions, rounded
// half-away-from-zero to 2 decimal places. Nil passes through.
func Millions(value *float64) *float64 {
	if value == nil {
		return nil
	}

	scaled := math.Round(*value/1_000_000*100) / 100
	return &scaled
}

// Ratio computes numerator/denominator*scale guarded against missing,
// zero, and negative denominators: any of those yields nil instead of an
// error, infinity, or NaN. The result is rounded to 2 decimal places.
func Ratio(numerator *float64, denominator *float64, scale float64) *float64 {
	if numerator == nil || denominator == nil || *denominator <= 0 {
		return nil
	}

	ratio := math.Round(*numerator / *denominator * scale * 100) / 100
	return &ratio
}

// buildExportRow flattens one joined record, rescaling currency columns
// and deriving the four analytical ratios.
func buildExportRow(record *exportRecord) *ExportRow {
	row := &ExportRow{
		Ticker:        record.Ticker,
		CompanyName:   record.CompanyName,
		FiscalYear:    record.FiscalYear,
		FiscalQuarter: record.FiscalQuarter,
		FormType:      record.FormType,
		PeriodEndDate: record.PeriodEndDate.Format("2006-01-02"),

		RevenueMillions:            Millions(record.Revenue),
		CostOfRevenueMillions:      Millions(record.CostOfRevenue),
		GrossProfitMillions:        Millions(record.GrossProfit),
		OperatingIncomeMillions:    Millions(record.OperatingIncome),
		NetIncomeMillions:          Millions(record.NetIncome),
		EPSBasic:                   record.EPSBasic,
		EPSDiluted:                 record.EPSDiluted,
		TotalAssetsMillions:        Millions(record.TotalAssets),
		CurrentAssetsMillions:      Millions(record.CurrentAssets),
		TotalLiabilitiesMillions:   Millions(record.TotalLiabilities),
		CurrentLiabilitiesMillions: Millions(record.CurrentLiabilities),
		StockholdersEquityMillions: Millions(record.StockholdersEquity),
		OperatingCashFlowMillions:  Millions(record.OperatingCashFlow),
		InvestingCashFlowMillions:  Millions(record.InvestingCashFlow),
		FinancingCashFlowMillions:  Millions(record.FinancingCashFlow),

		NetMarginPercent:       Ratio(record.NetIncome, record.Revenue, 100),
		OperatingMarginPercent: Ratio(record.OperatingIncome, record.Revenue, 100),
		CurrentRatio:           Ratio(record.CurrentAssets, record.CurrentLiabilities, 1),
		DebtToAssetsPercent:    Ratio(record.TotalLiabilities, record.TotalAssets, 100),
	}

	if record.Industry != nil {
		row.Industry = *record.Industry
	}

	if record.FilingDate != nil {
		row.FilingDate = record.FilingDate.Format("2006-01-02")
	}

	return row
}

// ExportRows reads every stored record joined with its company, optionally
// filtered to a single ticker, ordered ticker first, then most recent
// fiscal year, then form type.
func (myLibrary *Library) ExportRows(ctx context.Context, ticker string) ([]*ExportRow, error) {
	query := `SELECT c.ticker, c.company_name, c.industry, fs.fiscal_year, fs.fiscal_quarter,
fs.form_type, fs.filing_date, fs.period_end_date, fs.revenue, fs.cost_of_revenue,
fs.gross_profit, fs.operating_income, fs.net_income, fs.eps_basic, fs.eps_diluted,
fs.total_assets, fs.current_assets, fs.total_liabilities, fs.current_liabilities,
fs.stockholders_equity, fs.operating_cash_flow, fs.investing_cash_flow, fs.financing_cash_flow
FROM financial_statements fs
JOIN companies c ON fs.cik = c.cik`

	args := []any{}
	if ticker != "" {
		query += ` WHERE c.ticker = $1`
		args = append(args, ticker)
	}

	query += ` ORDER BY c.ticker, fs.fiscal_year DESC, fs.form_type`

	var records []*exportRecord
	if err := pgxscan.Select(ctx, myLibrary.Pool, &records, query, args...); err != nil {
		return nil, err
	}

	rows := make([]*ExportRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, buildExportRow(record))
	}

	return rows, nil
}
