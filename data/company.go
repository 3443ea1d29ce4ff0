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

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// ErrTickerConflict indicates the company's ticker is already bound to a
	// different CIK in the database.
	ErrTickerConflict = errors.New("ticker already registered to a different cik")

	// ErrMissingCompany indicates a financial statement references a CIK that
	// has not been saved to the companies table.
	ErrMissingCompany = errors.New("company does not exist for financial statement")
)

// Company is a reporting entity tracked by the library. CIK is the SEC
// Central Index Key, zero-padded to 10 digits.
type Company struct {
	CIK         string `json:"cik"`
	Ticker      string `json:"ticker"`
	CompanyName string `json:"company_name"`
	SICCode     string `json:"sic_code"`
	Industry    string `json:"industry"`
}

// SaveDB inserts or updates the company keyed by CIK. The unique constraint
// on ticker is reported as ErrTickerConflict so callers can continue with
// the rest of a batch.
func (company *Company) SaveDB(ctx context.Context, dbConn *pgxpool.Conn) error {
	_, err := dbConn.Exec(ctx, `INSERT INTO companies (
		"cik",
		"ticker",
		"company_name",
		"sic_code",
		"industry",
		"updated_date"
	) VALUES (
		$1, $2, $3, $4, $5, now()
	) ON CONFLICT ON CONSTRAINT companies_pkey DO UPDATE SET
		ticker = EXCLUDED.ticker,
		company_name = EXCLUDED.company_name,
		sic_code = EXCLUDED.sic_code,
		industry = EXCLUDED.industry,
		updated_date = now()`,
		company.CIK,
		company.Ticker,
		company.CompanyName,
		company.SICCode,
		company.Industry,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			log.Error().Object("Company", company).Msg("ticker is bound to a different cik")
			return ErrTickerConflict
		}

		log.Error().Err(err).Object("Company", company).Msg("save company to DB failed")
		return err
	}

	return nil
}

func (company *Company) MarshalZerologObject(e *zerolog.Event) {
	e.Str("CIK", company.CIK)
	e.Str("Ticker", company.Ticker)
	e.Str("CompanyName", company.CompanyName)
}
