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

// Package library is the persistence boundary of secdata: a thin wrapper
// around a pgx connection pool exposing idempotent save operations for
// companies and financial statements, aggregate statistics, and the
// ratio-deriving export.
package library

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/secvault/secdata/data"
)

type Library struct {
	DBUrl string

	Pool *pgxpool.Pool
}

// Connect to the database configured for the library
func (myLibrary *Library) Connect(ctx context.Context) error {
	if myLibrary.Pool != nil {
		return nil
	}

	pool, err := pgxpool.New(ctx, myLibrary.DBUrl)
	if err != nil {
		return err
	}
	myLibrary.Pool = pool

	return nil
}

// Close the database pool
func (myLibrary *Library) Close() {
	myLibrary.Pool.Close()
}

// NewFromDB creates a new library object connected to the given database
func NewFromDB(ctx context.Context, dbURL string) (*Library, error) {
	myLibrary := &Library{DBUrl: dbURL}
	if err := myLibrary.Connect(ctx); err != nil {
		return nil, err
	}

	if err := myLibrary.Pool.Ping(ctx); err != nil {
		return nil, err
	}

	return myLibrary, nil
}

// SaveCompany inserts or updates a company. Constraint violations are
// returned to the caller; they do not abort a batch.
func (myLibrary *Library) SaveCompany(ctx context.Context, company *data.Company) error {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	return company.SaveDB(ctx, conn)
}

// SaveFinancials upserts a batch of financial statement records. Each
// record either lands or is counted as a failure; a failure on one record
// never stops the rest of the batch. Only an unusable connection is
// returned as an error.
func (myLibrary *Library) SaveFinancials(ctx context.Context, records []*data.FinancialRecord) (saved int, failed int, err error) {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer conn.Release()

	for _, record := range records {
		if err := record.SaveDB(ctx, conn); err != nil {
			failed++
			log.Warn().Err(err).Object("FinancialRecord", record).Msg("skipping financial statement")
			continue
		}

		saved++
	}

	return saved, failed, nil
}

// NumCompanies returns the total count of companies in the library
func (myLibrary *Library) NumCompanies(ctx context.Context) (int, error) {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	count := 0
	err = conn.QueryRow(ctx, "SELECT count(*) FROM companies").Scan(&count)
	return count, err
}

// NumStatements returns the total count of financial statement rows
func (myLibrary *Library) NumStatements(ctx context.Context) (int, error) {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	count := 0
	err = conn.QueryRow(ctx, "SELECT count(*) FROM financial_statements").Scan(&count)
	return count, err
}
