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
	"time"
)

// Stats summarizes library contents: entity and record counts plus the
// filing date range covered.
type Stats struct {
	NumCompanies  int
	NumStatements int
	FirstFiling   time.Time
	LastFiling    time.Time
}

// Stats returns aggregate statistics for the library
func (myLibrary *Library) Stats(ctx context.Context) (*Stats, error) {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	stats := &Stats{}

	if err := conn.QueryRow(ctx, "SELECT count(*) FROM companies").Scan(&stats.NumCompanies); err != nil {
		return nil, err
	}

	if err := conn.QueryRow(ctx, "SELECT count(*) FROM financial_statements").Scan(&stats.NumStatements); err != nil {
		return nil, err
	}

	err = conn.QueryRow(ctx, `SELECT coalesce(min(filing_date), '0001-01-01'::date),
coalesce(max(filing_date), '0001-01-01'::date) FROM financial_statements`).
		Scan(&stats.FirstFiling, &stats.LastFiling)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
