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

// Package extract normalizes a company facts bag into financial statement
// records. Observations are bucketed by (period end, form, fiscal year) and
// each canonical metric is resolved per bucket by alias priority. Source
// irregularities -- unknown units, unexpected forms, missing period fields --
// are filtered silently; they are the normal condition of EDGAR data, not
// errors.
package extract

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/secvault/secdata/data"
	"github.com/secvault/secdata/taxonomy"
	"github.com/secvault/secdata/xbrl"
)

// Forms retained by the pipeline. Transition reports (10-KT, 10-QT) and
// all other form codes are filtered.
var acceptedForms = map[string]bool{
	"10-K": true,
	"10-Q": true,
}

// PeriodKey identifies one comparable reporting bucket. Equality is exact
// on all three fields; a key with any zero field is invalid and produces no
// record.
type PeriodKey struct {
	End  string
	Form string
	FY   int
}

// Valid reports whether all key fields are populated.
func (key PeriodKey) Valid() bool {
	return key.End != "" && key.Form != "" && key.FY != 0
}

// Extractor converts company facts into normalized financial records using
// a taxonomy resolver. Construct one per ingestion run; it holds no mutable
// state and may be shared.
type Extractor struct {
	resolver *taxonomy.Resolver
}

// NewExtractor returns an extractor backed by the given resolver.
func NewExtractor(resolver *taxonomy.Resolver) *Extractor {
	return &Extractor{resolver: resolver}
}

// Extract produces one record per distinct period key observed across all
// canonical metrics. A nil or empty fact bag yields no records and no
// error; per spec this is "no data for this entity".
func (extractor *Extractor) Extract(facts *xbrl.CompanyFacts, cik string) []*data.FinancialRecord {
	if facts == nil {
		return nil
	}

	gaap := facts.GAAP()
	if len(gaap) == 0 {
		return nil
	}

	keys := extractor.periodKeys(facts)

	records := make([]*data.FinancialRecord, 0, len(keys))
	for _, key := range keys {
		record := extractor.assemble(facts, cik, key)
		if record == nil {
			continue
		}

		if !record.HasAnyMetric() {
			continue
		}

		records = append(records, record)
	}

	log.Debug().Str("CIK", cik).Int("NumPeriods", len(keys)).Int("NumRecords", len(records)).
		Msg("extracted financial records from company facts")

	return records
}

// periodKeys collects the universe of valid period keys across every
// metric, alias and accepted unit kind. The universe drives row production
// even when no single metric covers every key.
func (extractor *Extractor) periodKeys(facts *xbrl.CompanyFacts) []PeriodKey {
	seen := make(map[PeriodKey]bool)

	for _, metric := range taxonomy.Metrics {
		for _, alias := range extractor.resolver.AliasesFor(metric) {
			for _, unit := range alias.Units {
				for _, obs := range facts.Observations(alias.Tag, unit) {
					if !acceptedForms[obs.Form] {
						continue
					}

					key := PeriodKey{End: obs.End, Form: obs.Form, FY: obs.FY}
					if !key.Valid() {
						continue
					}

					seen[key] = true
				}
			}
		}
	}

	keys := make([]PeriodKey, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}

	// map iteration is random; order keys so output is deterministic
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].End != keys[j].End {
			return keys[i].End < keys[j].End
		}
		if keys[i].Form != keys[j].Form {
			return keys[i].Form < keys[j].Form
		}
		return keys[i].FY < keys[j].FY
	})

	return keys
}

// assemble builds the record for one period key, resolving every canonical
// metric independently by alias priority. The filing date, accession number
// and fiscal quarter come from the first metric (in registry order) that
// resolves a value; this mirrors the behavior downstream consumers already
// depend on rather than picking the earliest filed date.
func (extractor *Extractor) assemble(facts *xbrl.CompanyFacts, cik string, key PeriodKey) *data.FinancialRecord {
	periodEnd, err := time.Parse("2006-01-02", key.End)
	if err != nil {
		log.Debug().Str("CIK", cik).Str("PeriodEnd", key.End).Msg("skipping period with unparseable end date")
		return nil
	}

	record := &data.FinancialRecord{
		CIK:           cik,
		PeriodEndDate: periodEnd,
		FormType:      key.Form,
		FiscalYear:    key.FY,
	}

	for _, metric := range taxonomy.Metrics {
		obs, ok := extractor.resolve(facts, metric, key)
		if !ok {
			continue
		}

		record.SetMetric(metric, obs.Val)

		if record.FilingDate == nil {
			if filed, err := time.Parse("2006-01-02", obs.Filed); err == nil {
				record.FilingDate = &filed
				record.AccessionNumber = obs.Accn
				record.FiscalQuarter = fiscalQuarter(obs.FP)
			}
		}
	}

	return record
}

// resolve finds the observation supplying a metric's value for a period
// key: the first alias in priority order with an exact key match under an
// acceptable unit kind wins, trying USD before USD/shares.
func (extractor *Extractor) resolve(facts *xbrl.CompanyFacts, metric taxonomy.Metric, key PeriodKey) (xbrl.Observation, bool) {
	for _, alias := range extractor.resolver.AliasesFor(metric) {
		for _, unit := range alias.Units {
			for _, obs := range facts.Observations(alias.Tag, unit) {
				if obs.End == key.End && obs.Form == key.Form && obs.FY == key.FY {
					return obs, true
				}
			}
		}
	}

	return xbrl.Observation{}, false
}

// fiscalQuarter maps a fiscal period code to a quarter number. Annual
// periods (FY) and anything unrecognized map to null.
func fiscalQuarter(fp string) *int {
	var quarter int

	switch fp {
	case "Q1":
		quarter = 1
	case "Q2":
		quarter = 2
	case "Q3":
		quarter = 3
	case "Q4":
		quarter = 4
	default:
		return nil
	}

	return &quarter
}
