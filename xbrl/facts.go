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

// Package xbrl models the SEC EDGAR "company facts" document: every fact a
// company has ever reported through XBRL, keyed by taxonomy, tag name and
// unit of measure. The document shape is irregular in practice -- tags come
// and go between filings and unit spellings drift -- so all lookups treat
// missing keys as empty collections.
package xbrl

import (
	"github.com/goccy/go-json"
)

// Taxonomy namespaces that appear in company facts documents. Financial
// statement line items live under us-gaap; dei carries cover-page metadata.
const (
	TaxonomyGAAP = "us-gaap"
	TaxonomyDEI  = "dei"
)

// Unit kinds accepted by the normalization pipeline.
const (
	UnitUSD         = "USD"
	UnitUSDPerShare = "USD/shares"
)

// CompanyFacts is a parsed companyfacts API document.
type CompanyFacts struct {
	CIK        int64                         `json:"cik"`
	EntityName string                        `json:"entityName"`
	Facts      map[string]map[string]Concept `json:"facts"`
}

// Concept is a single taxonomy tag with its reported observations grouped
// by unit of measure.
type Concept struct {
	Label       string                   `json:"label"`
	Description string                   `json:"description"`
	Units       map[string][]Observation `json:"units"`
}

// Observation is one timestamped scalar reported under a tag and unit.
// Dates are kept as the raw ISO-8601 strings the API returns; exact string
// equality on `End` is what buckets observations into comparable periods.
type Observation struct {
	Start string  `json:"start"`
	End   string  `json:"end"`
	Val   float64 `json:"val"`
	Accn  string  `json:"accn"`
	FY    int     `json:"fy"`
	FP    string  `json:"fp"`
	Form  string  `json:"form"`
	Filed string  `json:"filed"`
}

// Parse decodes a companyfacts document. A document without a facts section
// parses successfully and yields an empty fact bag; only malformed JSON is
// an error.
func Parse(body []byte) (*CompanyFacts, error) {
	facts := &CompanyFacts{}
	if err := json.Unmarshal(body, facts); err != nil {
		return nil, err
	}

	if facts.Facts == nil {
		facts.Facts = make(map[string]map[string]Concept)
	}

	return facts, nil
}

// GAAP returns the us-gaap tag map, or an empty map when the taxonomy is
// absent from the document.
func (facts *CompanyFacts) GAAP() map[string]Concept {
	if facts == nil || facts.Facts == nil {
		return map[string]Concept{}
	}

	gaap, ok := facts.Facts[TaxonomyGAAP]
	if !ok {
		return map[string]Concept{}
	}

	return gaap
}

// Observations returns the observation list for a tag under a specific unit
// kind. Missing tags and units yield nil.
func (facts *CompanyFacts) Observations(tag string, unit string) []Observation {
	concept, ok := facts.GAAP()[tag]
	if !ok {
		return nil
	}

	return concept.Units[unit]
}
