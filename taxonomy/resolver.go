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

// Package taxonomy maps canonical financial metrics onto the us-gaap tags
// companies actually report under. Most metrics are published under two to
// four different tag names depending on company and filing vintage; the
// resolver captures the accepted spellings in priority order so that the
// tie-break between competing tags is an explicit contract instead of an
// accident of iteration.
package taxonomy

import "github.com/secvault/secdata/xbrl"

// Metric is a canonical normalized financial line item.
type Metric string

const (
	Revenue            Metric = "revenue"
	CostOfRevenue      Metric = "cost_of_revenue"
	GrossProfit        Metric = "gross_profit"
	OperatingIncome    Metric = "operating_income"
	NetIncome          Metric = "net_income"
	EPSBasic           Metric = "eps_basic"
	EPSDiluted         Metric = "eps_diluted"
	TotalAssets        Metric = "total_assets"
	CurrentAssets      Metric = "current_assets"
	TotalLiabilities   Metric = "total_liabilities"
	CurrentLiabilities Metric = "current_liabilities"
	StockholdersEquity Metric = "stockholders_equity"
	OperatingCashFlow  Metric = "operating_cash_flow"
	InvestingCashFlow  Metric = "investing_cash_flow"
	FinancingCashFlow  Metric = "financing_cash_flow"
)

// Metrics is the fixed iteration order for the canonical metric set. The
// extraction pipeline depends on this order being stable: the filing date
// of a normalized record is taken from the first metric in this list that
// resolves a value.
var Metrics = []Metric{
	Revenue,
	CostOfRevenue,
	GrossProfit,
	OperatingIncome,
	NetIncome,
	EPSBasic,
	EPSDiluted,
	TotalAssets,
	CurrentAssets,
	TotalLiabilities,
	CurrentLiabilities,
	StockholdersEquity,
	OperatingCashFlow,
	InvestingCashFlow,
	FinancingCashFlow,
}

// Alias is one acceptable source tag for a metric together with the unit
// kinds an observation may carry. An observation under any other unit kind
// is ignored even when the tag name matches.
type Alias struct {
	Tag   string
	Units []string
}

// Resolver performs canonical metric to taxonomy alias lookups. It is
// immutable after construction and safe to share across goroutines.
type Resolver struct {
	aliases map[Metric][]Alias
}

var (
	currencyOnly = []string{xbrl.UnitUSD}
	perShare     = []string{xbrl.UnitUSD, xbrl.UnitUSDPerShare}
)

// NewResolver builds a resolver over the fixed metric registry. Alias order
// within each metric is priority order: when several tags are populated for
// the same period the earliest alias in the list wins.
func NewResolver() *Resolver {
	return &Resolver{
		aliases: map[Metric][]Alias{
			Revenue: {
				{Tag: "Revenues", Units: currencyOnly},
				{Tag: "RevenueFromContractWithCustomerExcludingAssessedTax", Units: currencyOnly},
				{Tag: "SalesRevenueNet", Units: currencyOnly},
			},
			CostOfRevenue: {
				{Tag: "CostOfRevenue", Units: currencyOnly},
				{Tag: "CostOfGoodsAndServicesSold", Units: currencyOnly},
				{Tag: "CostOfGoodsSold", Units: currencyOnly},
			},
			GrossProfit: {
				{Tag: "GrossProfit", Units: currencyOnly},
			},
			OperatingIncome: {
				{Tag: "OperatingIncomeLoss", Units: currencyOnly},
			},
			NetIncome: {
				{Tag: "NetIncomeLoss", Units: currencyOnly},
				{Tag: "ProfitLoss", Units: currencyOnly},
			},
			EPSBasic: {
				{Tag: "EarningsPerShareBasic", Units: perShare},
			},
			EPSDiluted: {
				{Tag: "EarningsPerShareDiluted", Units: perShare},
			},
			TotalAssets: {
				{Tag: "Assets", Units: currencyOnly},
			},
			CurrentAssets: {
				{Tag: "AssetsCurrent", Units: currencyOnly},
			},
			TotalLiabilities: {
				{Tag: "Liabilities", Units: currencyOnly},
			},
			CurrentLiabilities: {
				{Tag: "LiabilitiesCurrent", Units: currencyOnly},
			},
			StockholdersEquity: {
				{Tag: "StockholdersEquity", Units: currencyOnly},
				{Tag: "StockholdersEquityIncludingPortionAttributableToNoncontrollingInterest", Units: currencyOnly},
			},
			OperatingCashFlow: {
				{Tag: "NetCashProvidedByUsedInOperatingActivities", Units: currencyOnly},
				{Tag: "NetCashProvidedByUsedInOperatingActivitiesContinuingOperations", Units: currencyOnly},
			},
			InvestingCashFlow: {
				{Tag: "NetCashProvidedByUsedInInvestingActivities", Units: currencyOnly},
				{Tag: "NetCashProvidedByUsedInInvestingActivitiesContinuingOperations", Units: currencyOnly},
			},
			FinancingCashFlow: {
				{Tag: "NetCashProvidedByUsedInFinancingActivities", Units: currencyOnly},
				{Tag: "NetCashProvidedByUsedInFinancingActivitiesContinuingOperations", Units: currencyOnly},
			},
		},
	}
}

// AliasesFor returns the ordered alias list for a canonical metric. Unknown
// metrics yield nil.
func (resolver *Resolver) AliasesFor(metric Metric) []Alias {
	return resolver.aliases[metric]
}
