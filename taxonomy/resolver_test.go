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
package taxonomy_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/secvault/secdata/taxonomy"
	"github.com/secvault/secdata/xbrl"
)

var _ = Describe("Resolver", func() {
	var resolver *taxonomy.Resolver

	BeforeEach(func() {
		resolver = taxonomy.NewResolver()
	})

	It("covers every metric in the registry", func() {
		for _, metric := range taxonomy.Metrics {
			Expect(resolver.AliasesFor(metric)).ToNot(BeEmpty(), string(metric))
		}
	})

	It("keeps the registry order stable", func() {
		// downstream record assembly takes its filing date from the first
		// metric in this order that resolves a value
		Expect(taxonomy.Metrics[0]).To(Equal(taxonomy.Revenue))
		Expect(taxonomy.Metrics[4]).To(Equal(taxonomy.NetIncome))
		Expect(taxonomy.Metrics).To(HaveLen(15))
	})

	It("prefers Revenues over the contract revenue tag", func() {
		aliases := resolver.AliasesFor(taxonomy.Revenue)
		Expect(aliases[0].Tag).To(Equal("Revenues"))
		Expect(aliases[1].Tag).To(Equal("RevenueFromContractWithCustomerExcludingAssessedTax"))
	})

	It("prefers NetIncomeLoss over ProfitLoss", func() {
		aliases := resolver.AliasesFor(taxonomy.NetIncome)
		Expect(aliases[0].Tag).To(Equal("NetIncomeLoss"))
		Expect(aliases[1].Tag).To(Equal("ProfitLoss"))
	})

	It("accepts per-share units only for eps metrics", func() {
		for _, metric := range taxonomy.Metrics {
			for _, alias := range resolver.AliasesFor(metric) {
				if metric == taxonomy.EPSBasic || metric == taxonomy.EPSDiluted {
					Expect(alias.Units).To(Equal([]string{xbrl.UnitUSD, xbrl.UnitUSDPerShare}))
				} else {
					Expect(alias.Units).To(Equal([]string{xbrl.UnitUSD}), alias.Tag)
				}
			}
		}
	})

	It("falls back to continuing operations cash flow tags", func() {
		aliases := resolver.AliasesFor(taxonomy.OperatingCashFlow)
		Expect(aliases[0].Tag).To(Equal("NetCashProvidedByUsedInOperatingActivities"))
		Expect(aliases[1].Tag).To(Equal("NetCashProvidedByUsedInOperatingActivitiesContinuingOperations"))
	})

	It("yields nil for unknown metrics", func() {
		Expect(resolver.AliasesFor(taxonomy.Metric("ebitda"))).To(BeNil())
	})
})
