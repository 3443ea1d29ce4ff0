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
package library_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/secvault/secdata/library"
)

func f(v float64) *float64 {
	return &v
}

var _ = Describe("Millions", func() {
	It("rescales dollar amounts to millions with 2 decimal places", func() {
		Expect(library.Millions(f(383_285_000_000))).To(HaveValue(Equal(383_285.0)))
		Expect(library.Millions(f(1_234_567))).To(HaveValue(Equal(1.23)))
		Expect(library.Millions(f(1_235_000))).To(HaveValue(Equal(1.24)))
	})

	It("rounds half away from zero", func() {
		Expect(library.Millions(f(1_005_000))).To(HaveValue(Equal(1.01)))
		Expect(library.Millions(f(-1_005_000))).To(HaveValue(Equal(-1.01)))
	})

	It("passes nil through", func() {
		Expect(library.Millions(nil)).To(BeNil())
	})
})

var _ = Describe("Ratio", func() {
	It("derives percentage margins", func() {
		Expect(library.Ratio(f(25), f(100), 100)).To(HaveValue(Equal(25.0)))
		Expect(library.Ratio(f(1), f(3), 100)).To(HaveValue(Equal(33.33)))
	})

	It("derives plain ratios", func() {
		Expect(library.Ratio(f(150), f(100), 1)).To(HaveValue(Equal(1.5)))
	})

	When("the denominator is unusable", func() {
		It("yields nil for a zero denominator", func() {
			Expect(library.Ratio(f(25), f(0), 100)).To(BeNil())
		})

		It("yields nil for a negative denominator", func() {
			Expect(library.Ratio(f(25), f(-100), 100)).To(BeNil())
		})

		It("yields nil for a missing denominator", func() {
			Expect(library.Ratio(f(25), nil, 100)).To(BeNil())
		})
	})

	It("yields nil for a missing numerator", func() {
		Expect(library.Ratio(nil, f(100), 100)).To(BeNil())
	})

	It("keeps negative numerators", func() {
		// loss-making companies still get a margin
		Expect(library.Ratio(f(-10), f(100), 100)).To(HaveValue(Equal(-10.0)))
	})
})
