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

// Package edgar talks to the SEC EDGAR public endpoints: the company
// ticker directory, company submission metadata, and the XBRL company
// facts API. All requests share one rate limiter so the client stays
// inside the SEC fair-access limit no matter how it is used.
package edgar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alphadose/haxmap"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/secvault/secdata/data"
	"github.com/secvault/secdata/xbrl"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	companyTickersURL = "https://www.sec.gov/files/company_tickers.json"
	companyFactsURL   = "https://data.sec.gov/api/xbrl/companyfacts/CIK%010d.json"
	submissionsURL    = "https://data.sec.gov/submissions/CIK%010d.json"
)

var (
	ErrInvalidStatusCode = errors.New("invalid status code received")
	ErrUserAgentRequired = errors.New("a user agent identifying you is required by the SEC fair access policy")
)

// Client is a rate-limited EDGAR API client. The ticker directory is
// cached per client instance; create a fresh client to force a re-fetch.
type Client struct {
	client      *resty.Client
	limiter     *rate.Limiter
	tickerCache *haxmap.Map[string, int64]
}

// NewClient creates an EDGAR client. The userAgent must identify the
// caller (e.g. "Jane Doe jane@example.com") per SEC policy.
func NewClient(userAgent string) (*Client, error) {
	if strings.TrimSpace(userAgent) == "" {
		return nil, ErrUserAgentRequired
	}

	client := resty.New().
		SetHeader("User-Agent", userAgent).
		SetRetryCount(3).
		SetRetryWaitTime(time.Second).
		SetRetryMaxWaitTime(10 * time.Second)

	return &Client{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(10), 1),
		// SEC allows 10 requests per second
		tickerCache: haxmap.New[string, int64](),
	}, nil
}

func (api *Client) get(ctx context.Context, url string) ([]byte, error) {
	logger := zerolog.Ctx(ctx)

	if err := api.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := api.client.R().SetContext(ctx).Get(url)
	if err != nil {
		logger.Error().Err(err).Str("URL", url).Msg("resty returned an error when querying edgar")
		return nil, err
	}

	if resp.StatusCode() >= 300 {
		logger.Error().Int("StatusCode", resp.StatusCode()).Str("URL", url).
			Msg("received an invalid status code from edgar")
		return nil, fmt.Errorf("%w (%d): %s", ErrInvalidStatusCode, resp.StatusCode(), url)
	}

	return resp.Body(), nil
}

// loadTickerDirectory fetches the SEC ticker directory and fills the
// instance cache mapping upper-case ticker to CIK.
func (api *Client) loadTickerDirectory(ctx context.Context) error {
	if api.tickerCache.Len() > 0 {
		return nil
	}

	body, err := api.get(ctx, companyTickersURL)
	if err != nil {
		return err
	}

	// the directory is a map of array index to {cik_str, ticker, title}
	gjson.ParseBytes(body).ForEach(func(_ gjson.Result, value gjson.Result) bool {
		ticker := value.Get("ticker").String()
		cik := value.Get("cik_str").Int()

		if ticker != "" && cik > 0 {
			api.tickerCache.Set(strings.ToUpper(ticker), cik)
		}

		return true
	})

	return nil
}

// LookupCIK resolves a ticker symbol to its SEC central index key. The
// second return is false when the ticker is not in the SEC directory.
func (api *Client) LookupCIK(ctx context.Context, ticker string) (int64, bool, error) {
	if err := api.loadTickerDirectory(ctx); err != nil {
		return 0, false, err
	}

	cik, ok := api.tickerCache.Get(strings.ToUpper(ticker))
	return cik, ok, nil
}

// FindCompanies resolves a list of ticker symbols into company records
// enriched with SIC classification from the submissions endpoint.
// Unknown tickers are logged and skipped, never fatal.
func (api *Client) FindCompanies(ctx context.Context, tickers []string) ([]*data.Company, error) {
	logger := zerolog.Ctx(ctx)

	companies := make([]*data.Company, 0, len(tickers))

	for _, ticker := range tickers {
		cik, ok, err := api.LookupCIK(ctx, ticker)
		if err != nil {
			return nil, err
		}

		if !ok {
			logger.Warn().Str("Ticker", ticker).Msg("ticker not found in the SEC company directory")
			continue
		}

		company := &data.Company{
			CIK:    fmt.Sprintf("%010d", cik),
			Ticker: strings.ToUpper(ticker),
		}

		if err := api.enrich(ctx, cik, company); err != nil {
			logger.Warn().Err(err).Str("Ticker", ticker).Msg("could not fetch submission metadata")
		}

		companies = append(companies, company)
	}

	return companies, nil
}

// enrich fills company name and SIC classification from the EDGAR
// submissions endpoint.
func (api *Client) enrich(ctx context.Context, cik int64, company *data.Company) error {
	body, err := api.get(ctx, fmt.Sprintf(submissionsURL, cik))
	if err != nil {
		return err
	}

	parsed := gjson.ParseBytes(body)
	company.CompanyName = parsed.Get("name").String()
	company.SICCode = parsed.Get("sic").String()
	company.Industry = parsed.Get("sicDescription").String()

	return nil
}

// CompanyFacts fetches and parses the complete XBRL fact set for a
// company.
func (api *Client) CompanyFacts(ctx context.Context, cik int64) (*xbrl.CompanyFacts, error) {
	body, err := api.get(ctx, fmt.Sprintf(companyFactsURL, cik))
	if err != nil {
		return nil, err
	}

	return xbrl.Parse(body)
}
