/*
 * Copyright (c) 2026, Villagekeep Project.
 *
 * Villagekeep licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package scraper walks a retired-products listing page and emits candidate
// records for the pool. It only extracts; matching and staging happen
// downstream.
package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/google/uuid"

	"github.com/villagekeep/village-catalog-service/internal/candidates/model"
	"github.com/villagekeep/village-catalog-service/internal/system/config"
	"github.com/villagekeep/village-catalog-service/internal/system/log"
)

var (
	skuPattern  = regexp.MustCompile(`\b\d{2}[.-]?\d{4,5}\b`)
	yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// ScrapeListing opens the configured listing page and extracts one candidate
// record per product row. Rows without a readable name are skipped.
func ScrapeListing(cfg config.ScraperConfig) ([]model.CandidateRecord, error) {

	logger := log.GetLogger()
	if cfg.ListingURL == "" {
		return nil, fmt.Errorf("scraper listing URL is not configured")
	}

	u := launcher.New().
		Headless(cfg.Headless).
		Leakless(false).
		MustLaunch()

	browser := rod.New().ControlURL(u).MustConnect()
	defer browser.MustClose()

	logger.Info("Opening listing page: " + cfg.ListingURL)
	var page *rod.Page
	if err := rod.Try(func() {
		page = browser.MustPage(cfg.ListingURL)
		page.MustWaitStable()
	}); err != nil {
		return nil, fmt.Errorf("failed to open listing page: %v", err)
	}

	var rows []*rod.Element
	if err := rod.Try(func() {
		rows = page.MustElements(".product, .product-row, li.item, tr.item")
	}); err != nil {
		return nil, fmt.Errorf("no product rows found on listing page: %v", err)
	}

	records := make([]model.CandidateRecord, 0, len(rows))
	now := time.Now().Unix()
	for _, row := range rows {
		record, ok := extractRecord(row, cfg.SourceIdentifier, now)
		if !ok {
			continue
		}
		records = append(records, record)
	}

	logger.Info("Listing scrape finished",
		log.Int("rows", len(rows)), log.Int("records", len(records)))
	return records, nil
}

func extractRecord(row *rod.Element, sourceIdentifier string, now int64) (model.CandidateRecord, bool) {

	var text string
	if err := rod.Try(func() {
		text = row.MustText()
	}); err != nil {
		return model.CandidateRecord{}, false
	}

	name := firstLine(text)
	if name == "" {
		return model.CandidateRecord{}, false
	}

	record := model.CandidateRecord{
		ID:               uuid.New().String(),
		Name:             name,
		SKU:              skuPattern.FindString(text),
		SourceIdentifier: sourceIdentifier,
		CreatedAt:        now,
	}
	if year := yearPattern.FindString(text); year != "" {
		record.IntroYear, _ = strconv.Atoi(year)
	}

	rod.Try(func() {
		if img := row.MustElement("img"); img != nil {
			if src := img.MustAttribute("src"); src != nil && *src != "" {
				record.ImageRefs = []string{*src}
			}
		}
	})

	return record, true
}

// firstLine takes the first non-empty line of a row's text as the product
// name. Listing rows lead with the name; prices and dates follow below.
func firstLine(text string) string {

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
