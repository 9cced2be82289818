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

package model

import (
	"strconv"

	catalogmodel "github.com/villagekeep/village-catalog-service/internal/catalog/model"
)

// CandidateRecord is an externally-sourced record not yet reconciled into
// the catalog. Document parsing and web scraping both produce this shape.
type CandidateRecord struct {
	ID               string   `json:"candidate_id" bson:"candidate_id"`
	Name             string   `json:"name" bson:"name"`
	SKU              string   `json:"sku,omitempty" bson:"sku,omitempty"`
	IntroYear        int      `json:"intro_year,omitempty" bson:"intro_year,omitempty"`
	RetireYear       int      `json:"retire_year,omitempty" bson:"retire_year,omitempty"`
	Description      string   `json:"description,omitempty" bson:"description,omitempty"`
	ImageRefs        []string `json:"image_refs,omitempty" bson:"image_refs,omitempty"`
	Collection       string   `json:"collection,omitempty" bson:"collection,omitempty"`
	Series           string   `json:"series,omitempty" bson:"series,omitempty"`
	Price            float64  `json:"price,omitempty" bson:"price,omitempty"`
	SourceIdentifier string   `json:"source_identifier" bson:"source_identifier"`
	// RawScore is the rank the source itself assigned against a query, if any.
	RawScore  float64 `json:"raw_score,omitempty" bson:"raw_score,omitempty"`
	CreatedAt int64   `json:"created_at" bson:"created_at"`
}

// FieldValue returns the canonical string form of the candidate value for an
// enrichable catalog field. Empty string means the candidate has no value.
func (c *CandidateRecord) FieldValue(field string) string {
	switch field {
	case catalogmodel.FieldYear:
		return formatYear(c.IntroYear)
	case catalogmodel.FieldRetiredYear:
		return formatYear(c.RetireYear)
	case catalogmodel.FieldSKU:
		return c.SKU
	case catalogmodel.FieldDescription:
		return c.Description
	case catalogmodel.FieldPrimaryImageRef:
		if len(c.ImageRefs) > 0 {
			return c.ImageRefs[0]
		}
		return ""
	case catalogmodel.FieldCollection:
		return c.Collection
	case catalogmodel.FieldPrice:
		if c.Price == 0 {
			return ""
		}
		return strconv.FormatFloat(c.Price, 'f', -1, 64)
	}
	return ""
}

// PopulatedFieldCount counts the enrichable fields the candidate carries.
// Used as the tiebreak when two candidates score the same confidence.
func (c *CandidateRecord) PopulatedFieldCount() int {
	count := 0
	for _, field := range catalogmodel.EnrichableFields {
		if c.FieldValue(field) != "" {
			count++
		}
	}
	return count
}

func formatYear(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}
