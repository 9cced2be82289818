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
	"strings"
)

// Kind tags the two structurally identical entity variants.
type Kind string

const (
	KindHouse     Kind = "house"
	KindAccessory Kind = "accessory"
)

// ValidKind reports whether the given string names a known entity kind.
func ValidKind(kind string) bool {
	return Kind(kind) == KindHouse || Kind(kind) == KindAccessory
}

// Entity is a catalog record: a collectible house or accessory. All optional
// fields use the zero value as "absent".
type Entity struct {
	ID              string  `json:"entity_id"`
	Kind            Kind    `json:"kind"`
	Name            string  `json:"name"`
	SKU             string  `json:"sku,omitempty"`
	Description     string  `json:"description,omitempty"`
	Year            int     `json:"year,omitempty"`
	RetiredYear     int     `json:"retired_year,omitempty"`
	PurchasedYear   int     `json:"purchased_year,omitempty"`
	Price           float64 `json:"price,omitempty"`
	Collection      string  `json:"collection,omitempty"`
	Series          string  `json:"series,omitempty"`
	Notes           string  `json:"notes,omitempty"`
	PrimaryImageRef string  `json:"primary_image_ref,omitempty"`
	// ParentHouseID is only set on accessories.
	ParentHouseID string `json:"parent_house_id,omitempty"`
	CreatedAt     int64  `json:"created_at"`
}

// Enrichment field names. These are the only fields the scanner proposes
// changes for and the only fields an approved change may write.
const (
	FieldYear            = "year"
	FieldRetiredYear     = "retired_year"
	FieldSKU             = "sku"
	FieldDescription     = "description"
	FieldPrimaryImageRef = "primary_image_ref"
	FieldCollection      = "collection"
	FieldPrice           = "price"
)

// EnrichableFields lists the enrichable fields in their canonical order.
var EnrichableFields = []string{
	FieldYear,
	FieldRetiredYear,
	FieldSKU,
	FieldDescription,
	FieldPrimaryImageRef,
	FieldCollection,
	FieldPrice,
}

// FieldValue returns the canonical string form of an enrichable field.
// Empty string means the field is absent.
func (e *Entity) FieldValue(field string) string {
	switch field {
	case FieldYear:
		return formatYear(e.Year)
	case FieldRetiredYear:
		return formatYear(e.RetiredYear)
	case FieldSKU:
		return e.SKU
	case FieldDescription:
		return e.Description
	case FieldPrimaryImageRef:
		return e.PrimaryImageRef
	case FieldCollection:
		return e.Collection
	case FieldPrice:
		return formatPrice(e.Price)
	}
	return ""
}

// SetFieldValue writes the canonical string form back into the typed field.
// Empty string clears the field.
func (e *Entity) SetFieldValue(field, value string) {
	switch field {
	case FieldYear:
		e.Year = parseYear(value)
	case FieldRetiredYear:
		e.RetiredYear = parseYear(value)
	case FieldSKU:
		e.SKU = value
	case FieldDescription:
		e.Description = value
	case FieldPrimaryImageRef:
		e.PrimaryImageRef = value
	case FieldCollection:
		e.Collection = value
	case FieldPrice:
		e.Price = parsePrice(value)
	}
}

// PopulatedFieldCount counts the optional fields carrying a value. Used by
// the survivor election when duplicate records tie on relationship count.
func (e *Entity) PopulatedFieldCount() int {
	count := 0
	for _, value := range []string{
		e.SKU, e.Description, e.Collection, e.Series, e.Notes, e.PrimaryImageRef,
	} {
		if strings.TrimSpace(value) != "" {
			count++
		}
	}
	for _, year := range []int{e.Year, e.RetiredYear, e.PurchasedYear} {
		if year != 0 {
			count++
		}
	}
	if e.Price != 0 {
		count++
	}
	return count
}

func formatYear(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}

func parseYear(value string) int {
	year, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return year
}

func formatPrice(price float64) string {
	if price == 0 {
		return ""
	}
	return strconv.FormatFloat(price, 'f', -1, 64)
}

func parsePrice(value string) float64 {
	price, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return price
}
