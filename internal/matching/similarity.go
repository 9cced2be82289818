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

// Package matching implements the fuzzy name matching and confidence
// scoring shared by the duplicate reconciler and the enrichment scanner.
package matching

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold normalizes a name for comparison: diacritics stripped, lowercased,
// possessives flattened, punctuation dropped, whitespace collapsed.
func Fold(text string) string {
	if text == "" {
		return ""
	}

	folded, _, err := transform.String(foldTransformer, text)
	if err != nil {
		folded = text
	}
	folded = strings.ToLower(folded)
	folded = strings.ReplaceAll(folded, "'s", "s")
	folded = strings.ReplaceAll(folded, "’s", "s")

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// FoldSKU normalizes a SKU for comparison, keeping the dots and hyphens that
// structure item numbers.
func FoldSKU(sku string) string {
	sku = strings.ToLower(strings.TrimSpace(sku))
	var b strings.Builder
	b.Grow(len(sku))
	for _, r := range sku {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Tokens splits a folded name into word tokens.
func Tokens(text string) []string {
	folded := Fold(text)
	if folded == "" {
		return nil
	}
	return strings.Fields(folded)
}

// Similarity scores two names in [0,1]. It is symmetric, reflexive for
// non-empty input, case-insensitive and tolerant of token reordering; empty
// input scores zero and no input ever causes an error.
func Similarity(a, b string) float64 {
	foldedA := Fold(a)
	foldedB := Fold(b)
	if foldedA == "" || foldedB == "" {
		return 0
	}
	if foldedA == foldedB {
		return 1
	}

	tokenScore := jaccard(strings.Fields(foldedA), strings.Fields(foldedB))
	sortScore := bigramDice(sortTokens(foldedA), sortTokens(foldedB))

	score := tokenScore
	if sortScore > score {
		score = sortScore
	}
	return score
}

// jaccard computes the token-set overlap of two token lists.
func jaccard(a, b []string) float64 {
	setA := make(map[string]bool, len(a))
	for _, token := range a {
		setA[token] = true
	}
	setB := make(map[string]bool, len(b))
	for _, token := range b {
		setB[token] = true
	}

	intersection := 0
	for token := range setA {
		if setB[token] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// sortTokens rebuilds a folded string with its tokens in sorted order, which
// makes the bigram comparison insensitive to word order.
func sortTokens(folded string) string {
	tokens := strings.Fields(folded)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// bigramDice computes the Sørensen–Dice coefficient over character bigrams.
// It catches near-misses the token overlap cannot, like singular/plural or
// apostrophe variants of a single word.
func bigramDice(a, b string) float64 {
	bigramsA := bigrams(a)
	bigramsB := bigrams(b)
	if len(bigramsA) == 0 || len(bigramsB) == 0 {
		return 0
	}

	counts := make(map[string]int, len(bigramsA))
	for _, gram := range bigramsA {
		counts[gram]++
	}
	overlap := 0
	for _, gram := range bigramsB {
		if counts[gram] > 0 {
			counts[gram]--
			overlap++
		}
	}
	return 2 * float64(overlap) / float64(len(bigramsA)+len(bigramsB))
}

func bigrams(text string) []string {
	runes := []rune(text)
	if len(runes) < 2 {
		return []string{string(runes)}
	}
	grams := make([]string, 0, len(runes)-1)
	for i := 0; i+1 < len(runes); i++ {
		grams = append(grams, string(runes[i:i+2]))
	}
	return grams
}
