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

package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases and trims", "  Fezziwig's Ballroom  ", "fezziwigs ballroom"},
		{"strips diacritics", "Café Caprice", "cafe caprice"},
		{"drops punctuation", "St. Nick's Gift-Shop!", "st nicks gift shop"},
		{"collapses whitespace", "the   old\tcuriosity  shop", "the old curiosity shop"},
		{"empty", "", ""},
		{"punctuation only", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Fold(tt.input))
		})
	}
}

func TestFoldSKU(t *testing.T) {
	assert.Equal(t, "56.55115", FoldSKU(" 56.55115 "))
	// Internal whitespace is dropped, so spacing variants of one item
	// number fold to the same key.
	assert.Equal(t, "dv805544", FoldSKU("DV 805544"))
	assert.Equal(t, FoldSKU("DV805544"), FoldSKU("dv 805544"))
	assert.Equal(t, "", FoldSKU(""))
}

func TestSimilarityReflexiveAndSymmetric(t *testing.T) {
	names := []string{
		"Fezziwig's Ballroom",
		"Santa's Wonderland House",
		"Crooked Fence Cottage",
	}
	for _, name := range names {
		assert.Equal(t, 1.0, Similarity(name, name))
	}
	for _, a := range names {
		for _, b := range names {
			assert.Equal(t, Similarity(a, b), Similarity(b, a))
		}
	}
}

func TestSimilarityEmptyInput(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("", "Fezziwig's Ballroom"))
	assert.Equal(t, 0.0, Similarity("Fezziwig's Ballroom", ""))
	assert.Equal(t, 0.0, Similarity("", ""))
	assert.Equal(t, 0.0, Similarity("...", "Fezziwig's Ballroom"))
}

func TestSimilarityCaseAndPunctuationInsensitive(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("FEZZIWIG'S BALLROOM", "fezziwigs ballroom"))
	assert.Equal(t, 1.0, Similarity("St. Nick's Gift Shop", "St Nicks Gift Shop"))
}

func TestSimilarityTokenReorder(t *testing.T) {
	score := Similarity("Wonderland House Santa's", "Santa's Wonderland House")
	assert.GreaterOrEqual(t, score, 0.9)
}

func TestSimilarityNearMiss(t *testing.T) {
	score := Similarity("Santa Wonderland House", "Santa's Wonderland House")
	assert.GreaterOrEqual(t, score, 0.85)
	assert.Less(t, score, 1.0)
}

func TestSimilarityUnrelatedNames(t *testing.T) {
	score := Similarity("Fezziwig's Ballroom", "Crooked Fence Cottage")
	assert.Less(t, score, 0.3)
}

func TestSimilarityBounded(t *testing.T) {
	pairs := [][2]string{
		{"a", "b"},
		{"Fezziwig's Ballroom", "Fezziwig Ballroom Annex"},
		{"北の家", "Northern House"},
	}
	for _, pair := range pairs {
		score := Similarity(pair[0], pair[1])
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"fezziwigs", "ballroom"}, Tokens("Fezziwig's Ballroom"))
	assert.Nil(t, Tokens(""))
}
