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
	"fmt"
	"sort"
	"strings"
)

// Staged change lifecycle states. A change is terminal once approved or
// rejected; needs_review parks a change whose approval hit a stale or
// missing entity until a curator looks again.
const (
	StatusPending     = "pending"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
	StatusNeedsReview = "needs_review"
)

// Audit actions recorded against a staged change.
const (
	AuditActionProposed = "proposed"
	AuditActionApproved = "approved"
	AuditActionRejected = "rejected"
	AuditActionUndone   = "undone"
	AuditActionParked   = "parked"
)

// FieldChange is one field's proposed transition. Old captures the entity
// value at proposal time in canonical string form ("" = absent); approval
// re-checks it against the live entity before writing New.
type FieldChange struct {
	Old     string `json:"old"`
	New     string `json:"new"`
	GapFill bool   `json:"gap_fill"`
}

// Diff maps enrichable field names to their proposed transitions.
type Diff map[string]FieldChange

// StagedChange is one proposed enrichment of a catalog entity, awaiting
// moderation. An empty EntityID means no catalog entity matched: the change
// proposes a new record, and approving it parks the change as needs_review
// until the entity exists.
type StagedChange struct {
	ID          string  `json:"change_id"`
	EntityID    string  `json:"entity_id"`
	CandidateID string  `json:"candidate_id,omitempty"`
	Source      string  `json:"source,omitempty"`
	Diff        Diff    `json:"diff"`
	Confidence  float64 `json:"confidence"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
	CreatedAt   int64   `json:"created_at"`
	ReviewedBy  string  `json:"reviewed_by,omitempty"`
	ReviewedAt  int64   `json:"reviewed_at,omitempty"`
	UndoneBy    string  `json:"undone_by,omitempty"`
	UndoneAt    int64   `json:"undone_at,omitempty"`
}

// Terminal reports whether the change has reached a state no moderation
// action other than undo may leave.
func (c *StagedChange) Terminal() bool {
	return c.Status == StatusApproved || c.Status == StatusRejected
}

// AuditRecord is one immutable moderation event for a staged change. Detail
// carries the prior field values for approvals so undo can restore them.
type AuditRecord struct {
	ID         string `json:"audit_id"`
	ChangeID   string `json:"change_id"`
	Action     string `json:"action"`
	Actor      string `json:"actor"`
	Detail     string `json:"detail,omitempty"`
	RecordedAt int64  `json:"recorded_at"`
}

// Fingerprint derives a stable identity for a diff against an entity, used
// to drop re-proposals that would stage nothing new. Fields are emitted in
// sorted order so logically equal diffs always collide.
func (d Diff) Fingerprint(entityID string) string {
	fields := make([]string, 0, len(d))
	for field := range d {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString(entityID)
	for _, field := range fields {
		change := d[field]
		fmt.Fprintf(&b, "|%s=%q>%q", field, change.Old, change.New)
	}
	return b.String()
}

// SortedFields returns the diff's field names in canonical order.
func (d Diff) SortedFields() []string {
	fields := make([]string, 0, len(d))
	for field := range d {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}
