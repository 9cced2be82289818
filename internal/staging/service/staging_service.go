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

// Package service implements the staging and moderation ledger: proposals
// enter as pending changes, curators approve, reject or undo them, and every
// decision leaves an audit record.
package service

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/villagekeep/village-catalog-service/internal/staging/model"
	"github.com/villagekeep/village-catalog-service/internal/staging/store"
	"github.com/villagekeep/village-catalog-service/internal/system/authz"
	"github.com/villagekeep/village-catalog-service/internal/system/errors"
	"github.com/villagekeep/village-catalog-service/internal/system/log"
)

// ChangeRepository is the persistence surface the ledger needs. The store
// implements it; tests use an in-memory fake.
type ChangeRepository interface {
	Insert(change model.StagedChange) error
	GetById(changeId string) (*model.StagedChange, error)
	ListByStatus(status string) ([]model.StagedChange, error)
	ListPendingForEntity(entityId string) ([]model.StagedChange, error)
	UpdateStatus(changeId, status, reviewer string, reviewedAt int64, auditAction string) error
	// ApplyApproval atomically re-checks staleness, writes the fields and
	// the decision. Returns the resulting status and, when parked, a reason.
	ApplyApproval(change *model.StagedChange, reviewer string, reviewedAt int64) (string, string, error)
	ApplyUndo(change *model.StagedChange, actor string, undoneAt int64) error
	ListAudit(changeId string) ([]model.AuditRecord, error)
}

// ModerationResult reports what a moderation action did to a change.
// Outcome mirrors the change's resulting status; Reason is set when the
// change was parked for review instead of applied.
type ModerationResult struct {
	Change  *model.StagedChange `json:"change"`
	Outcome string              `json:"outcome"`
	Reason  string              `json:"reason,omitempty"`
}

// StagingService is the default, store-backed ledger implementation.
type StagingService struct {
	repo     ChangeRepository
	curators *authz.CuratorChecker
}

// GetStagingService creates a ledger service over the SQL store.
func GetStagingService(curators *authz.CuratorChecker) *StagingService {

	return NewStagingService(&sqlChangeRepository{}, curators)
}

// NewStagingService creates a ledger service over an explicit repository.
func NewStagingService(repo ChangeRepository, curators *authz.CuratorChecker) *StagingService {

	return &StagingService{repo: repo, curators: curators}
}

// Propose stages a change. Re-proposing a diff equivalent to one already
// pending for the same entity is a no-op returning the existing change; the
// second return reports whether a new change was created.
func (s *StagingService) Propose(change model.StagedChange) (*model.StagedChange, bool, error) {

	pending, err := s.repo.ListPendingForEntity(change.EntityID)
	if err != nil {
		return nil, false, err
	}
	fingerprint := change.Diff.Fingerprint(change.EntityID)
	for i := range pending {
		if pending[i].Diff.Fingerprint(pending[i].EntityID) == fingerprint {
			return &pending[i], false, nil
		}
	}

	change.ID = uuid.New().String()
	change.Status = model.StatusPending
	change.CreatedAt = time.Now().Unix()
	if err := s.repo.Insert(change); err != nil {
		return nil, false, err
	}

	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   change.Source,
		InitiatorType: log.InitiatorTypeSystem,
		TargetID:      change.ID,
		TargetType:    log.TargetTypeStagedChange,
		ActionID:      log.ActionProposeChange,
	})
	return &change, true, nil
}

// List fetches the changes in one lifecycle state.
func (s *StagingService) List(status string) ([]model.StagedChange, error) {

	return s.repo.ListByStatus(status)
}

// Get fetches one staged change.
func (s *StagingService) Get(changeId string) (*model.StagedChange, error) {

	change, err := s.repo.GetById(changeId)
	if err != nil {
		return nil, err
	}
	if change == nil {
		return nil, changeNotFoundError(changeId)
	}
	return change, nil
}

// Approve applies a staged change on behalf of a curator. Approvals are
// accepted from pending and needs_review. A change whose entity moved since
// the proposal is parked as needs_review with a reason instead of applied.
func (s *StagingService) Approve(changeId, caller string) (*ModerationResult, error) {

	if err := s.curators.EnsureCurator(caller); err != nil {
		return nil, err
	}
	change, err := s.Get(changeId)
	if err != nil {
		return nil, err
	}
	if change.Terminal() {
		return nil, terminalChangeError(changeId)
	}

	status, reason, err := s.repo.ApplyApproval(change, caller, time.Now().Unix())
	if err != nil {
		return nil, err
	}

	s.auditDecision(log.ActionApproveChange, caller, changeId)
	updated, err := s.Get(changeId)
	if err != nil {
		return nil, err
	}
	return &ModerationResult{Change: updated, Outcome: status, Reason: reason}, nil
}

// Reject declines a staged change. Like approvals, rejections are accepted
// from pending and needs_review.
func (s *StagingService) Reject(changeId, caller string) (*ModerationResult, error) {

	if err := s.curators.EnsureCurator(caller); err != nil {
		return nil, err
	}
	change, err := s.Get(changeId)
	if err != nil {
		return nil, err
	}
	if change.Terminal() {
		return nil, terminalChangeError(changeId)
	}

	if err := s.repo.UpdateStatus(changeId, model.StatusRejected, caller,
		time.Now().Unix(), model.AuditActionRejected); err != nil {
		return nil, err
	}

	s.auditDecision(log.ActionRejectChange, caller, changeId)
	updated, err := s.Get(changeId)
	if err != nil {
		return nil, err
	}
	return &ModerationResult{Change: updated, Outcome: model.StatusRejected}, nil
}

// Undo reverts an approved change: the captured prior values go back onto
// the entity and the change returns to pending with the undo stamped. Only
// approved changes can be undone.
func (s *StagingService) Undo(changeId, caller string) (*ModerationResult, error) {

	if err := s.curators.EnsureCurator(caller); err != nil {
		return nil, err
	}
	change, err := s.Get(changeId)
	if err != nil {
		return nil, err
	}
	if change.Status != model.StatusApproved {
		return nil, errors.NewClientError(errors.ErrorMessage{
			Code:        errors.UNDO_NOT_APPROVED.Code,
			Message:     errors.UNDO_NOT_APPROVED.Message,
			Description: "Staged change " + changeId + " is " + change.Status + ", not approved.",
		}, http.StatusConflict)
	}

	if err := s.repo.ApplyUndo(change, caller, time.Now().Unix()); err != nil {
		return nil, err
	}

	s.auditDecision(log.ActionUndoChange, caller, changeId)
	updated, err := s.Get(changeId)
	if err != nil {
		return nil, err
	}
	return &ModerationResult{Change: updated, Outcome: model.StatusPending}, nil
}

// Audit fetches a change's audit trail.
func (s *StagingService) Audit(changeId string) ([]model.AuditRecord, error) {

	if _, err := s.Get(changeId); err != nil {
		return nil, err
	}
	return s.repo.ListAudit(changeId)
}

func (s *StagingService) auditDecision(action, caller, changeId string) {

	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   caller,
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      changeId,
		TargetType:    log.TargetTypeStagedChange,
		ActionID:      action,
	})
}

func changeNotFoundError(changeId string) error {

	return errors.NewClientErrorWithReason(errors.ErrorMessage{
		Code:        errors.STAGED_CHANGE_NOT_FOUND.Code,
		Message:     errors.STAGED_CHANGE_NOT_FOUND.Message,
		Description: "No staged change exists with Id: " + changeId,
	}, http.StatusNotFound, errors.ReasonNotFound)
}

func terminalChangeError(changeId string) error {

	return errors.NewClientErrorWithReason(errors.ErrorMessage{
		Code:        errors.STAGED_CHANGE_TERMINAL.Code,
		Message:     errors.STAGED_CHANGE_TERMINAL.Message,
		Description: "Staged change " + changeId + " already reached a terminal state.",
	}, http.StatusConflict, errors.ReasonAlreadyTerminal)
}

// sqlChangeRepository adapts the store package to the ChangeRepository
// interface.
type sqlChangeRepository struct{}

func (r *sqlChangeRepository) Insert(change model.StagedChange) error {
	return store.InsertStagedChange(change)
}

func (r *sqlChangeRepository) GetById(changeId string) (*model.StagedChange, error) {
	return store.GetStagedChangeById(changeId)
}

func (r *sqlChangeRepository) ListByStatus(status string) ([]model.StagedChange, error) {
	return store.GetStagedChangesByStatus(status)
}

func (r *sqlChangeRepository) ListPendingForEntity(entityId string) ([]model.StagedChange, error) {
	return store.GetPendingStagedChangesForEntity(entityId)
}

func (r *sqlChangeRepository) UpdateStatus(changeId, status, reviewer string, reviewedAt int64, auditAction string) error {
	return store.UpdateStagedChangeStatus(changeId, status, reviewer, reviewedAt, auditAction)
}

func (r *sqlChangeRepository) ApplyApproval(change *model.StagedChange, reviewer string, reviewedAt int64) (string, string, error) {
	return store.ApplyApproval(change, reviewer, reviewedAt)
}

func (r *sqlChangeRepository) ApplyUndo(change *model.StagedChange, actor string, undoneAt int64) error {
	return store.ApplyUndo(change, actor, undoneAt)
}

func (r *sqlChangeRepository) ListAudit(changeId string) ([]model.AuditRecord, error) {
	return store.GetAuditRecordsForChange(changeId)
}
