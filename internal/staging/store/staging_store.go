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

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	catalogmodel "github.com/villagekeep/village-catalog-service/internal/catalog/model"
	"github.com/villagekeep/village-catalog-service/internal/staging/model"
	"github.com/villagekeep/village-catalog-service/internal/system/database/provider"
	"github.com/villagekeep/village-catalog-service/internal/system/database/scripts"
	"github.com/villagekeep/village-catalog-service/internal/system/errors"
	"github.com/villagekeep/village-catalog-service/internal/system/log"
)

func scanStagedChangeRow(row map[string]interface{}) (model.StagedChange, error) {

	change := model.StagedChange{
		ID:          asString(row["change_id"]),
		EntityID:    asString(row["entity_id"]),
		CandidateID: asString(row["candidate_id"]),
		Source:      asString(row["source"]),
		Confidence:  asFloat(row["confidence"]),
		Priority:    asString(row["priority"]),
		Status:      asString(row["status"]),
		CreatedAt:   asInt64(row["created_at"]),
		ReviewedBy:  asString(row["reviewed_by"]),
		ReviewedAt:  asInt64(row["reviewed_at"]),
		UndoneBy:    asString(row["undone_by"]),
		UndoneAt:    asInt64(row["undone_at"]),
	}

	diffJSON := []byte(asString(row["diff"]))
	if err := json.Unmarshal(diffJSON, &change.Diff); err != nil {
		errorMsg := "Failed to unmarshal staged change diff"
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return model.StagedChange{}, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.FETCH_STAGED_CHANGE.Code,
			Message:     errors.FETCH_STAGED_CHANGE.Message,
			Description: errorMsg,
		}, err)
	}
	return change, nil
}

// InsertStagedChange stores a new staged change together with its proposal
// audit record.
func InsertStagedChange(change model.StagedChange) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		return stagingServerError(errors.ADD_STAGED_CHANGE, "Failed to get database client for staging a change", err)
	}
	defer dbClient.Close()

	diffJSON, err := json.Marshal(change.Diff)
	if err != nil {
		return stagingServerError(errors.ADD_STAGED_CHANGE, "Failed to marshal staged change diff", err)
	}

	dbType := provider.NewDBProvider().GetDBType()
	tx, err := dbClient.BeginTx()
	if err != nil {
		return stagingServerError(errors.ADD_STAGED_CHANGE, "Failed to begin transaction for staging a change", err)
	}

	_, err = tx.Exec(scripts.InsertStagedChange[dbType],
		change.ID, change.EntityID, change.CandidateID, change.Source, diffJSON,
		change.Confidence, change.Priority, change.Status, change.CreatedAt,
		change.ReviewedBy, change.ReviewedAt, change.UndoneBy, change.UndoneAt)
	if err != nil {
		tx.Rollback()
		errorMsg := fmt.Sprintf("Failed to insert staged change with Id: %s", change.ID)
		return stagingServerError(errors.ADD_STAGED_CHANGE, errorMsg, err)
	}

	if err := insertAuditInTx(tx, dbType, change.ID, model.AuditActionProposed, "", ""); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return stagingServerError(errors.ADD_STAGED_CHANGE, "Failed to commit staged change", err)
	}
	logger.Info("Staged change added successfully: " + change.ID)
	return nil
}

// GetStagedChangeById fetches one staged change. A nil change with a nil
// error means the id does not exist.
func GetStagedChangeById(changeId string) (*model.StagedChange, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, stagingServerError(errors.FETCH_STAGED_CHANGE, "Failed to get database client for fetching a staged change", err)
	}
	defer dbClient.Close()

	rows, err := dbClient.ExecuteQuery(scripts.GetStagedChangeById[provider.NewDBProvider().GetDBType()], changeId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch staged change with Id: %s", changeId)
		return nil, stagingServerError(errors.FETCH_STAGED_CHANGE, errorMsg, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	change, err := scanStagedChangeRow(rows[0])
	if err != nil {
		return nil, err
	}
	return &change, nil
}

// GetStagedChangesByStatus fetches the changes in a lifecycle state, oldest
// first.
func GetStagedChangesByStatus(status string) ([]model.StagedChange, error) {

	return fetchStagedChanges(scripts.GetStagedChangesByStatus[provider.NewDBProvider().GetDBType()], status)
}

// GetPendingStagedChangesForEntity fetches an entity's pending changes,
// oldest first.
func GetPendingStagedChangesForEntity(entityId string) ([]model.StagedChange, error) {

	return fetchStagedChanges(scripts.GetPendingStagedChangesForEntity[provider.NewDBProvider().GetDBType()], entityId)
}

func fetchStagedChanges(query string, args ...interface{}) ([]model.StagedChange, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, stagingServerError(errors.FETCH_STAGED_CHANGE, "Failed to get database client for fetching staged changes", err)
	}
	defer dbClient.Close()

	rows, err := dbClient.ExecuteQuery(query, args...)
	if err != nil {
		return nil, stagingServerError(errors.FETCH_STAGED_CHANGE, "Failed to fetch staged changes", err)
	}

	changes := make([]model.StagedChange, 0, len(rows))
	for _, row := range rows {
		change, err := scanStagedChangeRow(row)
		if err != nil {
			return nil, err
		}
		changes = append(changes, change)
	}
	return changes, nil
}

// UpdateStagedChangeStatus moves a change into a new lifecycle state and
// writes the matching audit record.
func UpdateStagedChangeStatus(changeId, status, reviewer string, reviewedAt int64, auditAction string) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return stagingServerError(errors.APPLY_STAGED_CHANGE, "Failed to get database client for updating a staged change", err)
	}
	defer dbClient.Close()

	dbType := provider.NewDBProvider().GetDBType()
	tx, err := dbClient.BeginTx()
	if err != nil {
		return stagingServerError(errors.APPLY_STAGED_CHANGE, "Failed to begin transaction for updating a staged change", err)
	}

	if _, err := tx.Exec(scripts.UpdateStagedChangeStatus[dbType], changeId, status, reviewer, reviewedAt); err != nil {
		tx.Rollback()
		errorMsg := fmt.Sprintf("Failed to update staged change with Id: %s", changeId)
		return stagingServerError(errors.APPLY_STAGED_CHANGE, errorMsg, err)
	}
	if err := insertAuditInTx(tx, dbType, changeId, auditAction, reviewer, ""); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return stagingServerError(errors.APPLY_STAGED_CHANGE, "Failed to commit staged change update", err)
	}
	return nil
}

// ApplyApproval approves a staged change atomically: it locks the target
// entity, re-checks the captured old values against the live row, writes the
// new field values, the audit record and the status in one transaction.
//
// The returned status is StatusApproved on success, or StatusNeedsReview
// with a reason (stale_entity, not_found) when the entity moved underneath
// the proposal. Parking the change is itself committed.
func ApplyApproval(change *model.StagedChange, reviewer string, reviewedAt int64) (string, string, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return "", "", stagingServerError(errors.APPLY_STAGED_CHANGE, "Failed to get database client for approving a staged change", err)
	}
	defer dbClient.Close()

	dbType := provider.NewDBProvider().GetDBType()
	tx, err := dbClient.BeginTx()
	if err != nil {
		return "", "", stagingServerError(errors.APPLY_STAGED_CHANGE, "Failed to begin approval transaction", err)
	}

	entity, err := lockEntity(tx, dbType, change.EntityID)
	if err != nil {
		tx.Rollback()
		return "", "", err
	}
	if entity == nil {
		return parkChange(tx, dbType, change.ID, reviewer, reviewedAt, errors.ReasonNotFound)
	}

	for _, field := range change.Diff.SortedFields() {
		if entity.FieldValue(field) != change.Diff[field].Old {
			return parkChange(tx, dbType, change.ID, reviewer, reviewedAt, errors.ReasonStaleEntity)
		}
	}

	priorValues := make(map[string]string, len(change.Diff))
	for field, fieldChange := range change.Diff {
		priorValues[field] = fieldChange.Old
		entity.SetFieldValue(field, fieldChange.New)
	}
	if err := writeEnrichment(tx, dbType, entity); err != nil {
		tx.Rollback()
		return "", "", err
	}

	priorJSON, _ := json.Marshal(priorValues)
	if err := insertAuditInTx(tx, dbType, change.ID, model.AuditActionApproved, reviewer, string(priorJSON)); err != nil {
		tx.Rollback()
		return "", "", err
	}
	if _, err := tx.Exec(scripts.UpdateStagedChangeStatus[dbType],
		change.ID, model.StatusApproved, reviewer, reviewedAt); err != nil {
		tx.Rollback()
		return "", "", stagingServerError(errors.APPLY_STAGED_CHANGE, "Failed to mark staged change approved", err)
	}

	if err := tx.Commit(); err != nil {
		return "", "", stagingServerError(errors.APPLY_STAGED_CHANGE, "Failed to commit approval", err)
	}
	return model.StatusApproved, "", nil
}

// ApplyUndo reverts an approved change: the captured old values go back onto
// the entity and the change returns to pending with the undo stamped.
func ApplyUndo(change *model.StagedChange, actor string, undoneAt int64) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return stagingServerError(errors.APPLY_STAGED_CHANGE, "Failed to get database client for undoing a staged change", err)
	}
	defer dbClient.Close()

	dbType := provider.NewDBProvider().GetDBType()
	tx, err := dbClient.BeginTx()
	if err != nil {
		return stagingServerError(errors.APPLY_STAGED_CHANGE, "Failed to begin undo transaction", err)
	}

	entity, err := lockEntity(tx, dbType, change.EntityID)
	if err != nil {
		tx.Rollback()
		return err
	}
	if entity != nil {
		for field, fieldChange := range change.Diff {
			entity.SetFieldValue(field, fieldChange.Old)
		}
		if err := writeEnrichment(tx, dbType, entity); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := insertAuditInTx(tx, dbType, change.ID, model.AuditActionUndone, actor, ""); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec(scripts.UpdateStagedChangeUndone[dbType],
		change.ID, model.StatusPending, actor, undoneAt); err != nil {
		tx.Rollback()
		return stagingServerError(errors.APPLY_STAGED_CHANGE, "Failed to mark staged change undone", err)
	}

	if err := tx.Commit(); err != nil {
		return stagingServerError(errors.APPLY_STAGED_CHANGE, "Failed to commit undo", err)
	}
	return nil
}

// GetAuditRecordsForChange fetches a change's audit trail, oldest first.
func GetAuditRecordsForChange(changeId string) ([]model.AuditRecord, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, stagingServerError(errors.FETCH_STAGED_CHANGE, "Failed to get database client for fetching audit records", err)
	}
	defer dbClient.Close()

	rows, err := dbClient.ExecuteQuery(scripts.GetAuditRecordsForChange[provider.NewDBProvider().GetDBType()], changeId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch audit records for change: %s", changeId)
		return nil, stagingServerError(errors.FETCH_STAGED_CHANGE, errorMsg, err)
	}

	records := make([]model.AuditRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, model.AuditRecord{
			ID:         asString(row["audit_id"]),
			ChangeID:   asString(row["change_id"]),
			Action:     asString(row["action"]),
			Actor:      asString(row["actor"]),
			Detail:     asString(row["detail"]),
			RecordedAt: asInt64(row["recorded_at"]),
		})
	}
	return records, nil
}

func lockEntity(tx *sql.Tx, dbType, entityId string) (*catalogmodel.Entity, error) {

	row := tx.QueryRow(scripts.GetEntityByIdForUpdate[dbType], entityId)

	var entity catalogmodel.Entity
	var kind string
	err := row.Scan(&entity.ID, &kind, &entity.Name, &entity.SKU, &entity.Description,
		&entity.Year, &entity.RetiredYear, &entity.PurchasedYear, &entity.Price,
		&entity.Collection, &entity.Series, &entity.Notes, &entity.PrimaryImageRef,
		&entity.ParentHouseID, &entity.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to lock entity with Id: %s", entityId)
		return nil, stagingServerError(errors.APPLY_STAGED_CHANGE, errorMsg, err)
	}
	entity.Kind = catalogmodel.Kind(kind)
	return &entity, nil
}

func writeEnrichment(tx *sql.Tx, dbType string, entity *catalogmodel.Entity) error {

	_, err := tx.Exec(scripts.UpdateEntityEnrichment[dbType],
		entity.ID, entity.Year, entity.RetiredYear, entity.SKU, entity.Description,
		entity.PrimaryImageRef, entity.Collection, entity.Price)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to write enrichment fields for entity: %s", entity.ID)
		return stagingServerError(errors.APPLY_STAGED_CHANGE, errorMsg, err)
	}
	return nil
}

func parkChange(tx *sql.Tx, dbType, changeId, reviewer string, reviewedAt int64, reason string) (string, string, error) {

	if err := insertAuditInTx(tx, dbType, changeId, model.AuditActionParked, reviewer, reason); err != nil {
		tx.Rollback()
		return "", "", err
	}
	if _, err := tx.Exec(scripts.UpdateStagedChangeStatus[dbType],
		changeId, model.StatusNeedsReview, reviewer, reviewedAt); err != nil {
		tx.Rollback()
		return "", "", stagingServerError(errors.APPLY_STAGED_CHANGE, "Failed to park staged change", err)
	}
	if err := tx.Commit(); err != nil {
		return "", "", stagingServerError(errors.APPLY_STAGED_CHANGE, "Failed to commit parked staged change", err)
	}
	return model.StatusNeedsReview, reason, nil
}

func insertAuditInTx(tx *sql.Tx, dbType, changeId, action, actor, detail string) error {

	_, err := tx.Exec(scripts.InsertChangeAuditRecord[dbType],
		uuid.New().String(), changeId, action, actor, detail, nowUnix())
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to write audit record for change: %s", changeId)
		return stagingServerError(errors.WRITE_AUDIT_RECORD, errorMsg, err)
	}
	return nil
}

func nowUnix() int64 {
	return time.Now().Unix()
}

func stagingServerError(msg errors.ErrorMessage, description string, cause error) error {

	log.GetLogger().Debug(description, log.Error(cause))
	return errors.NewServerError(errors.ErrorMessage{
		Code:        msg.Code,
		Message:     msg.Message,
		Description: description,
	}, cause)
}

func asString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return ""
}

func asInt64(value interface{}) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

func asFloat(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case []byte:
		var parsed float64
		fmt.Sscanf(string(v), "%f", &parsed)
		return parsed
	}
	return 0
}
