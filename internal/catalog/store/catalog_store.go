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
	"fmt"

	"github.com/villagekeep/village-catalog-service/internal/catalog/model"
	"github.com/villagekeep/village-catalog-service/internal/system/database/provider"
	"github.com/villagekeep/village-catalog-service/internal/system/database/scripts"
	"github.com/villagekeep/village-catalog-service/internal/system/errors"
	"github.com/villagekeep/village-catalog-service/internal/system/log"
)

func scanEntityRow(row map[string]interface{}) model.Entity {

	return model.Entity{
		ID:              asString(row["entity_id"]),
		Kind:            model.Kind(asString(row["kind"])),
		Name:            asString(row["name"]),
		SKU:             asString(row["sku"]),
		Description:     asString(row["description"]),
		Year:            asInt(row["year"]),
		RetiredYear:     asInt(row["retired_year"]),
		PurchasedYear:   asInt(row["purchased_year"]),
		Price:           asFloat(row["price"]),
		Collection:      asString(row["collection"]),
		Series:          asString(row["series"]),
		Notes:           asString(row["notes"]),
		PrimaryImageRef: asString(row["primary_image_ref"]),
		ParentHouseID:   asString(row["parent_house_id"]),
		CreatedAt:       int64(asInt(row["created_at"])),
	}
}

// InsertEntity adds a catalog entity.
func InsertEntity(entity model.Entity) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for adding an entity"
		logger.Debug(errorMsg, log.Error(err))
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.ADD_ENTITY.Code,
			Message:     errors.ADD_ENTITY.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	_, err = dbClient.ExecuteQuery(scripts.InsertEntity[provider.NewDBProvider().GetDBType()],
		entity.ID, string(entity.Kind), entity.Name, entity.SKU, entity.Description,
		entity.Year, entity.RetiredYear, entity.PurchasedYear, entity.Price,
		entity.Collection, entity.Series, entity.Notes, entity.PrimaryImageRef,
		entity.ParentHouseID, entity.CreatedAt)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to insert entity with Id: %s", entity.ID)
		logger.Debug(errorMsg, log.Error(err))
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.ADD_ENTITY.Code,
			Message:     errors.ADD_ENTITY.Message,
			Description: errorMsg,
		}, err)
	}
	logger.Info("Entity added successfully: " + entity.ID)
	return nil
}

// GetEntityById fetches one entity. A nil entity with a nil error means the
// id does not exist.
func GetEntityById(entityId string) (*model.Entity, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for fetching an entity"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.FETCH_ENTITY.Code,
			Message:     errors.FETCH_ENTITY.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	rows, err := dbClient.ExecuteQuery(scripts.GetEntityById[provider.NewDBProvider().GetDBType()], entityId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch entity with Id: %s", entityId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.FETCH_ENTITY.Code,
			Message:     errors.FETCH_ENTITY.Message,
			Description: errorMsg,
		}, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	entity := scanEntityRow(rows[0])
	return &entity, nil
}

// GetAllEntities fetches every entity in creation order.
func GetAllEntities() ([]model.Entity, error) {

	return fetchEntities(scripts.GetAllEntities[provider.NewDBProvider().GetDBType()])
}

// GetEntitiesByKind fetches the entities of one kind in creation order.
func GetEntitiesByKind(kind model.Kind) ([]model.Entity, error) {

	return fetchEntities(scripts.GetEntitiesByKind[provider.NewDBProvider().GetDBType()], string(kind))
}

func fetchEntities(query string, args ...interface{}) ([]model.Entity, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for fetching entities"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.FETCH_ENTITY.Code,
			Message:     errors.FETCH_ENTITY.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	rows, err := dbClient.ExecuteQuery(query, args...)
	if err != nil {
		errorMsg := "Failed to fetch entities"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.FETCH_ENTITY.Code,
			Message:     errors.FETCH_ENTITY.Message,
			Description: errorMsg,
		}, err)
	}

	entities := make([]model.Entity, 0, len(rows))
	for _, row := range rows {
		entities = append(entities, scanEntityRow(row))
	}
	return entities, nil
}

// CountEntitiesByFoldedName counts, per kind, the entities whose lowercased
// trimmed name equals the given folded name.
func CountEntitiesByFoldedName(foldedName string) (map[model.Kind]int, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for the collision query"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.FETCH_ENTITY.Code,
			Message:     errors.FETCH_ENTITY.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	rows, err := dbClient.ExecuteQuery(
		scripts.CountEntitiesByFoldedName[provider.NewDBProvider().GetDBType()], foldedName)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to count entities named: %s", foldedName)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.FETCH_ENTITY.Code,
			Message:     errors.FETCH_ENTITY.Message,
			Description: errorMsg,
		}, err)
	}

	counts := make(map[model.Kind]int, len(rows))
	for _, row := range rows {
		counts[model.Kind(asString(row["kind"]))] = asInt(row["cnt"])
	}
	return counts, nil
}

// GetSnapshot reads the entities and all relationship tables in one shot.
func GetSnapshot() (*model.Snapshot, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for the catalog snapshot"
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.FETCH_RELATIONSHIPS.Code,
			Message:     errors.FETCH_RELATIONSHIPS.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	dbType := provider.NewDBProvider().GetDBType()
	snapshot := &model.Snapshot{}

	entityRows, err := dbClient.ExecuteQuery(scripts.GetAllEntities[dbType])
	if err != nil {
		return nil, snapshotError(err, "entities")
	}
	for _, row := range entityRows {
		snapshot.Entities = append(snapshot.Entities, scanEntityRow(row))
	}

	linkRows, err := dbClient.ExecuteQuery(scripts.GetHouseAccessoryLinks[dbType])
	if err != nil {
		return nil, snapshotError(err, "house accessory links")
	}
	for _, row := range linkRows {
		snapshot.Links = append(snapshot.Links, model.HouseAccessoryLink{
			HouseID:     asString(row["house_id"]),
			AccessoryID: asString(row["accessory_id"]),
		})
	}

	collectionRows, err := dbClient.ExecuteQuery(scripts.GetCollectionMemberships[dbType])
	if err != nil {
		return nil, snapshotError(err, "collection memberships")
	}
	for _, row := range collectionRows {
		snapshot.Collections = append(snapshot.Collections, model.CollectionMembership{
			EntityID:       asString(row["entity_id"]),
			CollectionName: asString(row["collection_name"]),
		})
	}

	tagRows, err := dbClient.ExecuteQuery(scripts.GetTagMemberships[dbType])
	if err != nil {
		return nil, snapshotError(err, "tag memberships")
	}
	for _, row := range tagRows {
		snapshot.Tags = append(snapshot.Tags, model.TagMembership{
			EntityID:   asString(row["entity_id"]),
			Tag:        asString(row["tag"]),
			Source:     asString(row["source"]),
			Confidence: asFloat(row["confidence"]),
			Reviewed:   asBool(row["reviewed"]),
		})
	}

	return snapshot, nil
}

func snapshotError(err error, table string) error {

	errorMsg := "Failed to read " + table + " for the catalog snapshot"
	log.GetLogger().Debug(errorMsg, log.Error(err))
	return errors.NewServerError(errors.ErrorMessage{
		Code:        errors.FETCH_RELATIONSHIPS.Code,
		Message:     errors.FETCH_RELATIONSHIPS.Message,
		Description: errorMsg,
	}, err)
}

// RepointRelationships moves the loser's links, collection and tag
// memberships to the survivor, skipping moves that would duplicate a row
// already attached to the survivor. Returns the number of rows moved.
func RepointRelationships(fromId, toId string, kind model.Kind) (int, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for re-pointing relationships"
		logger.Debug(errorMsg, log.Error(err))
		return 0, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.REPOINT_RELATIONSHIP.Code,
			Message:     errors.REPOINT_RELATIONSHIP.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	dbType := provider.NewDBProvider().GetDBType()
	linkQuery := scripts.RepointLinksFromAccessory[dbType]
	if kind == model.KindHouse {
		linkQuery = scripts.RepointLinksFromHouse[dbType]
	}

	tx, err := dbClient.BeginTx()
	if err != nil {
		return 0, repointError(err, fromId)
	}

	moved := 0
	for _, query := range []string{
		linkQuery,
		scripts.RepointCollectionMemberships[dbType],
		scripts.RepointTagMemberships[dbType],
	} {
		result, err := tx.Exec(query, fromId, toId)
		if err != nil {
			tx.Rollback()
			return moved, repointError(err, fromId)
		}
		if affected, err := result.RowsAffected(); err == nil {
			moved += int(affected)
		}
	}

	if err := tx.Commit(); err != nil {
		return moved, repointError(err, fromId)
	}
	return moved, nil
}

func repointError(err error, fromId string) error {

	errorMsg := fmt.Sprintf("Failed to re-point relationships from entity: %s", fromId)
	log.GetLogger().Debug(errorMsg, log.Error(err))
	return errors.NewServerError(errors.ErrorMessage{
		Code:        errors.REPOINT_RELATIONSHIP.Code,
		Message:     errors.REPOINT_RELATIONSHIP.Message,
		Description: errorMsg,
	}, err)
}

// DeleteEntityWithRelationships removes an entity together with any
// relationship rows still referencing it, in one transaction.
func DeleteEntityWithRelationships(entityId string) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get database client for deleting an entity"
		logger.Debug(errorMsg, log.Error(err))
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.DELETE_ENTITY.Code,
			Message:     errors.DELETE_ENTITY.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	dbType := provider.NewDBProvider().GetDBType()
	tx, err := dbClient.BeginTx()
	if err != nil {
		return deleteError(err, entityId)
	}

	for _, query := range []string{
		scripts.DeleteLinksForEntity[dbType],
		scripts.DeleteCollectionMembershipsForEntity[dbType],
		scripts.DeleteTagMembershipsForEntity[dbType],
		scripts.DeleteEntity[dbType],
	} {
		if _, err := tx.Exec(query, entityId); err != nil {
			tx.Rollback()
			return deleteError(err, entityId)
		}
	}

	if err := tx.Commit(); err != nil {
		return deleteError(err, entityId)
	}
	logger.Info("Entity deleted successfully: " + entityId)
	return nil
}

func deleteError(err error, entityId string) error {

	errorMsg := fmt.Sprintf("Failed to delete entity with Id: %s", entityId)
	log.GetLogger().Debug(errorMsg, log.Error(err))
	return errors.NewServerError(errors.ErrorMessage{
		Code:        errors.DELETE_ENTITY.Code,
		Message:     errors.DELETE_ENTITY.Message,
		Description: errorMsg,
	}, err)
}

// InsertHouseAccessoryLink links an accessory to a house. Duplicate links
// are ignored.
func InsertHouseAccessoryLink(link model.HouseAccessoryLink) error {

	return execRelationshipWrite(scripts.InsertHouseAccessoryLink, "Failed to add house accessory link",
		link.HouseID, link.AccessoryID)
}

// DeleteHouseAccessoryLink removes one link.
func DeleteHouseAccessoryLink(link model.HouseAccessoryLink) error {

	return execRelationshipWrite(scripts.DeleteHouseAccessoryLink, "Failed to delete house accessory link",
		link.HouseID, link.AccessoryID)
}

// InsertCollectionMembership places an entity in a collection. Duplicates
// are ignored.
func InsertCollectionMembership(membership model.CollectionMembership) error {

	return execRelationshipWrite(scripts.InsertCollectionMembership, "Failed to add collection membership",
		membership.EntityID, membership.CollectionName)
}

// InsertTagMembership attaches a tag to an entity. Duplicates are ignored.
func InsertTagMembership(membership model.TagMembership) error {

	return execRelationshipWrite(scripts.InsertTagMembership, "Failed to add tag membership",
		membership.EntityID, membership.Tag, membership.Source, membership.Confidence, membership.Reviewed)
}

func execRelationshipWrite(queries map[string]string, errorMsg string, args ...interface{}) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		logger.Debug(errorMsg, log.Error(err))
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.REPOINT_RELATIONSHIP.Code,
			Message:     errors.REPOINT_RELATIONSHIP.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	if _, err := dbClient.ExecuteQuery(queries[provider.NewDBProvider().GetDBType()], args...); err != nil {
		logger.Debug(errorMsg, log.Error(err))
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.REPOINT_RELATIONSHIP.Code,
			Message:     errors.REPOINT_RELATIONSHIP.Message,
			Description: errorMsg,
		}, err)
	}
	return nil
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

func asInt(value interface{}) int {
	switch v := value.(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
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
		return parseNumeric(string(v))
	}
	return 0
}

func asBool(value interface{}) bool {
	if v, ok := value.(bool); ok {
		return v
	}
	return false
}

func parseNumeric(value string) float64 {
	var parsed float64
	fmt.Sscanf(value, "%f", &parsed)
	return parsed
}
