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

package service

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/villagekeep/village-catalog-service/internal/catalog/model"
	"github.com/villagekeep/village-catalog-service/internal/catalog/store"
	"github.com/villagekeep/village-catalog-service/internal/system/errors"
)

// CatalogServiceInterface is the business surface over catalog entities and
// their relationships.
type CatalogServiceInterface interface {
	CreateEntity(entity model.Entity) (*model.Entity, error)
	GetEntity(entityId string) (*model.Entity, error)
	ListEntities(kind model.Kind) ([]model.Entity, error)
	DeleteEntity(entityId string) error
	LinkAccessory(houseId, accessoryId string) error
	UnlinkAccessory(houseId, accessoryId string) error
	WouldCollide(name string, kind model.Kind) (*model.CollisionCheck, error)
	GetAllEntities() ([]model.Entity, error)
	GetSnapshot() (*model.Snapshot, error)
	RepointRelationships(fromId, toId string, kind model.Kind) (int, error)
	DeleteEntityWithRelationships(entityId string) error
}

// CatalogService is the default implementation of CatalogServiceInterface.
type CatalogService struct{}

// GetCatalogService creates a new instance of CatalogService.
func GetCatalogService() CatalogServiceInterface {

	return &CatalogService{}
}

// CreateEntity validates and stores a new entity. A name that folds to an
// existing name of either kind is rejected up front rather than left for the
// reconciler to repair.
func (s *CatalogService) CreateEntity(entity model.Entity) (*model.Entity, error) {

	if strings.TrimSpace(entity.Name) == "" {
		return nil, errors.NewClientError(errors.ErrorMessage{
			Code:        errors.ENTITY_NAME_REQUIRED.Code,
			Message:     errors.ENTITY_NAME_REQUIRED.Message,
			Description: "A catalog entity cannot be created without a name.",
		}, http.StatusBadRequest)
	}
	if !model.ValidKind(string(entity.Kind)) {
		return nil, errors.NewClientError(errors.ErrorMessage{
			Code:        errors.INVALID_ENTITY_KIND.Code,
			Message:     errors.INVALID_ENTITY_KIND.Message,
			Description: "Kind must be either house or accessory.",
		}, http.StatusBadRequest)
	}

	check, err := s.WouldCollide(entity.Name, entity.Kind)
	if err != nil {
		return nil, err
	}
	if check.SameKind || check.CrossKind {
		return nil, errors.NewClientError(errors.ErrorMessage{
			Code:        errors.ENTITY_NAME_COLLISION.Code,
			Message:     errors.ENTITY_NAME_COLLISION.Message,
			Description: "An entity with this name already exists in the catalog.",
		}, http.StatusConflict)
	}

	entity.ID = uuid.New().String()
	entity.CreatedAt = time.Now().Unix()
	if err := store.InsertEntity(entity); err != nil {
		return nil, err
	}
	return &entity, nil
}

// GetEntity fetches one entity by id.
func (s *CatalogService) GetEntity(entityId string) (*model.Entity, error) {

	entity, err := store.GetEntityById(entityId)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, entityNotFoundError(entityId)
	}
	return entity, nil
}

// ListEntities fetches the entities of one kind, or the whole catalog when
// kind is empty.
func (s *CatalogService) ListEntities(kind model.Kind) ([]model.Entity, error) {

	if kind == "" {
		return store.GetAllEntities()
	}
	if !model.ValidKind(string(kind)) {
		return nil, errors.NewClientError(errors.ErrorMessage{
			Code:        errors.INVALID_ENTITY_KIND.Code,
			Message:     errors.INVALID_ENTITY_KIND.Message,
			Description: "Kind must be either house or accessory.",
		}, http.StatusBadRequest)
	}
	return store.GetEntitiesByKind(kind)
}

// DeleteEntity removes an entity and its relationship rows so nothing
// dangles.
func (s *CatalogService) DeleteEntity(entityId string) error {

	entity, err := store.GetEntityById(entityId)
	if err != nil {
		return err
	}
	if entity == nil {
		return entityNotFoundError(entityId)
	}
	return store.DeleteEntityWithRelationships(entityId)
}

// LinkAccessory attaches an accessory to a house.
func (s *CatalogService) LinkAccessory(houseId, accessoryId string) error {

	if err := s.requireKind(houseId, model.KindHouse); err != nil {
		return err
	}
	if err := s.requireKind(accessoryId, model.KindAccessory); err != nil {
		return err
	}
	return store.InsertHouseAccessoryLink(model.HouseAccessoryLink{
		HouseID:     houseId,
		AccessoryID: accessoryId,
	})
}

// UnlinkAccessory detaches an accessory from a house.
func (s *CatalogService) UnlinkAccessory(houseId, accessoryId string) error {

	return store.DeleteHouseAccessoryLink(model.HouseAccessoryLink{
		HouseID:     houseId,
		AccessoryID: accessoryId,
	})
}

// WouldCollide reports whether a name is already taken within the given kind
// or by the opposite kind. Ingestion collaborators call this before creating
// records. The check is case- and whitespace-insensitive to mirror the store
// query; punctuation variants are left to the reconciler's folded grouping.
func (s *CatalogService) WouldCollide(name string, kind model.Kind) (*model.CollisionCheck, error) {

	counts, err := store.CountEntitiesByFoldedName(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return nil, err
	}

	check := &model.CollisionCheck{Name: name, Kind: kind}
	for existingKind, count := range counts {
		if count == 0 {
			continue
		}
		if existingKind == kind {
			check.SameKind = true
		} else {
			check.CrossKind = true
		}
	}
	return check, nil
}

// GetAllEntities exposes the full catalog in creation order.
func (s *CatalogService) GetAllEntities() ([]model.Entity, error) {

	return store.GetAllEntities()
}

// GetSnapshot reads a frozen view of the catalog for a reconciliation pass.
func (s *CatalogService) GetSnapshot() (*model.Snapshot, error) {

	return store.GetSnapshot()
}

// RepointRelationships moves relationship rows between entities on behalf of
// the reconciler.
func (s *CatalogService) RepointRelationships(fromId, toId string, kind model.Kind) (int, error) {

	return store.RepointRelationships(fromId, toId, kind)
}

// DeleteEntityWithRelationships removes an entity and its relationship rows.
func (s *CatalogService) DeleteEntityWithRelationships(entityId string) error {

	return store.DeleteEntityWithRelationships(entityId)
}

func (s *CatalogService) requireKind(entityId string, kind model.Kind) error {

	entity, err := store.GetEntityById(entityId)
	if err != nil {
		return err
	}
	if entity == nil {
		return entityNotFoundError(entityId)
	}
	if entity.Kind != kind {
		return errors.NewClientError(errors.ErrorMessage{
			Code:        errors.INVALID_ENTITY_KIND.Code,
			Message:     errors.INVALID_ENTITY_KIND.Message,
			Description: "Entity " + entityId + " is not a " + string(kind) + ".",
		}, http.StatusBadRequest)
	}
	return nil
}

func entityNotFoundError(entityId string) error {

	return errors.NewClientErrorWithReason(errors.ErrorMessage{
		Code:        errors.ENTITY_NOT_FOUND.Code,
		Message:     errors.ENTITY_NOT_FOUND.Message,
		Description: "No catalog entity exists with Id: " + entityId,
	}, http.StatusNotFound, errors.ReasonNotFound)
}
