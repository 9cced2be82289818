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

package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/villagekeep/village-catalog-service/internal/catalog/model"
	"github.com/villagekeep/village-catalog-service/internal/catalog/provider"
	"github.com/villagekeep/village-catalog-service/internal/system/errors"
	"github.com/villagekeep/village-catalog-service/internal/system/utils"
)

// CatalogHandler serves the /houses, /accessories and /catalog routes.
type CatalogHandler struct{}

// NewCatalogHandler creates a new instance of CatalogHandler.
func NewCatalogHandler() *CatalogHandler {

	return &CatalogHandler{}
}

// RouteHouses dispatches requests under /houses.
func (h *CatalogHandler) RouteHouses(w http.ResponseWriter, r *http.Request) {

	h.routeEntities(w, r, model.KindHouse, "/houses")
}

// RouteAccessories dispatches requests under /accessories.
func (h *CatalogHandler) RouteAccessories(w http.ResponseWriter, r *http.Request) {

	h.routeEntities(w, r, model.KindAccessory, "/accessories")
}

func (h *CatalogHandler) routeEntities(w http.ResponseWriter, r *http.Request, kind model.Kind, prefix string) {

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
	parts := []string{}
	if rest != "" {
		parts = strings.Split(rest, "/")
	}

	switch {
	case len(parts) == 0 && r.Method == http.MethodGet:
		h.listEntities(w, kind)
	case len(parts) == 0 && r.Method == http.MethodPost:
		h.createEntity(w, r, kind)
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.getEntity(w, parts[0])
	case len(parts) == 1 && r.Method == http.MethodDelete:
		h.deleteEntity(w, parts[0])
	case len(parts) == 3 && parts[1] == "accessories" && kind == model.KindHouse:
		h.handleLink(w, r, parts[0], parts[2])
	default:
		http.NotFound(w, r)
	}
}

// RouteCatalog dispatches requests under /catalog.
func (h *CatalogHandler) RouteCatalog(w http.ResponseWriter, r *http.Request) {

	path := strings.TrimSuffix(r.URL.Path, "/")
	if path == "/catalog/collisions" && r.Method == http.MethodGet {
		h.checkCollision(w, r)
		return
	}
	http.NotFound(w, r)
}

func (h *CatalogHandler) listEntities(w http.ResponseWriter, kind model.Kind) {

	catalogService := provider.NewCatalogProvider().GetCatalogService()
	entities, err := catalogService.ListEntities(kind)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, entities)
}

func (h *CatalogHandler) createEntity(w http.ResponseWriter, r *http.Request, kind model.Kind) {

	var entity model.Entity
	if err := json.NewDecoder(r.Body).Decode(&entity); err != nil {
		utils.WriteErrorResponse(w, errors.NewClientError(errors.ErrorMessage{
			Code:        errors.BAD_REQUEST.Code,
			Message:     errors.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "entity"),
		}, http.StatusBadRequest))
		return
	}
	entity.Kind = kind

	catalogService := provider.NewCatalogProvider().GetCatalogService()
	created, err := catalogService.CreateEntity(entity)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, created)
}

func (h *CatalogHandler) getEntity(w http.ResponseWriter, entityId string) {

	catalogService := provider.NewCatalogProvider().GetCatalogService()
	entity, err := catalogService.GetEntity(entityId)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, entity)
}

func (h *CatalogHandler) deleteEntity(w http.ResponseWriter, entityId string) {

	catalogService := provider.NewCatalogProvider().GetCatalogService()
	if err := catalogService.DeleteEntity(entityId); err != nil {
		utils.HandleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) handleLink(w http.ResponseWriter, r *http.Request, houseId, accessoryId string) {

	catalogService := provider.NewCatalogProvider().GetCatalogService()
	switch r.Method {
	case http.MethodPost:
		if err := catalogService.LinkAccessory(houseId, accessoryId); err != nil {
			utils.HandleError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
	case http.MethodDelete:
		if err := catalogService.UnlinkAccessory(houseId, accessoryId); err != nil {
			utils.HandleError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func (h *CatalogHandler) checkCollision(w http.ResponseWriter, r *http.Request) {

	name := r.URL.Query().Get("name")
	kind := r.URL.Query().Get("kind")
	if name == "" || !model.ValidKind(kind) {
		utils.WriteErrorResponse(w, errors.NewClientError(errors.ErrorMessage{
			Code:        errors.BAD_REQUEST.Code,
			Message:     errors.BAD_REQUEST.Message,
			Description: "Both name and a valid kind query parameter are required.",
		}, http.StatusBadRequest))
		return
	}

	catalogService := provider.NewCatalogProvider().GetCatalogService()
	check, err := catalogService.WouldCollide(name, model.Kind(kind))
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, check)
}
