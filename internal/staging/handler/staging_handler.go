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
	"net/http"
	"strings"

	catalogprovider "github.com/villagekeep/village-catalog-service/internal/catalog/provider"
	candidateservice "github.com/villagekeep/village-catalog-service/internal/candidates/service"
	scanservice "github.com/villagekeep/village-catalog-service/internal/scanner/service"
	"github.com/villagekeep/village-catalog-service/internal/staging/model"
	"github.com/villagekeep/village-catalog-service/internal/staging/provider"
	"github.com/villagekeep/village-catalog-service/internal/system/authn"
	"github.com/villagekeep/village-catalog-service/internal/system/config"
	"github.com/villagekeep/village-catalog-service/internal/system/utils"
)

// StagingHandler serves the /staged-changes routes.
type StagingHandler struct{}

// NewStagingHandler creates a new instance of StagingHandler.
func NewStagingHandler() *StagingHandler {

	return &StagingHandler{}
}

// Route dispatches requests under /staged-changes.
func (h *StagingHandler) Route(w http.ResponseWriter, r *http.Request) {

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/staged-changes"), "/")
	parts := []string{}
	if rest != "" {
		parts = strings.Split(rest, "/")
	}

	switch {
	case len(parts) == 0 && r.Method == http.MethodGet:
		h.listChanges(w, r)
	case len(parts) == 1 && parts[0] == "scan" && r.Method == http.MethodPost:
		h.triggerScan(w, r)
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.getChange(w, parts[0])
	case len(parts) == 2 && parts[1] == "audit" && r.Method == http.MethodGet:
		h.getAudit(w, parts[0])
	case len(parts) == 2 && r.Method == http.MethodPost:
		h.moderate(w, r, parts[0], parts[1])
	default:
		http.NotFound(w, r)
	}
}

func (h *StagingHandler) listChanges(w http.ResponseWriter, r *http.Request) {

	status := r.URL.Query().Get("status")
	if status == "" {
		status = model.StatusPending
	}

	stagingService := provider.NewStagingProvider().GetStagingService()
	changes, err := stagingService.List(status)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, changes)
}

func (h *StagingHandler) getChange(w http.ResponseWriter, changeId string) {

	stagingService := provider.NewStagingProvider().GetStagingService()
	change, err := stagingService.Get(changeId)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, change)
}

func (h *StagingHandler) getAudit(w http.ResponseWriter, changeId string) {

	stagingService := provider.NewStagingProvider().GetStagingService()
	records, err := stagingService.Audit(changeId)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, records)
}

func (h *StagingHandler) moderate(w http.ResponseWriter, r *http.Request, changeId, action string) {

	caller, err := authn.CallerFromRequest(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	stagingService := provider.NewStagingProvider().GetStagingService()
	switch action {
	case "approve":
		result, err := stagingService.Approve(changeId, caller)
		if err != nil {
			utils.HandleError(w, err)
			return
		}
		utils.WriteJSONResponse(w, http.StatusOK, result)
	case "reject":
		result, err := stagingService.Reject(changeId, caller)
		if err != nil {
			utils.HandleError(w, err)
			return
		}
		utils.WriteJSONResponse(w, http.StatusOK, result)
	case "undo":
		result, err := stagingService.Undo(changeId, caller)
		if err != nil {
			utils.HandleError(w, err)
			return
		}
		utils.WriteJSONResponse(w, http.StatusOK, result)
	default:
		http.NotFound(w, r)
	}
}

func (h *StagingHandler) triggerScan(w http.ResponseWriter, r *http.Request) {

	scanner := scanservice.NewScanService(
		catalogprovider.NewCatalogProvider().GetCatalogService(),
		candidateservice.GetCandidateService(),
		provider.NewStagingProvider().GetStagingService(),
		config.GetRuntime().Config.Matching,
	)
	report, err := scanner.Run(r.Context())
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, report)
}
