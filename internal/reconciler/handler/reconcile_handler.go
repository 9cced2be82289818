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
	"github.com/villagekeep/village-catalog-service/internal/reconciler/service"
	"github.com/villagekeep/village-catalog-service/internal/system/authn"
	"github.com/villagekeep/village-catalog-service/internal/system/authz"
	"github.com/villagekeep/village-catalog-service/internal/system/config"
	"github.com/villagekeep/village-catalog-service/internal/system/log"
	"github.com/villagekeep/village-catalog-service/internal/system/utils"
)

// ReconcileHandler serves the /reconcile route.
type ReconcileHandler struct{}

// NewReconcileHandler creates a new instance of ReconcileHandler.
func NewReconcileHandler() *ReconcileHandler {

	return &ReconcileHandler{}
}

// Route dispatches requests under /reconcile. Reconciliation rewrites the
// catalog, so the caller must be a curator.
func (h *ReconcileHandler) Route(w http.ResponseWriter, r *http.Request) {

	path := strings.TrimSuffix(r.URL.Path, "/")
	if path != "/reconcile" || r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	caller, err := authn.CallerFromRequest(r)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	runtimeConfig := config.GetRuntime().Config
	curators := authz.NewCuratorChecker(runtimeConfig.Auth.Curators)
	if err := curators.EnsureCurator(caller); err != nil {
		utils.HandleError(w, err)
		return
	}

	reconcileService := service.NewReconcileService(
		catalogprovider.NewCatalogProvider().GetCatalogService(),
		runtimeConfig.Matching,
	)
	summary, err := reconcileService.Run()
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   caller,
		InitiatorType: log.InitiatorTypeAdmin,
		TargetType:    log.TargetTypeCatalog,
		ActionID:      log.ActionReconcileCatalog,
		Data:          summary,
	})
	utils.WriteJSONResponse(w, http.StatusOK, summary)
}
