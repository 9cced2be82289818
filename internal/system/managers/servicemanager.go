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

package managers

import (
	"net/http"
	"strings"

	cataloghandler "github.com/villagekeep/village-catalog-service/internal/catalog/handler"
	candidatehandler "github.com/villagekeep/village-catalog-service/internal/candidates/handler"
	healthhandler "github.com/villagekeep/village-catalog-service/internal/health_check/handler"
	reconcilehandler "github.com/villagekeep/village-catalog-service/internal/reconciler/handler"
	staginghandler "github.com/villagekeep/village-catalog-service/internal/staging/handler"
)

// ServiceManagerInterface registers the HTTP services on a multiplexer.
type ServiceManagerInterface interface {
	RegisterServices(apiBasePath string) error
}

// ServiceManager is the default implementation of ServiceManagerInterface.
type ServiceManager struct {
	mux *http.ServeMux
}

// NewServiceManager creates a new instance of ServiceManager.
func NewServiceManager(mux *http.ServeMux) ServiceManagerInterface {

	return &ServiceManager{
		mux: mux,
	}
}

// RegisterServices mounts every handler under the API base path.
func (sm *ServiceManager) RegisterServices(apiBasePath string) error {

	catalogHandler := cataloghandler.NewCatalogHandler()
	candidateHandler := candidatehandler.NewCandidateHandler()
	stagingHandler := staginghandler.NewStagingHandler()
	reconcileHandler := reconcilehandler.NewReconcileHandler()
	healthHandler := healthhandler.NewHealthHandler()

	sm.mux.Handle(apiBasePath+"/", http.StripPrefix(apiBasePath,
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := strings.TrimSuffix(r.URL.Path, "/")

			switch {
			case strings.HasPrefix(path, "/houses"):
				catalogHandler.RouteHouses(w, r)
			case strings.HasPrefix(path, "/accessories"):
				catalogHandler.RouteAccessories(w, r)
			case strings.HasPrefix(path, "/catalog"):
				catalogHandler.RouteCatalog(w, r)
			case strings.HasPrefix(path, "/candidates"):
				candidateHandler.Route(w, r)
			case strings.HasPrefix(path, "/staged-changes"):
				stagingHandler.Route(w, r)
			case strings.HasPrefix(path, "/reconcile"):
				reconcileHandler.Route(w, r)
			case path == "/health":
				healthHandler.HandleHealth(w, r)
			case path == "/ready":
				healthHandler.HandleReadiness(w, r)
			default:
				http.NotFound(w, r)
			}
		})))
	return nil
}
