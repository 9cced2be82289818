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

package provider

import "github.com/villagekeep/village-catalog-service/internal/catalog/service"

// CatalogProviderInterface exposes the catalog service.
type CatalogProviderInterface interface {
	GetCatalogService() service.CatalogServiceInterface
}

// CatalogProvider is the default implementation of CatalogProviderInterface.
type CatalogProvider struct{}

// NewCatalogProvider creates a new instance of CatalogProvider.
func NewCatalogProvider() CatalogProviderInterface {

	return &CatalogProvider{}
}

// GetCatalogService returns the catalog service implementation.
func (p *CatalogProvider) GetCatalogService() service.CatalogServiceInterface {

	return service.GetCatalogService()
}
