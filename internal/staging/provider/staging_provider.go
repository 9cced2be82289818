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

import (
	"github.com/villagekeep/village-catalog-service/internal/staging/service"
	"github.com/villagekeep/village-catalog-service/internal/system/authz"
	"github.com/villagekeep/village-catalog-service/internal/system/config"
)

// StagingProviderInterface exposes the staging ledger service.
type StagingProviderInterface interface {
	GetStagingService() *service.StagingService
}

// StagingProvider is the default implementation of StagingProviderInterface.
type StagingProvider struct{}

// NewStagingProvider creates a new instance of StagingProvider.
func NewStagingProvider() StagingProviderInterface {

	return &StagingProvider{}
}

// GetStagingService returns a ledger service with the configured curator
// allow-list.
func (p *StagingProvider) GetStagingService() *service.StagingService {

	curators := authz.NewCuratorChecker(config.GetRuntime().Config.Auth.Curators)
	return service.GetStagingService(curators)
}
