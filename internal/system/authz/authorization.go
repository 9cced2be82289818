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

package authz

import (
	"net/http"
	"strings"

	errors2 "github.com/villagekeep/village-catalog-service/internal/system/errors"
)

// CuratorChecker answers whether a caller may moderate staged changes.
// The caller identity is always passed explicitly; nothing here reads
// ambient session state.
type CuratorChecker struct {
	allowed map[string]bool
}

// NewCuratorChecker builds a checker from the configured allow-list.
func NewCuratorChecker(curators []string) *CuratorChecker {

	allowed := make(map[string]bool, len(curators))
	for _, curator := range curators {
		allowed[strings.ToLower(strings.TrimSpace(curator))] = true
	}
	return &CuratorChecker{allowed: allowed}
}

// EnsureCurator returns a forbidden client error when the caller is not on
// the allow-list.
func (c *CuratorChecker) EnsureCurator(caller string) error {

	if c.allowed[strings.ToLower(strings.TrimSpace(caller))] {
		return nil
	}
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.FORBIDDEN.Code,
		Message:     errors2.FORBIDDEN.Message,
		Description: errors2.FORBIDDEN.Description,
	}, http.StatusForbidden)
}
