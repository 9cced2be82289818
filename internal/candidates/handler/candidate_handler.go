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

	"github.com/villagekeep/village-catalog-service/internal/candidates/model"
	"github.com/villagekeep/village-catalog-service/internal/candidates/service"
	"github.com/villagekeep/village-catalog-service/internal/system/errors"
	"github.com/villagekeep/village-catalog-service/internal/system/utils"
)

// CandidateHandler serves the /candidates routes.
type CandidateHandler struct{}

// NewCandidateHandler creates a new instance of CandidateHandler.
func NewCandidateHandler() *CandidateHandler {

	return &CandidateHandler{}
}

// Route dispatches requests under /candidates.
func (h *CandidateHandler) Route(w http.ResponseWriter, r *http.Request) {

	path := strings.TrimSuffix(r.URL.Path, "/")
	if path != "/candidates" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.listCandidates(w, r)
	case http.MethodPost:
		h.ingest(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *CandidateHandler) listCandidates(w http.ResponseWriter, r *http.Request) {

	candidateService := service.GetCandidateService()
	candidates, err := candidateService.GetAllCandidates(r.Context())
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, candidates)
}

func (h *CandidateHandler) ingest(w http.ResponseWriter, r *http.Request) {

	var records []model.CandidateRecord
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		utils.WriteErrorResponse(w, errors.NewClientError(errors.ErrorMessage{
			Code:        errors.BAD_REQUEST.Code,
			Message:     errors.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "candidate batch"),
		}, http.StatusBadRequest))
		return
	}

	candidateService := service.GetCandidateService()
	report, err := candidateService.Ingest(r.Context(), records)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, report)
}
