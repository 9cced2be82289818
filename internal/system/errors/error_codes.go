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

package errors

const errorPrefix = "VC-"

// Machine-readable reason codes returned with moderation failures.
const (
	ReasonStaleEntity     = "stale_entity"
	ReasonNotFound        = "not_found"
	ReasonAlreadyTerminal = "already_terminal"
)

var (
	// Server error codes

	DB_CLIENT_INIT = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Unable to initialize database client.",
	}

	EXECUTE_QUERY = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Error while executing database query.",
	}

	CANDIDATE_POOL_INIT = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Unable to initialize candidate pool client.",
	}

	ADD_ENTITY = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Error while adding catalog entity.",
	}

	FETCH_ENTITY = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Error while fetching catalog entity.",
	}

	UPDATE_ENTITY = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "Error while updating catalog entity.",
	}

	DELETE_ENTITY = ErrorMessage{
		Code:    errorPrefix + "15007",
		Message: "Error while deleting catalog entity.",
	}

	FETCH_RELATIONSHIPS = ErrorMessage{
		Code:    errorPrefix + "15008",
		Message: "Error while fetching relationship records.",
	}

	REPOINT_RELATIONSHIP = ErrorMessage{
		Code:    errorPrefix + "15009",
		Message: "Error while re-pointing relationship record.",
	}

	FETCH_CANDIDATES = ErrorMessage{
		Code:    errorPrefix + "15010",
		Message: "Error while fetching candidate records.",
	}

	ADD_CANDIDATE = ErrorMessage{
		Code:    errorPrefix + "15011",
		Message: "Error while adding candidate record.",
	}

	ADD_STAGED_CHANGE = ErrorMessage{
		Code:    errorPrefix + "15012",
		Message: "Error while staging proposed change.",
	}

	FETCH_STAGED_CHANGE = ErrorMessage{
		Code:    errorPrefix + "15013",
		Message: "Error while fetching staged change.",
	}

	APPLY_STAGED_CHANGE = ErrorMessage{
		Code:    errorPrefix + "15014",
		Message: "Error while applying staged change.",
	}

	WRITE_AUDIT_RECORD = ErrorMessage{
		Code:    errorPrefix + "15015",
		Message: "Error while writing audit record.",
	}

	RECONCILE_CATALOG = ErrorMessage{
		Code:    errorPrefix + "15016",
		Message: "Error while reconciling catalog duplicates.",
	}

	PARSING_ERROR = ErrorMessage{
		Code:    errorPrefix + "15017",
		Message: "Error while parsing token claims.",
	}

	// Client error codes

	BAD_REQUEST = ErrorMessage{
		Code:    errorPrefix + "11001",
		Message: "Invalid request payload.",
	}

	UN_AUTHORIZED = ErrorMessage{
		Code:        errorPrefix + "11002",
		Message:     "Unauthorized.",
		Description: "The request is missing a valid credential.",
	}

	FORBIDDEN = ErrorMessage{
		Code:        errorPrefix + "11003",
		Message:     "Forbidden.",
		Description: "The caller is not on the curator allow-list.",
	}

	ENTITY_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "11004",
		Message: "Catalog entity not found.",
	}

	STAGED_CHANGE_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "11005",
		Message: "Staged change not found.",
	}

	STAGED_CHANGE_TERMINAL = ErrorMessage{
		Code:    errorPrefix + "11006",
		Message: "Staged change already reached a terminal state.",
	}

	STAGED_CHANGE_STALE = ErrorMessage{
		Code:    errorPrefix + "11007",
		Message: "Staged change is stale.",
		Description: "The target entity changed since the proposal was generated; " +
			"the change was routed to needs_review.",
	}

	UNDO_NOT_APPROVED = ErrorMessage{
		Code:    errorPrefix + "11008",
		Message: "Only approved changes can be undone.",
	}

	ENTITY_NAME_REQUIRED = ErrorMessage{
		Code:    errorPrefix + "11009",
		Message: "Entity name is required.",
	}

	ENTITY_NAME_COLLISION = ErrorMessage{
		Code:    errorPrefix + "11010",
		Message: "Entity name collides with an existing record.",
	}

	INVALID_ENTITY_KIND = ErrorMessage{
		Code:    errorPrefix + "11011",
		Message: "Invalid entity kind.",
	}
)
