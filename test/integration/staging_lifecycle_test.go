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

package integration

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	catalogModel "github.com/villagekeep/village-catalog-service/internal/catalog/model"
	catalogStore "github.com/villagekeep/village-catalog-service/internal/catalog/store"
	stagingModel "github.com/villagekeep/village-catalog-service/internal/staging/model"
	stagingService "github.com/villagekeep/village-catalog-service/internal/staging/service"
	"github.com/villagekeep/village-catalog-service/internal/system/authz"
	"github.com/villagekeep/village-catalog-service/internal/system/errors"
)

func Test_StagedChangeLifecycle(t *testing.T) {

	svc := stagingService.GetStagingService(authz.NewCuratorChecker([]string{"curator"}))

	house := catalogModel.Entity{
		ID:        uuid.New().String(),
		Kind:      catalogModel.KindHouse,
		Name:      "A Stitch In Yule Time",
		Year:      1999,
		CreatedAt: time.Now().Unix(),
	}
	require.NoError(t, catalogStore.InsertEntity(house))

	var changeId string

	t.Run("ProposeStagedChange", func(t *testing.T) {

		proposed, created, err := svc.Propose(stagingModel.StagedChange{
			EntityID:    house.ID,
			CandidateID: uuid.New().String(),
			Source:      "retired-listing",
			Diff: stagingModel.Diff{
				catalogModel.FieldYear: {Old: "1999", New: "2003"},
				catalogModel.FieldSKU:  {Old: "", New: "56.55154", GapFill: true},
			},
			Confidence: 0.93,
			Priority:   "high",
		})
		require.NoError(t, err)
		require.True(t, created)
		require.Equal(t, stagingModel.StatusPending, proposed.Status)
		changeId = proposed.ID
	})

	t.Run("DuplicateProposalIsDropped", func(t *testing.T) {

		existing, created, err := svc.Propose(stagingModel.StagedChange{
			EntityID: house.ID,
			Diff: stagingModel.Diff{
				catalogModel.FieldYear: {Old: "1999", New: "2003"},
				catalogModel.FieldSKU:  {Old: "", New: "56.55154", GapFill: true},
			},
		})
		require.NoError(t, err)
		require.False(t, created)
		require.Equal(t, changeId, existing.ID)
	})

	t.Run("ApproveAppliesEnrichment", func(t *testing.T) {

		result, err := svc.Approve(changeId, "curator")
		require.NoError(t, err)
		require.Equal(t, stagingModel.StatusApproved, result.Outcome)

		entity, err := catalogStore.GetEntityById(house.ID)
		require.NoError(t, err)
		require.Equal(t, 2003, entity.Year)
		require.Equal(t, "56.55154", entity.SKU)
	})

	t.Run("ApproveTerminalChangeIsRejected", func(t *testing.T) {

		_, err := svc.Approve(changeId, "curator")
		require.Error(t, err)
		clientErr, ok := err.(*errors.ClientError)
		require.True(t, ok)
		require.Equal(t, errors.ReasonAlreadyTerminal, clientErr.Reason)
	})

	t.Run("UndoRestoresPriorValues", func(t *testing.T) {

		result, err := svc.Undo(changeId, "curator")
		require.NoError(t, err)
		require.Equal(t, stagingModel.StatusPending, result.Change.Status)
		require.Equal(t, "curator", result.Change.UndoneBy)

		entity, err := catalogStore.GetEntityById(house.ID)
		require.NoError(t, err)
		require.Equal(t, 1999, entity.Year)
		require.Equal(t, "", entity.SKU)
	})

	t.Run("AuditTrailRecordsEveryStep", func(t *testing.T) {

		records, err := svc.Audit(changeId)
		require.NoError(t, err)
		require.Len(t, records, 3)
		require.Equal(t, stagingModel.AuditActionProposed, records[0].Action)
		require.Equal(t, stagingModel.AuditActionApproved, records[1].Action)
		require.Equal(t, stagingModel.AuditActionUndone, records[2].Action)
	})
}

func Test_StaleApprovalIsParked(t *testing.T) {

	svc := stagingService.GetStagingService(authz.NewCuratorChecker([]string{"curator"}))

	house := catalogModel.Entity{
		ID:        uuid.New().String(),
		Kind:      catalogModel.KindHouse,
		Name:      "Crooked Fence Cottage",
		Year:      1997,
		CreatedAt: time.Now().Unix(),
	}
	require.NoError(t, catalogStore.InsertEntity(house))

	proposed, created, err := svc.Propose(stagingModel.StagedChange{
		EntityID: house.ID,
		Diff: stagingModel.Diff{
			catalogModel.FieldYear: {Old: "1997", New: "1998"},
		},
	})
	require.NoError(t, err)
	require.True(t, created)

	// Another curator approves a competing change first.
	competing, _, err := svc.Propose(stagingModel.StagedChange{
		EntityID: house.ID,
		Diff: stagingModel.Diff{
			catalogModel.FieldYear: {Old: "1997", New: "1999"},
		},
	})
	require.NoError(t, err)
	result, err := svc.Approve(competing.ID, "curator")
	require.NoError(t, err)
	require.Equal(t, stagingModel.StatusApproved, result.Outcome)

	// The original proposal no longer matches the live row and is parked.
	result, err = svc.Approve(proposed.ID, "curator")
	require.NoError(t, err)
	require.Equal(t, stagingModel.StatusNeedsReview, result.Outcome)
	require.Equal(t, errors.ReasonStaleEntity, result.Reason)

	entity, err := catalogStore.GetEntityById(house.ID)
	require.NoError(t, err)
	require.Equal(t, 1999, entity.Year)
}

func Test_ModerationRequiresCurator(t *testing.T) {

	svc := stagingService.GetStagingService(authz.NewCuratorChecker([]string{"curator"}))

	house := catalogModel.Entity{
		ID:        uuid.New().String(),
		Kind:      catalogModel.KindHouse,
		Name:      "Village Post Office",
		CreatedAt: time.Now().Unix(),
	}
	require.NoError(t, catalogStore.InsertEntity(house))

	proposed, _, err := svc.Propose(stagingModel.StagedChange{
		EntityID: house.ID,
		Diff: stagingModel.Diff{
			catalogModel.FieldYear: {Old: "", New: "2001", GapFill: true},
		},
	})
	require.NoError(t, err)

	_, err = svc.Approve(proposed.ID, "stranger")
	require.Error(t, err)
}
