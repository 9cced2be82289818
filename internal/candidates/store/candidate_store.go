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

package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/villagekeep/village-catalog-service/internal/candidates/model"
	"github.com/villagekeep/village-catalog-service/internal/system/config"
	"github.com/villagekeep/village-catalog-service/internal/system/constants"
	"github.com/villagekeep/village-catalog-service/internal/system/database/provider"
	"github.com/villagekeep/village-catalog-service/internal/system/errors"
	"github.com/villagekeep/village-catalog-service/internal/system/log"
)

// InsertCandidate adds one record to the candidate pool.
func InsertCandidate(ctx context.Context, candidate model.CandidateRecord) error {

	database, err := provider.GetCandidatePoolDatabase()
	if err != nil {
		return poolError(errors.CANDIDATE_POOL_INIT, "Failed to connect to the candidate pool", err)
	}

	_, err = database.Collection(candidateCollection()).InsertOne(ctx, candidate)
	if err != nil {
		errorMsg := "Failed to insert candidate record: " + candidate.ID
		return poolError(errors.ADD_CANDIDATE, errorMsg, err)
	}
	return nil
}

// GetAllCandidates reads the whole candidate pool in insertion order.
func GetAllCandidates(ctx context.Context) ([]model.CandidateRecord, error) {

	database, err := provider.GetCandidatePoolDatabase()
	if err != nil {
		return nil, poolError(errors.CANDIDATE_POOL_INIT, "Failed to connect to the candidate pool", err)
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "candidate_id", Value: 1}})
	cursor, err := database.Collection(candidateCollection()).Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, poolError(errors.FETCH_CANDIDATES, "Failed to query the candidate pool", err)
	}
	defer cursor.Close(ctx)

	var candidates []model.CandidateRecord
	if err := cursor.All(ctx, &candidates); err != nil {
		return nil, poolError(errors.FETCH_CANDIDATES, "Failed to decode candidate records", err)
	}
	return candidates, nil
}

// GetCandidatesBySource reads the records one source contributed.
func GetCandidatesBySource(ctx context.Context, sourceIdentifier string) ([]model.CandidateRecord, error) {

	database, err := provider.GetCandidatePoolDatabase()
	if err != nil {
		return nil, poolError(errors.CANDIDATE_POOL_INIT, "Failed to connect to the candidate pool", err)
	}

	filter := bson.D{{Key: "source_identifier", Value: sourceIdentifier}}
	cursor, err := database.Collection(candidateCollection()).Find(ctx, filter)
	if err != nil {
		return nil, poolError(errors.FETCH_CANDIDATES, "Failed to query the candidate pool by source", err)
	}
	defer cursor.Close(ctx)

	var candidates []model.CandidateRecord
	if err := cursor.All(ctx, &candidates); err != nil {
		return nil, poolError(errors.FETCH_CANDIDATES, "Failed to decode candidate records", err)
	}
	return candidates, nil
}

func candidateCollection() string {

	if name := config.GetRuntime().Config.CandidatePool.Collection; name != "" {
		return name
	}
	return constants.CandidateCollection
}

func poolError(msg errors.ErrorMessage, description string, cause error) error {

	log.GetLogger().Debug(description, log.Error(cause))
	return errors.NewServerError(errors.ErrorMessage{
		Code:        msg.Code,
		Message:     msg.Message,
		Description: description,
	}, cause)
}
