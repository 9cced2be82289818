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

package scripts

const entityColumns = `entity_id, kind, name, sku, description, year, retired_year, purchased_year,
       price, collection, series, notes, primary_image_ref, parent_house_id, created_at`

var InsertEntity = map[string]string{
	"postgres": `INSERT INTO entities (` + entityColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
}

var GetEntityById = map[string]string{
	"postgres": `SELECT ` + entityColumns + ` FROM entities WHERE entity_id = $1`,
}

var GetEntitiesByKind = map[string]string{
	"postgres": `SELECT ` + entityColumns + ` FROM entities WHERE kind = $1 ORDER BY created_at, entity_id`,
}

var GetAllEntities = map[string]string{
	"postgres": `SELECT ` + entityColumns + ` FROM entities ORDER BY created_at, entity_id`,
}

var GetEntityByIdForUpdate = map[string]string{
	"postgres": `SELECT ` + entityColumns + ` FROM entities WHERE entity_id = $1 FOR UPDATE`,
}

var UpdateEntityEnrichment = map[string]string{
	"postgres": `UPDATE entities SET year = $2, retired_year = $3, sku = $4, description = $5,
        primary_image_ref = $6, collection = $7, price = $8 WHERE entity_id = $1`,
}

var DeleteEntity = map[string]string{
	"postgres": `DELETE FROM entities WHERE entity_id = $1`,
}

var CountEntitiesByFoldedName = map[string]string{
	"postgres": `SELECT kind, count(*) AS cnt FROM entities
        WHERE lower(btrim(name)) = $1 GROUP BY kind`,
}

var GetHouseAccessoryLinks = map[string]string{
	"postgres": `SELECT house_id, accessory_id FROM house_accessory_links ORDER BY house_id, accessory_id`,
}

var InsertHouseAccessoryLink = map[string]string{
	"postgres": `INSERT INTO house_accessory_links (house_id, accessory_id) VALUES ($1, $2)
        ON CONFLICT (house_id, accessory_id) DO NOTHING`,
}

var DeleteHouseAccessoryLink = map[string]string{
	"postgres": `DELETE FROM house_accessory_links WHERE house_id = $1 AND accessory_id = $2`,
}

var DeleteLinksForEntity = map[string]string{
	"postgres": `DELETE FROM house_accessory_links WHERE house_id = $1 OR accessory_id = $1`,
}

var RepointLinksFromHouse = map[string]string{
	"postgres": `UPDATE house_accessory_links SET house_id = $2
        WHERE house_id = $1 AND NOT EXISTS (
            SELECT 1 FROM house_accessory_links existing
            WHERE existing.house_id = $2 AND existing.accessory_id = house_accessory_links.accessory_id)`,
}

var RepointLinksFromAccessory = map[string]string{
	"postgres": `UPDATE house_accessory_links SET accessory_id = $2
        WHERE accessory_id = $1 AND NOT EXISTS (
            SELECT 1 FROM house_accessory_links existing
            WHERE existing.accessory_id = $2 AND existing.house_id = house_accessory_links.house_id)`,
}

var GetCollectionMemberships = map[string]string{
	"postgres": `SELECT entity_id, collection_name FROM collection_memberships ORDER BY entity_id, collection_name`,
}

var InsertCollectionMembership = map[string]string{
	"postgres": `INSERT INTO collection_memberships (entity_id, collection_name) VALUES ($1, $2)
        ON CONFLICT (entity_id, collection_name) DO NOTHING`,
}

var DeleteCollectionMembershipsForEntity = map[string]string{
	"postgres": `DELETE FROM collection_memberships WHERE entity_id = $1`,
}

var RepointCollectionMemberships = map[string]string{
	"postgres": `UPDATE collection_memberships SET entity_id = $2
        WHERE entity_id = $1 AND NOT EXISTS (
            SELECT 1 FROM collection_memberships existing
            WHERE existing.entity_id = $2 AND existing.collection_name = collection_memberships.collection_name)`,
}

var GetTagMemberships = map[string]string{
	"postgres": `SELECT entity_id, tag, source, confidence, reviewed FROM tag_memberships ORDER BY entity_id, tag`,
}

var InsertTagMembership = map[string]string{
	"postgres": `INSERT INTO tag_memberships (entity_id, tag, source, confidence, reviewed)
        VALUES ($1, $2, $3, $4, $5) ON CONFLICT (entity_id, tag) DO NOTHING`,
}

var DeleteTagMembershipsForEntity = map[string]string{
	"postgres": `DELETE FROM tag_memberships WHERE entity_id = $1`,
}

var RepointTagMemberships = map[string]string{
	"postgres": `UPDATE tag_memberships SET entity_id = $2
        WHERE entity_id = $1 AND NOT EXISTS (
            SELECT 1 FROM tag_memberships existing
            WHERE existing.entity_id = $2 AND existing.tag = tag_memberships.tag)`,
}

const stagedChangeColumns = `change_id, entity_id, candidate_id, source, diff, confidence, priority,
       status, created_at, reviewed_by, reviewed_at, undone_by, undone_at`

var InsertStagedChange = map[string]string{
	"postgres": `INSERT INTO staged_changes (` + stagedChangeColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
}

var GetStagedChangeById = map[string]string{
	"postgres": `SELECT ` + stagedChangeColumns + ` FROM staged_changes WHERE change_id = $1`,
}

var GetStagedChangesByStatus = map[string]string{
	"postgres": `SELECT ` + stagedChangeColumns + ` FROM staged_changes WHERE status = $1 ORDER BY created_at, change_id`,
}

var GetPendingStagedChangesForEntity = map[string]string{
	"postgres": `SELECT ` + stagedChangeColumns + ` FROM staged_changes
        WHERE entity_id = $1 AND status = 'pending' ORDER BY created_at, change_id`,
}

var UpdateStagedChangeStatus = map[string]string{
	"postgres": `UPDATE staged_changes SET status = $2, reviewed_by = $3, reviewed_at = $4 WHERE change_id = $1`,
}

var UpdateStagedChangeUndone = map[string]string{
	"postgres": `UPDATE staged_changes SET status = $2, undone_by = $3, undone_at = $4 WHERE change_id = $1`,
}

var InsertChangeAuditRecord = map[string]string{
	"postgres": `INSERT INTO staged_change_audit (audit_id, change_id, action, actor, detail, recorded_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
}

var GetAuditRecordsForChange = map[string]string{
	"postgres": `SELECT audit_id, change_id, action, actor, detail, recorded_at
        FROM staged_change_audit WHERE change_id = $1 ORDER BY seq`,
}
