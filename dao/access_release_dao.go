// dao/access_release_dao.go
package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/gatewise/gatewise/audit"
	gw_errors "github.com/gatewise/gatewise/errors"
	logger "github.com/gatewise/gatewise/logging"
	"github.com/gatewise/gatewise/model"
	helper_util "github.com/gatewise/gatewise/util/helper"
)

type AccessReleaseDAO struct {
	Driver       neo4j.Driver
	AuditService audit.Service
}

func NewAccessReleaseDAO(driver neo4j.Driver, auditService audit.Service) *AccessReleaseDAO {
	dao := &AccessReleaseDAO{Driver: driver, AuditService: auditService}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint for AccessRelease", zap.Error(err))
	}
	return dao
}

func (dao *AccessReleaseDAO) EnsureUniqueConstraint(ctx context.Context) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_access_release_id IF NOT EXISTS
        FOR (r:AccessRelease) REQUIRE r.id IS UNIQUE
        `
		_, err := transaction.Run(query, nil)
		return nil, err
	})

	if err != nil {
		logger.Error("Failed to ensure unique constraint on AccessRelease ID", zap.Error(err))
		return err
	}

	return nil
}

// CreateAccessRelease persists a new release. Synchronization outcomes are
// appended separately once the equipment fan-out settles.
func (dao *AccessReleaseDAO) CreateAccessRelease(ctx context.Context, release model.AccessRelease) (string, error) {
	start := time.Now()
	logger.Info("Creating access release",
		zap.String("tenantID", release.TenantID),
		zap.String("personID", release.PersonID))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if release.ID == "" {
		release.ID = uuid.New().String()
	}

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MERGE (r:AccessRelease {id: $id})
        ON CREATE SET r += $props
        RETURN r.id as id
        `

		actionsJSON, _ := json.Marshal(release.Actions)

		props := map[string]interface{}{
			"tenantId":             release.TenantID,
			"personId":             release.PersonID,
			"personTypeId":         release.PersonTypeID,
			"personTypeCategoryId": release.PersonTypeCategoryID,
			"responsibleId":        release.ResponsibleID,
			"type":                 string(release.Type),
			"observation":          release.Observation,
			"picture":              release.Picture,
			"accessPointId":        release.AccessPointID,
			"areaIds":              release.AreaIDs,
			"singleAccess":         release.SingleAccess,
			"initDate":             helper_util.FormatTime(release.InitDate),
			"endDate":              helper_util.FormatTime(release.EndDate),
			"status":               string(release.Status),
			"actions":              string(actionsJSON),
			"createdAt":            helper_util.FormatTime(time.Now()),
			"updatedAt":            helper_util.FormatTime(time.Now()),
		}
		if release.ExpiringTime != nil {
			props["expiringValue"] = release.ExpiringTime.Value
			props["expiringUnit"] = string(release.ExpiringTime.Unit)
		}
		if len(release.WorkSchedules) > 0 {
			schedulesJSON, _ := json.Marshal(release.WorkSchedules)
			props["workSchedules"] = string(schedulesJSON)
		}

		result, err := transaction.Run(query, map[string]interface{}{
			"id":    release.ID,
			"props": props,
		})
		if err != nil {
			return nil, gw_errors.ErrDatabaseOperation
		}

		if result.Next() {
			return result.Record().Values[0], nil
		}

		return nil, gw_errors.ErrInternalServer
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to create access release",
			zap.Error(err),
			zap.String("personID", release.PersonID),
			zap.Duration("duration", duration))
		return "", err
	}

	releaseID := fmt.Sprintf("%v", result)
	logger.Info("Access release created successfully",
		zap.String("accessReleaseID", releaseID),
		zap.Duration("duration", duration))

	dao.recordAudit(ctx, audit.AuditLog{
		Timestamp:  time.Now(),
		TenantID:   release.TenantID,
		UserID:     release.ResponsibleID,
		Action:     audit.ActionCreateAccessRelease,
		ResourceID: releaseID,
	})

	return releaseID, nil
}

// GetAccessRelease loads one release with its synchronization records,
// scoped by tenant.
func (dao *AccessReleaseDAO) GetAccessRelease(ctx context.Context, id, tenantID string) (*model.AccessRelease, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := `
    MATCH (r:AccessRelease {id: $id, tenantId: $tenantId})
    OPTIONAL MATCH (r)-[:SYNCED_TO]->(s:SyncEntry)
    WITH r, s ORDER BY s.createdAt
    RETURN r, collect(s) as syncs
    `
	result, err := session.Run(query, map[string]interface{}{
		"id":       id,
		"tenantId": tenantID,
	})
	if err != nil {
		logger.Error("Failed to execute get access release query",
			zap.Error(err),
			zap.String("accessReleaseID", id))
		return nil, gw_errors.ErrDatabaseOperation
	}

	if result.Next() {
		record := result.Record()
		node := record.Values[0].(neo4j.Node)
		release, err := mapNodeToAccessRelease(node)
		if err != nil {
			logger.Error("Failed to map access release node to struct",
				zap.Error(err),
				zap.String("accessReleaseID", id))
			return nil, gw_errors.ErrInternalServer
		}
		release.Synchronizations = mapSyncEntries(record.Values[1])
		return release, nil
	}

	return nil, gw_errors.ErrAccessReleaseNotFound
}

// ListAccessReleases returns releases matching the criteria, newest first.
func (dao *AccessReleaseDAO) ListAccessReleases(ctx context.Context, criteria model.AccessReleaseSearchCriteria) ([]*model.AccessRelease, error) {
	start := time.Now()
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := `
    MATCH (r:AccessRelease {tenantId: $tenantId})
    WHERE ($personId = '' OR r.personId = $personId)
      AND ($personTypeId = '' OR r.personTypeId = $personTypeId)
      AND ($status = '' OR r.status = $status)
    RETURN r
    ORDER BY r.createdAt DESC
    SKIP $offset
    LIMIT $limit
    `
	limit := criteria.Limit
	if limit <= 0 {
		limit = 10
	}
	result, err := session.Run(query, map[string]interface{}{
		"tenantId":     criteria.TenantID,
		"personId":     criteria.PersonID,
		"personTypeId": criteria.PersonTypeID,
		"status":       string(criteria.Status),
		"limit":        limit,
		"offset":       criteria.Offset,
	})
	if err != nil {
		logger.Error("Failed to execute list access releases query",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return nil, gw_errors.ErrDatabaseOperation
	}

	var releases []*model.AccessRelease
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		release, err := mapNodeToAccessRelease(node)
		if err != nil {
			return nil, gw_errors.ErrInternalServer
		}
		releases = append(releases, release)
	}

	logger.Debug("Access releases listed",
		zap.Int("count", len(releases)),
		zap.Duration("duration", time.Since(start)))

	return releases, nil
}

// FindLastByPersonID returns the most recently created release of a person,
// or ErrAccessReleaseNotFound if the person has none.
func (dao *AccessReleaseDAO) FindLastByPersonID(ctx context.Context, personID, tenantID string) (*model.AccessRelease, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := `
    MATCH (r:AccessRelease {tenantId: $tenantId, personId: $personId})
    OPTIONAL MATCH (r)-[:SYNCED_TO]->(s:SyncEntry)
    WITH r, s ORDER BY s.createdAt
    WITH r, collect(s) as syncs
    RETURN r, syncs
    ORDER BY r.createdAt DESC
    LIMIT 1
    `
	result, err := session.Run(query, map[string]interface{}{
		"tenantId": tenantID,
		"personId": personID,
	})
	if err != nil {
		return nil, gw_errors.ErrDatabaseOperation
	}

	if result.Next() {
		record := result.Record()
		node := record.Values[0].(neo4j.Node)
		release, err := mapNodeToAccessRelease(node)
		if err != nil {
			return nil, gw_errors.ErrInternalServer
		}
		release.Synchronizations = mapSyncEntries(record.Values[1])
		return release, nil
	}

	return nil, gw_errors.ErrAccessReleaseNotFound
}

// FindAllExpiringBy returns, across every tenant, the releases whose validity
// window ends at or before the given instant and whose status is not yet
// terminal. Used by the expiration sweeper.
func (dao *AccessReleaseDAO) FindAllExpiringBy(ctx context.Context, deadline time.Time) ([]*model.AccessRelease, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := `
    MATCH (r:AccessRelease)
    WHERE r.endDate <= $deadline AND NOT r.status IN ['expired', 'disabled']
    OPTIONAL MATCH (r)-[:SYNCED_TO]->(s:SyncEntry)
    WITH r, s ORDER BY s.createdAt
    RETURN r, collect(s) as syncs
    `
	result, err := session.Run(query, map[string]interface{}{
		"deadline": helper_util.FormatTime(deadline),
	})
	if err != nil {
		logger.Error("Failed to execute expiring releases query", zap.Error(err))
		return nil, gw_errors.ErrDatabaseOperation
	}

	var releases []*model.AccessRelease
	for result.Next() {
		record := result.Record()
		node := record.Values[0].(neo4j.Node)
		release, err := mapNodeToAccessRelease(node)
		if err != nil {
			return nil, gw_errors.ErrInternalServer
		}
		release.Synchronizations = mapSyncEntries(record.Values[1])
		releases = append(releases, release)
	}

	return releases, nil
}

// FindAllActiveByPersonTypeIDs pages through the currently active releases of
// the given person types. Used by the bulk synchronization job.
func (dao *AccessReleaseDAO) FindAllActiveByPersonTypeIDs(ctx context.Context, personTypeIDs []string, tenantID string, limit, offset int) ([]*model.AccessRelease, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := `
    MATCH (r:AccessRelease {tenantId: $tenantId})
    WHERE r.personTypeId IN $personTypeIds AND r.status = 'active'
    RETURN r
    ORDER BY r.createdAt
    SKIP $offset
    LIMIT $limit
    `
	result, err := session.Run(query, map[string]interface{}{
		"tenantId":      tenantID,
		"personTypeIds": personTypeIDs,
		"limit":         limit,
		"offset":        offset,
	})
	if err != nil {
		return nil, gw_errors.ErrDatabaseOperation
	}

	var releases []*model.AccessRelease
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		release, err := mapNodeToAccessRelease(node)
		if err != nil {
			return nil, gw_errors.ErrInternalServer
		}
		releases = append(releases, release)
	}

	return releases, nil
}

// CountActiveByPersonTypeIDs counts what FindAllActiveByPersonTypeIDs would
// return in total. Computed up front so job progress has a stable total.
func (dao *AccessReleaseDAO) CountActiveByPersonTypeIDs(ctx context.Context, personTypeIDs []string, tenantID string) (int, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := `
    MATCH (r:AccessRelease {tenantId: $tenantId})
    WHERE r.personTypeId IN $personTypeIds AND r.status = 'active'
    RETURN count(r) as total
    `
	result, err := session.Run(query, map[string]interface{}{
		"tenantId":      tenantID,
		"personTypeIds": personTypeIDs,
	})
	if err != nil {
		return 0, gw_errors.ErrDatabaseOperation
	}

	if result.Next() {
		return int(result.Record().Values[0].(int64)), nil
	}

	return 0, gw_errors.ErrDatabaseOperation
}

// AppendSynchronizations appends one set of per-equipment outcome records to
// a release. Entries are separate nodes, so earlier passes are never mutated.
func (dao *AccessReleaseDAO) AppendSynchronizations(ctx context.Context, id, tenantID string, records []model.SyncRecord) error {
	if len(records) == 0 {
		return nil
	}

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	entries := make([]map[string]interface{}, len(records))
	for i, rec := range records {
		entries[i] = map[string]interface{}{
			"equipmentId": rec.EquipmentID,
			"equipmentIp": rec.EquipmentIP,
			"operation":   string(rec.Operation),
			"failed":      rec.Failed,
			"message":     rec.Message,
			"createdAt":   helper_util.FormatTimeNano(time.Now().Add(time.Duration(i) * time.Microsecond)),
		}
	}

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (r:AccessRelease {id: $id, tenantId: $tenantId})
        UNWIND $entries as entry
        CREATE (r)-[:SYNCED_TO]->(s:SyncEntry)
        SET s = entry
        `
		result, err := transaction.Run(query, map[string]interface{}{
			"id":       id,
			"tenantId": tenantID,
			"entries":  entries,
		})
		if err != nil {
			return nil, gw_errors.ErrDatabaseOperation
		}

		summary, err := result.Consume()
		if err != nil {
			return nil, gw_errors.ErrDatabaseOperation
		}
		if summary.Counters().NodesCreated() == 0 {
			return nil, gw_errors.ErrAccessReleaseNotFound
		}

		return nil, nil
	})

	if err != nil {
		logger.Error("Failed to append synchronization records",
			zap.Error(err),
			zap.String("accessReleaseID", id),
			zap.Int("records", len(records)))
		return err
	}

	return nil
}

// TransitionStatus conditionally moves a release to the given status and
// replaces its action trail with the caller-extended one. The update only
// matches when the release is still in a non-terminal state; a zero-modified
// result reports ErrNoDocumentsModified so concurrent transitions surface
// instead of double-applying, and an expired release can never be re-disabled
// (or the reverse).
func (dao *AccessReleaseDAO) TransitionStatus(ctx context.Context, id, tenantID string, status model.AccessReleaseStatus, actions []model.Action) error {
	start := time.Now()
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	actionsJSON, _ := json.Marshal(actions)

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (r:AccessRelease {id: $id, tenantId: $tenantId})
        WHERE NOT r.status IN ['expired', 'disabled']
        SET r.status = $status,
            r.actions = $actions,
            r.updatedAt = $now
        RETURN r.id
        `
		result, err := transaction.Run(query, map[string]interface{}{
			"id":       id,
			"tenantId": tenantID,
			"status":   string(status),
			"actions":  string(actionsJSON),
			"now":      helper_util.FormatTime(time.Now()),
		})
		if err != nil {
			return nil, gw_errors.ErrDatabaseOperation
		}

		summary, err := result.Consume()
		if err != nil {
			return nil, gw_errors.ErrDatabaseOperation
		}
		if summary.Counters().PropertiesSet() == 0 {
			return nil, gw_errors.ErrNoDocumentsModified
		}

		return nil, nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to transition access release status",
			zap.Error(err),
			zap.String("accessReleaseID", id),
			zap.String("status", string(status)),
			zap.Duration("duration", duration))
		return err
	}

	logger.Info("Access release status transitioned",
		zap.String("accessReleaseID", id),
		zap.String("status", string(status)),
		zap.Duration("duration", duration))

	auditAction := audit.ActionDisableAccessRelease
	if status == model.StatusExpired {
		auditAction = audit.ActionExpireAccessRelease
	}
	var userID string
	if len(actions) > 0 {
		userID = actions[len(actions)-1].UserID
	}
	dao.recordAudit(ctx, audit.AuditLog{
		Timestamp:  time.Now(),
		TenantID:   tenantID,
		UserID:     userID,
		Action:     auditAction,
		ResourceID: id,
	})

	return nil
}

// FindGrantedEquipmentForPerson returns the distinct equipment that ever
// received a successful grant for the person within the tenant. Disabling a
// release revokes access on all of them. Revocation entries share the
// SyncEntry shape, hence the operation filter.
func (dao *AccessReleaseDAO) FindGrantedEquipmentForPerson(ctx context.Context, personID, tenantID string) ([]model.SyncRecord, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := `
    MATCH (r:AccessRelease {tenantId: $tenantId, personId: $personId})-[:SYNCED_TO]->(s:SyncEntry)
    WHERE s.failed = false AND s.operation = 'grant'
    RETURN DISTINCT s.equipmentId, s.equipmentIp
    `
	result, err := session.Run(query, map[string]interface{}{
		"tenantId": tenantID,
		"personId": personID,
	})
	if err != nil {
		return nil, gw_errors.ErrDatabaseOperation
	}

	var granted []model.SyncRecord
	for result.Next() {
		record := result.Record()
		granted = append(granted, model.SyncRecord{
			EquipmentID: record.Values[0].(string),
			EquipmentIP: record.Values[1].(string),
			Operation:   model.OperationGrant,
		})
	}

	return granted, nil
}

func (dao *AccessReleaseDAO) recordAudit(ctx context.Context, log audit.AuditLog) {
	if err := dao.AuditService.Record(ctx, log); err != nil {
		logger.Error("Failed to create audit log", zap.Error(err))
	}
}

// Helper function to map a Neo4j node to an AccessRelease struct
func mapNodeToAccessRelease(node neo4j.Node) (*model.AccessRelease, error) {
	props := node.Props
	release := &model.AccessRelease{}

	release.ID = props["id"].(string)
	release.TenantID = props["tenantId"].(string)
	release.PersonID = props["personId"].(string)
	release.PersonTypeID = props["personTypeId"].(string)
	release.PersonTypeCategoryID, _ = props["personTypeCategoryId"].(string)
	release.ResponsibleID, _ = props["responsibleId"].(string)
	release.Type = model.AccessReleaseType(props["type"].(string))
	release.Observation, _ = props["observation"].(string)
	release.Picture, _ = props["picture"].(string)
	release.AccessPointID = props["accessPointId"].(string)
	release.AreaIDs = toStringSlice(props["areaIds"])
	release.SingleAccess, _ = props["singleAccess"].(bool)
	release.Status = model.AccessReleaseStatus(props["status"].(string))

	if value, ok := props["expiringValue"].(int64); ok {
		unit, _ := props["expiringUnit"].(string)
		release.ExpiringTime = &model.ExpiringTime{Value: int(value), Unit: model.ExpiringUnit(unit)}
	}

	actionsJSON, _ := props["actions"].(string)
	if actionsJSON != "" {
		if err := json.Unmarshal([]byte(actionsJSON), &release.Actions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal access release actions: %w", err)
		}
	}

	if schedulesJSON, ok := props["workSchedules"].(string); ok && schedulesJSON != "" {
		if err := json.Unmarshal([]byte(schedulesJSON), &release.WorkSchedules); err != nil {
			return nil, fmt.Errorf("failed to unmarshal access release work schedules: %w", err)
		}
	}

	var err error
	if release.InitDate, err = helper_util.ParseTime(props["initDate"].(string)); err != nil {
		return nil, fmt.Errorf("failed to parse initDate: %w", err)
	}
	if release.EndDate, err = helper_util.ParseTime(props["endDate"].(string)); err != nil {
		return nil, fmt.Errorf("failed to parse endDate: %w", err)
	}
	release.CreatedAt, _ = helper_util.ParseTime(props["createdAt"].(string))
	release.UpdatedAt, _ = helper_util.ParseTime(props["updatedAt"].(string))

	return release, nil
}

func mapSyncEntries(value interface{}) []model.SyncRecord {
	nodes, ok := value.([]interface{})
	if !ok {
		return nil
	}

	var records []model.SyncRecord
	for _, n := range nodes {
		node, ok := n.(neo4j.Node)
		if !ok {
			continue
		}
		props := node.Props
		rec := model.SyncRecord{}
		rec.EquipmentID, _ = props["equipmentId"].(string)
		rec.EquipmentIP, _ = props["equipmentIp"].(string)
		if op, ok := props["operation"].(string); ok {
			rec.Operation = model.SyncOperation(op)
		}
		rec.Failed, _ = props["failed"].(bool)
		rec.Message, _ = props["message"].(string)
		records = append(records, rec)
	}

	return records
}

func toStringSlice(value interface{}) []string {
	items, ok := value.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
