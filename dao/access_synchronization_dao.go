// dao/access_synchronization_dao.go
package dao

import (
	"context"
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

type AccessSynchronizationDAO struct {
	Driver       neo4j.Driver
	AuditService audit.Service
}

func NewAccessSynchronizationDAO(driver neo4j.Driver, auditService audit.Service) *AccessSynchronizationDAO {
	dao := &AccessSynchronizationDAO{Driver: driver, AuditService: auditService}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint for AccessSynchronization", zap.Error(err))
	}
	return dao
}

func (dao *AccessSynchronizationDAO) EnsureUniqueConstraint(ctx context.Context) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_access_synchronization_id IF NOT EXISTS
        FOR (s:AccessSynchronization) REQUIRE s.id IS UNIQUE
        `
		_, err := transaction.Run(query, nil)
		return nil, err
	})

	if err != nil {
		logger.Error("Failed to ensure unique constraint on AccessSynchronization ID", zap.Error(err))
		return err
	}

	return nil
}

// CreateSynchronization persists a new job record with its total computed up
// front and finished = false.
func (dao *AccessSynchronizationDAO) CreateSynchronization(ctx context.Context, sync model.AccessSynchronization) (string, error) {
	start := time.Now()
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if sync.ID == "" {
		sync.ID = uuid.New().String()
	}

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MERGE (s:AccessSynchronization {id: $id})
        ON CREATE SET s += $props
        RETURN s.id as id
        `
		result, err := transaction.Run(query, map[string]interface{}{
			"id": sync.ID,
			"props": map[string]interface{}{
				"tenantId":      sync.TenantID,
				"personTypeIds": sync.PersonTypeIDs,
				"equipmentId":   sync.EquipmentID,
				"totalDocs":     sync.TotalDocs,
				"executedCount": sync.ExecutedCount,
				"finished":      sync.Finished,
				"startDate":     helper_util.FormatTime(sync.StartDate),
			},
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
		logger.Error("Failed to create access synchronization",
			zap.Error(err),
			zap.String("equipmentID", sync.EquipmentID),
			zap.Duration("duration", duration))
		return "", err
	}

	syncID := fmt.Sprintf("%v", result)
	logger.Info("Access synchronization created",
		zap.String("synchronizationID", syncID),
		zap.Int("totalDocs", sync.TotalDocs),
		zap.Duration("duration", duration))

	if err := dao.AuditService.Record(ctx, audit.AuditLog{
		Timestamp:  time.Now(),
		TenantID:   sync.TenantID,
		Action:     audit.ActionStartSynchronization,
		ResourceID: syncID,
	}); err != nil {
		logger.Error("Failed to create audit log", zap.Error(err))
	}

	return syncID, nil
}

// GetSynchronization loads one job record with its accumulated errors.
func (dao *AccessSynchronizationDAO) GetSynchronization(ctx context.Context, id, tenantID string) (*model.AccessSynchronization, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := `
    MATCH (s:AccessSynchronization {id: $id, tenantId: $tenantId})
    OPTIONAL MATCH (s)-[:FAILED_ON]->(e:SyncError)
    WITH s, e ORDER BY e.createdAt
    RETURN s, collect(e) as errors
    `
	result, err := session.Run(query, map[string]interface{}{
		"id":       id,
		"tenantId": tenantID,
	})
	if err != nil {
		return nil, gw_errors.ErrDatabaseOperation
	}

	if result.Next() {
		record := result.Record()
		node := record.Values[0].(neo4j.Node)
		sync, err := mapNodeToSynchronization(node)
		if err != nil {
			logger.Error("Failed to map synchronization node to struct",
				zap.Error(err),
				zap.String("synchronizationID", id))
			return nil, gw_errors.ErrInternalServer
		}
		sync.SyncErrors = mapSyncErrors(record.Values[1])
		return sync, nil
	}

	return nil, gw_errors.ErrSynchronizationNotFound
}

// IncrementExecuted atomically advances the progress counter by n.
func (dao *AccessSynchronizationDAO) IncrementExecuted(ctx context.Context, id, tenantID string, n int) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (s:AccessSynchronization {id: $id, tenantId: $tenantId})
        SET s.executedCount = s.executedCount + $n
        RETURN s.executedCount
        `
		result, err := transaction.Run(query, map[string]interface{}{
			"id":       id,
			"tenantId": tenantID,
			"n":        n,
		})
		if err != nil {
			return nil, gw_errors.ErrDatabaseOperation
		}

		if result.Next() {
			return result.Record().Values[0], nil
		}

		return nil, gw_errors.ErrSynchronizationNotFound
	})

	if err != nil {
		logger.Error("Failed to increment executed count",
			zap.Error(err),
			zap.String("synchronizationID", id),
			zap.Int("n", n))
	}

	return err
}

// AppendSyncErrors appends per-item failures to the job record. Errors are
// separate nodes, append-only by construction.
func (dao *AccessSynchronizationDAO) AppendSyncErrors(ctx context.Context, id, tenantID string, syncErrors []model.SyncError) error {
	if len(syncErrors) == 0 {
		return nil
	}

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	entries := make([]map[string]interface{}, len(syncErrors))
	for i, se := range syncErrors {
		entries[i] = map[string]interface{}{
			"equipmentId": se.EquipmentID,
			"equipmentIp": se.EquipmentIP,
			"message":     se.Message,
			"createdAt":   helper_util.FormatTimeNano(time.Now().Add(time.Duration(i) * time.Microsecond)),
		}
	}

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (s:AccessSynchronization {id: $id, tenantId: $tenantId})
        UNWIND $entries as entry
        CREATE (s)-[:FAILED_ON]->(e:SyncError)
        SET e = entry
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
			return nil, gw_errors.ErrSynchronizationNotFound
		}

		return nil, nil
	})

	if err != nil {
		logger.Error("Failed to append sync errors",
			zap.Error(err),
			zap.String("synchronizationID", id),
			zap.Int("errors", len(syncErrors)))
	}

	return err
}

// FinishSynchronization marks the job finished and stamps its end date. The
// conditional match guarantees finished is set exactly once.
func (dao *AccessSynchronizationDAO) FinishSynchronization(ctx context.Context, id, tenantID string, endDate time.Time) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (s:AccessSynchronization {id: $id, tenantId: $tenantId})
        WHERE s.finished = false
        SET s.finished = true, s.endDate = $endDate
        RETURN s.id
        `
		result, err := transaction.Run(query, map[string]interface{}{
			"id":       id,
			"tenantId": tenantID,
			"endDate":  helper_util.FormatTime(endDate),
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

	if err != nil {
		logger.Error("Failed to finish synchronization",
			zap.Error(err),
			zap.String("synchronizationID", id))
		return err
	}

	logger.Info("Access synchronization finished", zap.String("synchronizationID", id))
	return nil
}

// Helper function to map a Neo4j node to an AccessSynchronization struct
func mapNodeToSynchronization(node neo4j.Node) (*model.AccessSynchronization, error) {
	props := node.Props
	sync := &model.AccessSynchronization{}

	sync.ID = props["id"].(string)
	sync.TenantID = props["tenantId"].(string)
	sync.PersonTypeIDs = toStringSlice(props["personTypeIds"])
	sync.EquipmentID = props["equipmentId"].(string)
	if total, ok := props["totalDocs"].(int64); ok {
		sync.TotalDocs = int(total)
	}
	if executed, ok := props["executedCount"].(int64); ok {
		sync.ExecutedCount = int(executed)
	}
	sync.Finished, _ = props["finished"].(bool)

	var err error
	if sync.StartDate, err = helper_util.ParseTime(props["startDate"].(string)); err != nil {
		return nil, fmt.Errorf("failed to parse startDate: %w", err)
	}
	if endDate, ok := props["endDate"].(string); ok {
		t, err := helper_util.ParseTime(endDate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse endDate: %w", err)
		}
		sync.EndDate = &t
	}

	return sync, nil
}

func mapSyncErrors(value interface{}) []model.SyncError {
	nodes, ok := value.([]interface{})
	if !ok {
		return nil
	}

	var errors []model.SyncError
	for _, n := range nodes {
		node, ok := n.(neo4j.Node)
		if !ok {
			continue
		}
		props := node.Props
		se := model.SyncError{}
		se.EquipmentID, _ = props["equipmentId"].(string)
		se.EquipmentIP, _ = props["equipmentIp"].(string)
		se.Message, _ = props["message"].(string)
		errors = append(errors, se)
	}

	return errors
}
