// dao/equipment_dao.go
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

type EquipmentDAO struct {
	Driver       neo4j.Driver
	AuditService audit.Service
}

func NewEquipmentDAO(driver neo4j.Driver, auditService audit.Service) *EquipmentDAO {
	dao := &EquipmentDAO{Driver: driver, AuditService: auditService}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint for Equipment", zap.Error(err))
	}
	return dao
}

func (dao *EquipmentDAO) EnsureUniqueConstraint(ctx context.Context) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_equipment_id IF NOT EXISTS
        FOR (e:Equipment) REQUIRE e.id IS UNIQUE
        `
		_, err := transaction.Run(query, nil)
		return nil, err
	})

	if err != nil {
		logger.Error("Failed to ensure unique constraint on Equipment ID", zap.Error(err))
		return err
	}

	return nil
}

func (dao *EquipmentDAO) CreateEquipment(ctx context.Context, eq model.Equipment) (string, error) {
	start := time.Now()
	logger.Info("Creating equipment", zap.String("name", eq.Name), zap.String("ip", eq.IP))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if eq.ID == "" {
		eq.ID = uuid.New().String()
	}

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MERGE (e:Equipment {id: $id})
        ON CREATE SET e += $props
        RETURN e.id as id
        `
		result, err := transaction.Run(query, map[string]interface{}{
			"id": eq.ID,
			"props": map[string]interface{}{
				"tenantId":     eq.TenantID,
				"name":         eq.Name,
				"ip":           eq.IP,
				"serialNumber": eq.SerialNumber,
				"createdAt":    helper_util.FormatTime(time.Now()),
				"updatedAt":    helper_util.FormatTime(time.Now()),
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
		logger.Error("Failed to create equipment",
			zap.Error(err),
			zap.String("name", eq.Name),
			zap.Duration("duration", duration))
		return "", err
	}

	equipmentID := fmt.Sprintf("%v", result)
	logger.Info("Equipment created successfully",
		zap.String("equipmentID", equipmentID),
		zap.Duration("duration", duration))

	dao.recordAudit(ctx, audit.AuditLog{
		Timestamp:     time.Now(),
		TenantID:      eq.TenantID,
		Action:        audit.ActionCreateEquipment,
		ResourceID:    equipmentID,
		ChangeDetails: equipmentChangeDetails(nil, &eq),
	})

	return equipmentID, nil
}

func (dao *EquipmentDAO) UpdateEquipment(ctx context.Context, eq model.Equipment) (*model.Equipment, error) {
	start := time.Now()
	logger.Info("Updating equipment", zap.String("equipmentID", eq.ID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	oldEquipment, err := dao.GetEquipment(ctx, eq.ID, eq.TenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get equipment: %w", err)
	}

	var updated *model.Equipment
	_, err = session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (e:Equipment {id: $id, tenantId: $tenantId})
        SET e += $props
        RETURN e
        `
		result, err := transaction.Run(query, map[string]interface{}{
			"id":       eq.ID,
			"tenantId": eq.TenantID,
			"props": map[string]interface{}{
				"name":         eq.Name,
				"ip":           eq.IP,
				"serialNumber": eq.SerialNumber,
				"updatedAt":    helper_util.FormatTime(time.Now()),
			},
		})
		if err != nil {
			return nil, gw_errors.ErrDatabaseOperation
		}

		if result.Next() {
			node := result.Record().Values[0].(neo4j.Node)
			updated = mapNodeToEquipment(node)
			return nil, nil
		}

		return nil, gw_errors.ErrEquipmentNotFound
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to update equipment",
			zap.Error(err),
			zap.String("equipmentID", eq.ID),
			zap.Duration("duration", duration))
		return nil, err
	}

	logger.Info("Equipment updated successfully",
		zap.String("equipmentID", eq.ID),
		zap.Duration("duration", duration))

	dao.recordAudit(ctx, audit.AuditLog{
		Timestamp:     time.Now(),
		TenantID:      eq.TenantID,
		Action:        audit.ActionUpdateEquipment,
		ResourceID:    eq.ID,
		ChangeDetails: equipmentChangeDetails(oldEquipment, updated),
	})

	return updated, nil
}

func (dao *EquipmentDAO) DeleteEquipment(ctx context.Context, equipmentID, tenantID string) error {
	start := time.Now()
	logger.Info("Deleting equipment", zap.String("equipmentID", equipmentID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (e:Equipment {id: $id, tenantId: $tenantId})
        DETACH DELETE e
        `
		result, err := transaction.Run(query, map[string]interface{}{
			"id":       equipmentID,
			"tenantId": tenantID,
		})
		if err != nil {
			return nil, gw_errors.ErrDatabaseOperation
		}

		summary, err := result.Consume()
		if err != nil {
			return nil, gw_errors.ErrDatabaseOperation
		}

		if summary.Counters().NodesDeleted() == 0 {
			return nil, gw_errors.ErrEquipmentNotFound
		}

		return nil, nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to delete equipment",
			zap.Error(err),
			zap.String("equipmentID", equipmentID),
			zap.Duration("duration", duration))
		return err
	}

	logger.Info("Equipment deleted successfully",
		zap.String("equipmentID", equipmentID),
		zap.Duration("duration", duration))

	dao.recordAudit(ctx, audit.AuditLog{
		Timestamp:  time.Now(),
		TenantID:   tenantID,
		Action:     audit.ActionDeleteEquipment,
		ResourceID: equipmentID,
	})

	return nil
}

func (dao *EquipmentDAO) GetEquipment(ctx context.Context, equipmentID, tenantID string) (*model.Equipment, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := `
    MATCH (e:Equipment {id: $id, tenantId: $tenantId})
    RETURN e
    `
	result, err := session.Run(query, map[string]interface{}{
		"id":       equipmentID,
		"tenantId": tenantID,
	})
	if err != nil {
		logger.Error("Failed to execute get equipment query",
			zap.Error(err),
			zap.String("equipmentID", equipmentID))
		return nil, gw_errors.ErrDatabaseOperation
	}

	if result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		return mapNodeToEquipment(node), nil
	}

	return nil, gw_errors.ErrEquipmentNotFound
}

// FindByIP returns the tenant's equipment with the given IP, or nil when none
// exists. Used for duplicate checks.
func (dao *EquipmentDAO) FindByIP(ctx context.Context, ip, tenantID string) (*model.Equipment, error) {
	return dao.findByProperty(ctx, "ip", ip, tenantID)
}

// FindByName returns the tenant's equipment with the given name, or nil when
// none exists. Used for duplicate checks.
func (dao *EquipmentDAO) FindByName(ctx context.Context, name, tenantID string) (*model.Equipment, error) {
	return dao.findByProperty(ctx, "name", name, tenantID)
}

func (dao *EquipmentDAO) findByProperty(ctx context.Context, property, value, tenantID string) (*model.Equipment, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := fmt.Sprintf(`
    MATCH (e:Equipment {tenantId: $tenantId, %s: $value})
    RETURN e
    LIMIT 1
    `, property)
	result, err := session.Run(query, map[string]interface{}{
		"tenantId": tenantID,
		"value":    value,
	})
	if err != nil {
		return nil, gw_errors.ErrDatabaseOperation
	}

	if result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		return mapNodeToEquipment(node), nil
	}

	return nil, nil
}

func (dao *EquipmentDAO) ListEquipments(ctx context.Context, tenantID string, limit, offset int) ([]*model.Equipment, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := `
    MATCH (e:Equipment {tenantId: $tenantId})
    RETURN e
    ORDER BY e.createdAt DESC
    SKIP $offset
    LIMIT $limit
    `
	result, err := session.Run(query, map[string]interface{}{
		"tenantId": tenantID,
		"limit":    limit,
		"offset":   offset,
	})
	if err != nil {
		logger.Error("Failed to execute list equipments query", zap.Error(err))
		return nil, gw_errors.ErrDatabaseOperation
	}

	var equipments []*model.Equipment
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		equipments = append(equipments, mapNodeToEquipment(node))
	}

	return equipments, nil
}

func (dao *EquipmentDAO) recordAudit(ctx context.Context, log audit.AuditLog) {
	if err := dao.AuditService.Record(ctx, log); err != nil {
		logger.Error("Failed to create audit log", zap.Error(err))
	}
}

func mapNodeToEquipment(node neo4j.Node) *model.Equipment {
	props := node.Props
	eq := &model.Equipment{}

	eq.ID = props["id"].(string)
	eq.TenantID = props["tenantId"].(string)
	eq.Name, _ = props["name"].(string)
	eq.IP, _ = props["ip"].(string)
	eq.SerialNumber, _ = props["serialNumber"].(string)
	if createdAt, ok := props["createdAt"].(string); ok {
		eq.CreatedAt, _ = helper_util.ParseTime(createdAt)
	}
	if updatedAt, ok := props["updatedAt"].(string); ok {
		eq.UpdatedAt, _ = helper_util.ParseTime(updatedAt)
	}

	return eq
}

// Helper function to create change details for the audit log
func equipmentChangeDetails(oldEq, newEq *model.Equipment) json.RawMessage {
	changes := make(map[string]interface{})
	if oldEq == nil {
		changes["action"] = "created"
	} else if newEq == nil {
		changes["action"] = "deleted"
	} else {
		changes["action"] = "updated"
		if oldEq.Name != newEq.Name {
			changes["name"] = map[string]string{"old": oldEq.Name, "new": newEq.Name}
		}
		if oldEq.IP != newEq.IP {
			changes["ip"] = map[string]string{"old": oldEq.IP, "new": newEq.IP}
		}
	}
	changeDetails, _ := json.Marshal(changes)
	return changeDetails
}
