// dao/access_point_dao.go
package dao

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	gw_errors "github.com/gatewise/gatewise/errors"
	logger "github.com/gatewise/gatewise/logging"
	"github.com/gatewise/gatewise/model"
)

// AccessPointDAO reads access point records; they are maintained elsewhere
// and read-only to the release engine.
type AccessPointDAO struct {
	Driver neo4j.Driver
}

func NewAccessPointDAO(driver neo4j.Driver) *AccessPointDAO {
	return &AccessPointDAO{Driver: driver}
}

func (dao *AccessPointDAO) GetAccessPoint(ctx context.Context, accessPointID, tenantID string) (*model.AccessPoint, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := `
    MATCH (p:AccessPoint {id: $id, tenantId: $tenantId})
    RETURN p
    `
	result, err := session.Run(query, map[string]interface{}{
		"id":       accessPointID,
		"tenantId": tenantID,
	})
	if err != nil {
		logger.Error("Failed to execute get access point query",
			zap.Error(err),
			zap.String("accessPointID", accessPointID))
		return nil, gw_errors.ErrDatabaseOperation
	}

	if result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		return mapNodeToAccessPoint(node), nil
	}

	return nil, gw_errors.ErrAccessPointNotFound
}

// FindAllByAreaID returns every access point under an area.
func (dao *AccessPointDAO) FindAllByAreaID(ctx context.Context, areaID, tenantID string) ([]model.AccessPoint, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := `
    MATCH (p:AccessPoint {tenantId: $tenantId, accessAreaId: $areaId})
    RETURN p
    ORDER BY p.name
    `
	result, err := session.Run(query, map[string]interface{}{
		"tenantId": tenantID,
		"areaId":   areaID,
	})
	if err != nil {
		logger.Error("Failed to execute find access points by area query",
			zap.Error(err),
			zap.String("areaID", areaID))
		return nil, gw_errors.ErrDatabaseOperation
	}

	var points []model.AccessPoint
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		points = append(points, *mapNodeToAccessPoint(node))
	}

	return points, nil
}

func mapNodeToAccessPoint(node neo4j.Node) *model.AccessPoint {
	props := node.Props
	point := &model.AccessPoint{}

	point.ID = props["id"].(string)
	point.TenantID = props["tenantId"].(string)
	point.Name, _ = props["name"].(string)
	point.GeneralExit, _ = props["generalExit"].(bool)
	point.PersonTypeIDs = toStringSlice(props["personTypeIds"])
	point.EquipmentIDs = toStringSlice(props["equipmentIds"])
	point.AccessAreaID, _ = props["accessAreaId"].(string)

	return point
}
