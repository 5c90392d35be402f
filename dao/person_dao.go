// dao/person_dao.go
package dao

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	gw_errors "github.com/gatewise/gatewise/errors"
	logger "github.com/gatewise/gatewise/logging"
	"github.com/gatewise/gatewise/model"
	helper_util "github.com/gatewise/gatewise/util/helper"
)

// PersonDAO reads person records. Person CRUD is owned by another service;
// this one only resolves subjects of access releases.
type PersonDAO struct {
	Driver neo4j.Driver
}

func NewPersonDAO(driver neo4j.Driver) *PersonDAO {
	return &PersonDAO{Driver: driver}
}

func (dao *PersonDAO) GetPerson(ctx context.Context, personID, tenantID string) (*model.Person, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := `
    MATCH (p:Person {id: $id, tenantId: $tenantId})
    RETURN p
    `
	result, err := session.Run(query, map[string]interface{}{
		"id":       personID,
		"tenantId": tenantID,
	})
	if err != nil {
		logger.Error("Failed to execute get person query",
			zap.Error(err),
			zap.String("personID", personID))
		return nil, gw_errors.ErrDatabaseOperation
	}

	if result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		return mapNodeToPerson(node), nil
	}

	return nil, gw_errors.ErrPersonNotFound
}

func mapNodeToPerson(node neo4j.Node) *model.Person {
	props := node.Props
	person := &model.Person{}

	person.ID = props["id"].(string)
	person.TenantID = props["tenantId"].(string)
	person.Name, _ = props["name"].(string)
	person.Code, _ = props["code"].(string)
	person.Picture, _ = props["picture"].(string)
	person.PersonTypeID, _ = props["personTypeId"].(string)
	if createdAt, ok := props["createdAt"].(string); ok {
		person.CreatedAt, _ = helper_util.ParseTime(createdAt)
	}

	return person
}
