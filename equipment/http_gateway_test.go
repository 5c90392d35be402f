package equipment_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gatewise/gatewise/equipment"
	logger "github.com/gatewise/gatewise/logging"
)

func TestMain(m *testing.M) {
	logger.InitLogger("")
	os.Exit(m.Run())
}

func TestHTTPGateway_Grant(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	gateway := equipment.NewHTTPGateway(time.Second)
	err := gateway.Grant(context.Background(), equipment.GrantRequest{
		EquipmentID: "eq-1",
		EquipmentIP: strings.TrimPrefix(server.URL, "http://"),
		PersonID:    "person-1",
		PersonName:  "Ana",
	})

	assert.NoError(t, err)
	assert.Equal(t, "/api/v1/access", gotPath)
	assert.Equal(t, "person-1", gotBody["person_id"])
	// Equipment identity travels in the URL, never in the payload.
	assert.NotContains(t, gotBody, "EquipmentID")
}

func TestHTTPGateway_Revoke(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	gateway := equipment.NewHTTPGateway(time.Second)
	err := gateway.Revoke(context.Background(), equipment.RevokeRequest{
		EquipmentID: "eq-1",
		EquipmentIP: strings.TrimPrefix(server.URL, "http://"),
		PersonID:    "person-1",
	})

	assert.NoError(t, err)
	assert.Equal(t, "/api/v1/access/revoke", gotPath)
}

func TestHTTPGateway_DeviceErrorWrapsCallError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "card store full", http.StatusConflict)
	}))
	defer server.Close()

	gateway := equipment.NewHTTPGateway(time.Second)
	err := gateway.Grant(context.Background(), equipment.GrantRequest{
		EquipmentID: "eq-1",
		EquipmentIP: strings.TrimPrefix(server.URL, "http://"),
		PersonID:    "person-1",
	})

	assert.Error(t, err)

	var callErr *equipment.CallError
	assert.True(t, errors.As(err, &callErr))
	assert.Equal(t, "eq-1", callErr.EquipmentID)
	assert.Contains(t, callErr.Error(), "card store full")
}

func TestHTTPGateway_UnreachableDevice(t *testing.T) {
	gateway := equipment.NewHTTPGateway(200 * time.Millisecond)
	err := gateway.Grant(context.Background(), equipment.GrantRequest{
		EquipmentID: "eq-1",
		EquipmentIP: "127.0.0.1:1",
		PersonID:    "person-1",
	})

	var callErr *equipment.CallError
	assert.True(t, errors.As(err, &callErr))
}
