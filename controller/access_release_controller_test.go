// controller/access_release_controller_test.go
package controller_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gatewise/gatewise/audit"
	"github.com/gatewise/gatewise/controller"
	gw_errors "github.com/gatewise/gatewise/errors"
	logger "github.com/gatewise/gatewise/logging"
	"github.com/gatewise/gatewise/model"
	test_mock "github.com/gatewise/gatewise/test/mock"
)

func TestMain(m *testing.M) {
	logger.InitLogger("")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", "user-1")
		c.Set("tenantID", "tenant-1")
		c.Next()
	})
	return r
}

func TestAccessReleaseController(t *testing.T) {
	mockService := new(test_mock.MockAccessReleaseService)
	mockAudit := new(test_mock.MockAuditService)
	releaseController := controller.NewAccessReleaseController(mockService, mockAudit)
	router := setupRouter()
	releaseController.RegisterRoutes(router)

	t.Run("CreateAccessRelease_Success", func(t *testing.T) {
		mockService.On("CreateAccessRelease", mock.Anything, mock.Anything, "user-1").
			Return(&model.AccessRelease{ID: "rel-1", Status: model.StatusActive}, nil).Once()

		body := strings.NewReader(`{"person_id":"person-1","person_type_id":"pt-1","access_point_id":"ap-1","type":"manual"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/access-releases", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var created model.AccessRelease
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.Equal(t, "rel-1", created.ID)
	})

	t.Run("CreateAccessRelease_Failure_Invalid", func(t *testing.T) {
		mockService.On("CreateAccessRelease", mock.Anything, mock.Anything, "user-1").
			Return(nil, gw_errors.ErrInvalidAccessReleaseData).Once()

		body := strings.NewReader(`{"person_id":"person-1"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/access-releases", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("CreateAccessRelease_Failure_PersonNotFound", func(t *testing.T) {
		mockService.On("CreateAccessRelease", mock.Anything, mock.Anything, "user-1").
			Return(nil, gw_errors.ErrPersonNotFound).Once()

		body := strings.NewReader(`{"person_id":"ghost","person_type_id":"pt-1","access_point_id":"ap-1","type":"manual"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/access-releases", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("DisableAccessRelease_Success", func(t *testing.T) {
		mockService.On("DisableAccessRelease", mock.Anything, "rel-1", "tenant-1", "user-1").
			Return(&model.AccessRelease{ID: "rel-1", Status: model.StatusDisabled}, nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/access-releases/rel-1/disable", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("DisableAccessRelease_Failure_NotFound", func(t *testing.T) {
		mockService.On("DisableAccessRelease", mock.Anything, "rel-404", "tenant-1", "user-1").
			Return(nil, gw_errors.ErrAccessReleaseNotFound).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/access-releases/rel-404/disable", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("DisableAccessRelease_Failure_AlreadyDisabled", func(t *testing.T) {
		mockService.On("DisableAccessRelease", mock.Anything, "rel-1", "tenant-1", "user-1").
			Return(nil, gw_errors.ErrInternalServer).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/access-releases/rel-1/disable", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("GetAccessRelease_Success", func(t *testing.T) {
		mockService.On("GetAccessRelease", mock.Anything, "rel-1", "tenant-1").
			Return(&model.AccessRelease{ID: "rel-1"}, nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/access-releases/rel-1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("GetAccessRelease_Failure_NotFound", func(t *testing.T) {
		mockService.On("GetAccessRelease", mock.Anything, "rel-404", "tenant-1").
			Return(nil, gw_errors.ErrAccessReleaseNotFound).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/access-releases/rel-404", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("GetAccessReleaseHistory_Success", func(t *testing.T) {
		mockAudit.On("QueryLogs", mock.Anything, mock.Anything, mock.Anything, "tenant-1", "rel-1").
			Return([]audit.AuditLog{{TenantID: "tenant-1", ResourceID: "rel-1", Action: audit.ActionCreateAccessRelease}}, nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/access-releases/rel-1/history", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var logs []audit.AuditLog
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &logs))
		assert.Len(t, logs, 1)
	})

	t.Run("GetAccessReleaseHistory_Failure_BadWindow", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/access-releases/rel-1/history?from=yesterday", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ListAccessReleases_Success", func(t *testing.T) {
		mockService.On("ListAccessReleases", mock.Anything, mock.MatchedBy(func(criteria model.AccessReleaseSearchCriteria) bool {
			return criteria.TenantID == "tenant-1" && criteria.Status == model.StatusActive
		})).Return([]*model.AccessRelease{{ID: "rel-1"}, {ID: "rel-2"}}, nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/access-releases?status=active", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var releases []*model.AccessRelease
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &releases))
		assert.Len(t, releases, 2)
	})

	t.Run("FindLastByPersonID_Success", func(t *testing.T) {
		mockService.On("FindLastByPersonID", mock.Anything, "person-1", "tenant-1").
			Return(&model.AccessRelease{ID: "rel-9", PersonID: "person-1"}, nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/access-releases/person/person-1/last", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
