package helper_util_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	helper_util "github.com/gatewise/gatewise/util/helper"
)

func TestFormatTime_NormalizesOffsets(t *testing.T) {
	// Two instants from clients in different zones: the later instant must
	// also sort later as a string, since Cypher compares these
	// lexicographically.
	utc := time.Date(2026, 9, 1, 22, 0, 0, 0, time.UTC)
	cest := time.Date(2026, 9, 1, 23, 59, 59, 0, time.FixedZone("CEST", 2*60*60))

	sUTC := helper_util.FormatTime(utc)
	sCEST := helper_util.FormatTime(cest)

	assert.True(t, cest.Before(utc))
	assert.True(t, sCEST < sUTC, "string order must match chronological order: %q vs %q", sCEST, sUTC)
}

func TestFormatTime_RoundTrips(t *testing.T) {
	in := time.Date(2026, 3, 15, 8, 30, 0, 0, time.FixedZone("BRT", -3*60*60))

	parsed, err := helper_util.ParseTime(helper_util.FormatTime(in))

	assert.NoError(t, err)
	assert.True(t, parsed.Equal(in))
	assert.Equal(t, time.UTC, parsed.Location())
}

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	params := func(query string) (int, int, error) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/?"+query, nil)
		return helper_util.GetPaginationParams(c)
	}

	t.Run("Defaults", func(t *testing.T) {
		limit, offset, err := params("")
		assert.NoError(t, err)
		assert.Equal(t, helper_util.DefaultPageSize, limit)
		assert.Equal(t, 0, offset)
	})

	t.Run("CapsLimit", func(t *testing.T) {
		limit, _, err := params("limit=5000")
		assert.NoError(t, err)
		assert.Equal(t, helper_util.MaxPageSize, limit)
	})

	t.Run("NegativeValues", func(t *testing.T) {
		limit, offset, err := params("limit=-1&offset=-5")
		assert.NoError(t, err)
		assert.Equal(t, helper_util.DefaultPageSize, limit)
		assert.Equal(t, 0, offset)
	})

	t.Run("NonNumeric", func(t *testing.T) {
		_, _, err := params("limit=ten")
		assert.Error(t, err)
	})
}
