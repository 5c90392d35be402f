package helper_util

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultPageSize applies when a listing request carries no limit.
	DefaultPageSize = 10
	// MaxPageSize caps a single page; release listings can span thousands
	// of rows per tenant.
	MaxPageSize = 100
)

// GetPaginationParams reads limit/offset query parameters, applying the
// gatewise paging defaults and bounds.
func GetPaginationParams(c *gin.Context) (limit int, offset int, err error) {
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageSize)))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid limit: %w", err)
	}
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid offset: %w", err)
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset, nil
}
