package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const maxPageLimit = 500

func intQuery(c *gin.Context, key string, def int) int {
	if val := c.Query(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

// pageQuery reads limit/offset with the same bounds the store applies.
func pageQuery(c *gin.Context, defLimit int) (int, int) {
	limit := intQuery(c, "limit", defLimit)
	if limit <= 0 {
		limit = defLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	offset := intQuery(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func strQueryPtr(c *gin.Context, key string) *string {
	if val := strings.TrimSpace(c.Query(key)); val != "" {
		return &val
	}
	return nil
}

// upperQueryPtr is strQueryPtr for enum filters stored upper-case.
func upperQueryPtr(c *gin.Context, key string) *string {
	if val := strQueryPtr(c, key); val != nil {
		up := strings.ToUpper(*val)
		return &up
	}
	return nil
}

func uint64Param(c *gin.Context, key string) (uint64, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param(key)), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// uint64QueryPtr reports ok=false when the value is present but malformed.
func uint64QueryPtr(c *gin.Context, key string) (*uint64, bool) {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil || id == 0 {
		return nil, false
	}
	return &id, true
}

// timeQueryPtr accepts RFC3339 or a bare YYYY-MM-DD date (midnight UTC).
func timeQueryPtr(c *gin.Context, key string) (*time.Time, bool) {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return nil, true
	}
	t, err := parseTime(val)
	if err != nil {
		return nil, false
	}
	return &t, true
}

func parseTime(val string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, val)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func paginationMeta(limit, offset int, total int64) map[string]any {
	if limit <= 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}
	hasNext := int64(offset+limit) < total
	return map[string]any{
		"limit":    limit,
		"offset":   offset,
		"total":    total,
		"has_next": hasNext,
	}
}

func boolPtr(v bool) *bool { return &v }
