package shared

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// NormalizePagination 归一化分页参数。
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// ParsePagination 从查询参数读取分页，非法值按默认处理
func ParsePagination(c *gin.Context) (int, int) {
	page := cast.ToInt(c.Query("page"))
	pageSize := cast.ToInt(c.Query("page_size"))
	return NormalizePagination(page, pageSize)
}
