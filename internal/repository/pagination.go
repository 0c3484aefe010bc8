package repository

import "gorm.io/gorm"

// maxListPageSize 单页商品数上限
const maxListPageSize = 100

// paginate 分页 scope：pageSize <= 0 表示不分页，页码小于 1 按第一页处理
func paginate(page, pageSize int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if pageSize <= 0 {
			return db
		}
		if pageSize > maxListPageSize {
			pageSize = maxListPageSize
		}
		if page < 1 {
			page = 1
		}
		return db.Limit(pageSize).Offset((page - 1) * pageSize)
	}
}
