package repository

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	TenantID   string
	Page       int
	PageSize   int
	Search     string
	OnlyActive bool
}
