package constants

// 规格组合状态常量
const (
	CombinationStatusVisible = "visible"
	CombinationStatusHidden  = "hidden"
)

// 规格维度常量
const (
	// CombinationKeySeparator 双维度组合键分隔符
	CombinationKeySeparator = "|"
	// MaxVariantDimensions 参与组合键编码的最大维度数
	MaxVariantDimensions = 2
	// LegacySizeDimension 历史尺码表的维度名
	LegacySizeDimension = "尺碼"
	// DefaultVariantDimension 无维度规格的兜底维度名
	DefaultVariantDimension = "款式"
)

// 维度分类常量（仅用于展示排序）
const (
	DimensionKindColor = "color"
	DimensionKindSize  = "size"
	DimensionKindOther = "other"
)

// 徽章类型常量
const (
	BadgeTypeDiscount = "discount"
	BadgeTypeLowStock = "low_stock"
	BadgeTypeNew      = "new"
	BadgeTypeSoldOut  = "sold_out"
)

// 店铺默认策略
const (
	DefaultCurrency          = "HKD"
	DefaultLowStockThreshold = 3
	DefaultNewProductDays    = 14
	DefaultCartTTLHours      = 720
	DefaultMaxLineQuantity   = 99
)

// 购物车存储类型常量
const (
	CartStoreRedis    = "redis"
	CartStoreDatabase = "database"
)

// 结算异常条件常量
const (
	CheckoutConditionNone                = ""
	CheckoutConditionDeliveryNotSelected = "delivery_not_selected"
	CheckoutConditionDeliveryUnavailable = "delivery_option_unavailable"
)

// 队列名称常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 队列任务类型常量
const (
	TaskOrderSubmit = "order:submit"
)

// CartSchemaVersion 当前购物车序列化版本
const CartSchemaVersion = 1
