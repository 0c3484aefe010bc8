package variant

import (
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"
)

// Stamp 视图版本：最近更新时间 + 输入数据摘要
//
// 规格行单独更新（或绕过 ORM 直接改库）时商品行的更新时间不变，摘要保证这类变更也会触发重建。
type Stamp struct {
	UpdatedAt time.Time
	Digest    uint64
}

// StampOf 计算归一化输入的版本
func StampOf(updatedAt time.Time, src Source) Stamp {
	d := xxhash.New()
	sep := []byte{0}
	write := func(s string) {
		_, _ = d.WriteString(s)
		_, _ = d.Write(sep)
	}
	for _, dim := range src.Dimensions {
		write(dim)
	}
	write("#sizes")
	_, _ = d.Write(src.Sizes)
	write("#images")
	_, _ = d.Write(src.OptionImages)
	write("#variants")
	write(strconv.Itoa(src.DroppedVariants))
	for _, record := range src.Variants {
		write(strconv.FormatUint(uint64(record.ID), 10))
		write(record.Name)
		for _, opt := range record.Options {
			write(opt.Dimension)
			write(opt.Value)
		}
		if record.Price != nil {
			write(record.Price.String())
		} else {
			write("-")
		}
		write(strconv.Itoa(record.Stock))
		write(strconv.FormatBool(record.Active))
		write(strconv.Itoa(record.SortOrder))
	}
	return Stamp{UpdatedAt: updatedAt, Digest: d.Sum64()}
}

func (s Stamp) key() string {
	return strconv.FormatInt(s.UpdatedAt.UnixNano(), 10) + ":" + strconv.FormatUint(s.Digest, 16)
}

type cacheEntry struct {
	stamp Stamp
	view  *View
}

// Cache 进程内规格视图缓存，按商品 ID 存储并以 Stamp 校验新鲜度
//
// 条目只会整体替换，读者不会看到构建到一半的视图。
type Cache struct {
	mu      sync.RWMutex
	entries map[uint]cacheEntry
	group   singleflight.Group
}

// NewCache 创建规格视图缓存
func NewCache() *Cache {
	return &Cache{entries: make(map[uint]cacheEntry)}
}

// Get 命中则返回缓存视图，否则调用 build 重建并替换
func (c *Cache) Get(productID uint, stamp Stamp, build func() *View) *View {
	if c == nil {
		return build()
	}
	c.mu.RLock()
	entry, ok := c.entries[productID]
	c.mu.RUnlock()
	if ok && entry.stamp.Digest == stamp.Digest && entry.stamp.UpdatedAt.Equal(stamp.UpdatedAt) {
		return entry.view
	}

	flightKey := strconv.FormatUint(uint64(productID), 10) + "@" + stamp.key()
	result, _, _ := c.group.Do(flightKey, func() (interface{}, error) {
		view := build()
		c.mu.Lock()
		current, exists := c.entries[productID]
		if !exists || !current.stamp.UpdatedAt.After(stamp.UpdatedAt) {
			c.entries[productID] = cacheEntry{stamp: stamp, view: view}
		}
		c.mu.Unlock()
		return view, nil
	})
	view, _ := result.(*View)
	return view
}

// Invalidate 删除商品的缓存视图
func (c *Cache) Invalidate(productID uint) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.entries, productID)
	c.mu.Unlock()
}

// Len 当前缓存条目数
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
