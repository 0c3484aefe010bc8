package cart

import (
	"context"
	"sync"
)

// Store 购物车持久化接口，按 (租户, 购物车 ID) 隔离
type Store interface {
	Load(ctx context.Context, tenantID, cartID string) (Cart, error)
	Save(ctx context.Context, tenantID, cartID string, c Cart) error
	Delete(ctx context.Context, tenantID, cartID string) error
}

// MemoryStore 进程内存储，序列化后保存，与持久化实现行为一致
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

// Load 读取购物车，不存在或租户不一致时返回空购物车
func (s *MemoryStore) Load(_ context.Context, tenantID, cartID string) (Cart, error) {
	s.mu.RLock()
	raw, ok := s.entries[storeKey(tenantID, cartID)]
	s.mu.RUnlock()
	if !ok {
		return New(tenantID), nil
	}
	return Decode(raw, tenantID)
}

// Save 保存购物车
func (s *MemoryStore) Save(_ context.Context, tenantID, cartID string, c Cart) error {
	c.TenantID = tenantID
	raw, err := Marshal(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.entries[storeKey(tenantID, cartID)] = raw
	s.mu.Unlock()
	return nil
}

// Delete 删除购物车
func (s *MemoryStore) Delete(_ context.Context, tenantID, cartID string) error {
	s.mu.Lock()
	delete(s.entries, storeKey(tenantID, cartID))
	s.mu.Unlock()
	return nil
}

// Decode 反序列化并校验租户；租户不一致时返回请求租户的空购物车
func Decode(raw []byte, tenantID string) (Cart, error) {
	c, err := Unmarshal(raw)
	if err != nil {
		return New(tenantID), err
	}
	if c.TenantID != "" && c.TenantID != tenantID {
		return New(tenantID), nil
	}
	c.TenantID = tenantID
	return c, nil
}

func storeKey(tenantID, cartID string) string {
	return tenantID + ":" + cartID
}
