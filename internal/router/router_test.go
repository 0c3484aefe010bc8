package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bioshop-next/internal/cache"
	"github.com/bioshop-next/internal/config"
	"github.com/bioshop-next/internal/constants"
	"github.com/bioshop-next/internal/models"
	"github.com/bioshop-next/internal/provider"
	"github.com/bioshop-next/internal/queue"
	"github.com/bioshop-next/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func setupRouterTest(t *testing.T) (*gin.Engine, *models.Product) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	_ = cache.Close()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:router_%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	storefrontRepo := repository.NewStorefrontRepository(db)
	if err := storefrontRepo.Create(&models.Storefront{
		Slug:                        "shop-a",
		Name:                        "Shop A",
		Currency:                    "HKD",
		FreeShippingThresholdAmount: models.MoneyPtr(decimal.NewFromInt(300)),
		IsActive:                    true,
	}); err != nil {
		t.Fatalf("create storefront failed: %v", err)
	}
	if err := storefrontRepo.CreateDeliveryOption(&models.DeliveryOption{
		TenantID: "shop-a", Code: "express", Name: "順豐速運", FeeAmount: models.NewMoney(50), IsEnabled: true,
	}); err != nil {
		t.Fatalf("create delivery option failed: %v", err)
	}
	product := &models.Product{
		TenantID:          "shop-a",
		Slug:              "runner",
		Name:              "跑鞋",
		PriceAmount:       models.NewMoney(100),
		VariantDimensions: models.StringArray{"顏色", "尺碼"},
		IsActive:          true,
		Variants: []models.ProductVariant{
			{Name: "紅 US 9", OptionsJSON: models.RawJSON(`{"顏色":"紅色","尺碼":"US 9"}`), Stock: 3, IsActive: true},
			{Name: "黑 US 9", OptionsJSON: models.RawJSON(`{"顏色":"黑色","尺碼":"US 9"}`), Stock: 3, IsActive: false},
		},
	}
	if err := repository.NewProductRepository(db).Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	cfg := &config.Config{
		Cart:       config.CartConfig{Store: constants.CartStoreDatabase, MaxLineQuantity: constants.DefaultMaxLineQuantity},
		Storefront: config.StorefrontConfig{Currency: constants.DefaultCurrency},
	}
	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	container := provider.NewContainerWith(cfg, db, queueClient)
	return SetupRouter(cfg, container), product
}

func doJSON(t *testing.T, r *gin.Engine, method, path, cartID string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cartID != "" {
		req.Header.Set("X-Cart-ID", cartID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("%s %s: http status want 200 got %d", method, path, w.Code)
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal envelope failed: %v body=%s", err, w.Body.String())
	}
	return w, env
}

func TestStorefrontFlow(t *testing.T) {
	r, product := setupRouterTest(t)
	base := "/api/v1/shops/shop-a"

	_, env := doJSON(t, r, http.MethodGet, base+"/products/runner", "", nil)
	if env.StatusCode != 0 {
		t.Fatalf("get product failed: %+v", env)
	}
	var detail struct {
		Variants struct {
			Combinations map[string]struct {
				Available bool   `json:"available"`
				Status    string `json:"status"`
			} `json:"combinations"`
		} `json:"variants"`
	}
	if err := json.Unmarshal(env.Data, &detail); err != nil {
		t.Fatalf("unmarshal detail failed: %v", err)
	}
	if !detail.Variants.Combinations["紅色|US 9"].Available || detail.Variants.Combinations["黑色|US 9"].Status != constants.CombinationStatusHidden {
		t.Fatalf("unexpected combinations: %+v", detail.Variants.Combinations)
	}

	w, env := doJSON(t, r, http.MethodPost, base+"/cart/items", "", gin.H{
		"product_id": product.ID,
		"selection":  gin.H{"尺碼": "US 9", "顏色": "紅色"},
		"qty":        2,
	})
	cartID := w.Header().Get("X-Cart-ID")
	if env.StatusCode != 0 || cartID == "" {
		t.Fatalf("add item failed: %+v cart=%q", env, cartID)
	}

	_, env = doJSON(t, r, http.MethodPost, base+"/cart/items", cartID, gin.H{"product_id": product.ID, "variant": "黑色|US 9", "qty": 1})
	if env.StatusCode != 400 {
		t.Fatalf("hidden variant should be rejected with 400, got %+v", env)
	}
	_, env = doJSON(t, r, http.MethodPost, base+"/cart/items", cartID, gin.H{"product_id": product.ID, "variant": "紅色|US 9", "qty": 2})
	if env.StatusCode != 409 {
		t.Fatalf("over stock should be rejected with 409, got %+v", env)
	}

	_, env = doJSON(t, r, http.MethodPost, base+"/checkout/quote", cartID, gin.H{"delivery_option_id": "express"})
	var quote struct {
		TotalText string `json:"total_text"`
		Count     int    `json:"count"`
	}
	if err := json.Unmarshal(env.Data, &quote); err != nil {
		t.Fatalf("unmarshal quote failed: %v", err)
	}
	if env.StatusCode != 0 || quote.TotalText != "HK$250" || quote.Count != 2 {
		t.Fatalf("unexpected quote: %+v %+v", env, quote)
	}

	_, env = doJSON(t, r, http.MethodPost, base+"/checkout/submit", cartID, gin.H{
		"delivery_option_id": "express",
		"customer":           gin.H{"name": "陳小明", "phone": "91234567"},
	})
	var result struct {
		Reference string `json:"reference"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("unmarshal submit failed: %v", err)
	}
	if env.StatusCode != 0 || result.Reference == "" {
		t.Fatalf("submit failed: %+v", env)
	}

	_, env = doJSON(t, r, http.MethodGet, base+"/cart", cartID, nil)
	var cartView struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(env.Data, &cartView); err != nil {
		t.Fatalf("unmarshal cart failed: %v", err)
	}
	if cartView.Count != 0 {
		t.Fatalf("cart should be empty after submit, got %d", cartView.Count)
	}
}

func TestUnknownStorefrontAndRoute(t *testing.T) {
	r, _ := setupRouterTest(t)
	if _, env := doJSON(t, r, http.MethodGet, "/api/v1/shops/shop-z/products", "", nil); env.StatusCode != 404 {
		t.Fatalf("unknown storefront want 404 got %+v", env)
	}
	if _, env := doJSON(t, r, http.MethodGet, "/api/v1/nowhere", "", nil); env.StatusCode != 404 {
		t.Fatalf("unknown route want 404 got %+v", env)
	}
	if _, env := doJSON(t, r, http.MethodPost, "/api/v1/shops/shop-a/cart/items", "c1", gin.H{"qty": 1}); env.StatusCode != 400 {
		t.Fatalf("missing product id want 400 got %+v", env)
	}
}
