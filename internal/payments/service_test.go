package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	v1 "github.com/shopcore-lab/shopcore/internal/api/v1"
	httperr "github.com/shopcore-lab/shopcore/internal/core/errors"
	"github.com/shopcore-lab/shopcore/internal/core/storage/storagetest"
)

type fakeGateway struct {
	secret string
	err    error

	gotAmount   decimal.Decimal
	gotCurrency string
}

func (g *fakeGateway) CreateIntent(_ context.Context, amount decimal.Decimal, currency string) (string, error) {
	g.gotAmount = amount
	g.gotCurrency = currency
	return g.secret, g.err
}

func newPaymentsRouter(t *testing.T, db *storagetest.DB, gw Gateway) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	adminOnly := func(c *gin.Context) { c.Next() }
	NewService(db, gw, "usd").RegisterRoutes(r, adminOnly)
	return r
}

func TestCreateIntentHandler(t *testing.T) {
	gw := &fakeGateway{secret: "pi_secret_123"}
	r := newPaymentsRouter(t, storagetest.New(), gw)

	body, _ := json.Marshal(map[string]any{"amount": "249.99"})
	req := httptest.NewRequest(http.MethodPost, "/v1/payment/create", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code)
	require.Equal(t, "249.99", gw.gotAmount.String())
	require.Equal(t, "usd", gw.gotCurrency)

	var result map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	require.Equal(t, "pi_secret_123", result["clientSecret"])
}

func TestCreateIntentHandler_MissingAmount(t *testing.T) {
	r := newPaymentsRouter(t, storagetest.New(), &fakeGateway{})

	req := httptest.NewRequest(http.MethodPost, "/v1/payment/create", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCreateIntentHandler_GatewayDown(t *testing.T) {
	gw := &fakeGateway{err: httperr.ErrUpstream}
	r := newPaymentsRouter(t, storagetest.New(), gw)

	body, _ := json.Marshal(map[string]any{"amount": "10"})
	req := httptest.NewRequest(http.MethodPost, "/v1/payment/create", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadGateway, resp.Code)
}

func TestCouponLifecycle(t *testing.T) {
	db := storagetest.New()
	svc := NewService(db, &fakeGateway{}, "usd")
	ctx := context.Background()

	coupon, err := svc.NewCoupon(ctx, "SAVE20", decimal.NewFromInt(20))
	require.NoError(t, err)
	require.NotEmpty(t, coupon.ID)

	amount, err := svc.ApplyDiscount(ctx, "SAVE20")
	require.NoError(t, err)
	require.True(t, amount.Equal(decimal.NewFromInt(20)))

	updated, err := svc.UpdateCoupon(ctx, coupon.ID, "SAVE25", decimal.NewFromInt(25))
	require.NoError(t, err)
	require.Equal(t, "SAVE25", updated.Code)

	_, err = svc.ApplyDiscount(ctx, "SAVE20")
	require.ErrorIs(t, err, httperr.ErrNotFound)

	require.NoError(t, svc.DeleteCoupon(ctx, coupon.ID))
	err = svc.DeleteCoupon(ctx, coupon.ID)
	require.ErrorIs(t, err, httperr.ErrNotFound)
}

func TestNewCouponValidation(t *testing.T) {
	svc := NewService(storagetest.New(), &fakeGateway{}, "usd")
	ctx := context.Background()

	tests := []struct {
		name   string
		code   string
		amount decimal.Decimal
	}{
		{name: "empty code", code: "", amount: decimal.NewFromInt(5)},
		{name: "zero amount", code: "FREE", amount: decimal.Zero},
		{name: "negative amount", code: "NEG", amount: decimal.NewFromInt(-1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.NewCoupon(ctx, tc.code, tc.amount)
			require.ErrorIs(t, err, httperr.ErrValidation)
		})
	}
}

func TestApplyDiscountHandler_InvalidCode(t *testing.T) {
	db := storagetest.New()
	require.NoError(t, db.SaveCoupon(context.Background(), &v1.Coupon{
		ID: "c1", Code: "REAL", Amount: decimal.NewFromInt(10),
	}))
	r := newPaymentsRouter(t, db, &fakeGateway{})

	req := httptest.NewRequest(http.MethodGet, "/v1/payment/discount?coupon=FAKE", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)

	var errResp httperr.ErrorResponse
	json.Unmarshal(resp.Body.Bytes(), &errResp)
	require.Equal(t, httperr.HttpValidationError, errResp.ErrorType)
}

func TestGatewayError(t *testing.T) {
	gw := &fakeGateway{err: errors.New("connection timeout")}
	svc := NewService(storagetest.New(), gw, "usd")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := svc.CreateIntent(ctx, decimal.NewFromInt(50))
	require.Error(t, err)
}
