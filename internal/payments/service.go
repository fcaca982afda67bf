package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	httperr "github.com/shopcore-lab/shopcore/internal/core/errors"

	v1 "github.com/shopcore-lab/shopcore/internal/api/v1"
	"github.com/shopcore-lab/shopcore/internal/core/storage"
)

type Service struct {
	coupons  storage.CouponStore
	gateway  Gateway
	currency string
}

func NewService(coupons storage.CouponStore, gateway Gateway, currency string) *Service {
	return &Service{
		coupons:  coupons,
		gateway:  gateway,
		currency: currency,
	}
}

// CreateIntent asks the processor for a payment intent over the given amount.
func (s *Service) CreateIntent(ctx context.Context, amount decimal.Decimal) (string, error) {
	if !amount.IsPositive() {
		return "", fmt.Errorf("%w: amount must be positive", httperr.ErrValidation)
	}
	secret, err := s.gateway.CreateIntent(ctx, amount, s.currency)
	if err != nil {
		return "", err
	}
	slog.Info("[Payments] Payment intent created", "amount", amount, "currency", s.currency)
	return secret, nil
}

// NewCoupon registers a discount code.
func (s *Service) NewCoupon(ctx context.Context, code string, amount decimal.Decimal) (*v1.Coupon, error) {
	if code == "" || !amount.IsPositive() {
		return nil, fmt.Errorf("%w: coupon code and a positive amount are required", httperr.ErrValidation)
	}
	coupon := &v1.Coupon{
		ID:     uuid.NewString(),
		Code:   code,
		Amount: amount,
	}
	if err := s.coupons.SaveCoupon(ctx, coupon); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, fmt.Errorf("%w: coupon %q already exists", httperr.ErrValidation, code)
		}
		return nil, fmt.Errorf("failed to save coupon: %w", err)
	}
	return coupon, nil
}

// ApplyDiscount resolves a coupon code to its discount amount.
func (s *Service) ApplyDiscount(ctx context.Context, code string) (decimal.Decimal, error) {
	coupon, err := s.coupons.FindCouponByCode(ctx, code)
	if errors.Is(err, storage.ErrNotFound) {
		return decimal.Zero, fmt.Errorf("%w: invalid coupon code", httperr.ErrNotFound)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to look up coupon: %w", err)
	}
	return coupon.Amount, nil
}

func (s *Service) GetCoupon(ctx context.Context, id string) (*v1.Coupon, error) {
	coupon, err := s.coupons.GetCoupon(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: coupon %s", httperr.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	return coupon, nil
}

func (s *Service) ListCoupons(ctx context.Context) ([]*v1.Coupon, error) {
	return s.coupons.ListCoupons(ctx)
}

// UpdateCoupon patches code and/or amount; zero values leave the field as is.
func (s *Service) UpdateCoupon(ctx context.Context, id, code string, amount decimal.Decimal) (*v1.Coupon, error) {
	coupon, err := s.GetCoupon(ctx, id)
	if err != nil {
		return nil, err
	}
	if code != "" {
		coupon.Code = code
	}
	if amount.IsPositive() {
		coupon.Amount = amount
	}
	if err := s.coupons.UpdateCoupon(ctx, coupon); err != nil {
		return nil, fmt.Errorf("failed to update coupon: %w", err)
	}
	return coupon, nil
}

func (s *Service) DeleteCoupon(ctx context.Context, id string) error {
	if _, err := s.GetCoupon(ctx, id); err != nil {
		return err
	}
	if err := s.coupons.DeleteCoupon(ctx, id); err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}
	return nil
}
