package v1

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// User roles. Mutating admin routes require RoleAdmin.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "user"
)

// Order status progression. Processing → Shipped → Delivered; Delivered is terminal.
const (
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
)

// User is an account record. The ID is provided by the identity provider
// at signup, not generated server-side.
type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Photo     string    `json:"photo"`
	Role      string    `json:"role"`
	Gender    string    `json:"gender"`
	DOB       time.Time `json:"dob"`
	CreatedAt time.Time `json:"createdAt"`
}

// Age derives the user's age in whole years as of now.
func (u *User) Age(now time.Time) int {
	age := now.Year() - u.DOB.Year()
	if now.YearDay() < u.DOB.YearDay() {
		age--
	}
	return age
}

// Validate ensures a signup payload carries every required field.
func (u *User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("_id is required")
	}
	if u.Name == "" {
		return fmt.Errorf("name is required")
	}
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	if u.Photo == "" {
		return fmt.Errorf("photo is required")
	}
	if u.Gender == "" {
		return fmt.Errorf("gender is required")
	}
	if u.DOB.IsZero() {
		return fmt.Errorf("dob is required")
	}
	return nil
}

// Photo is one stored product image.
type Photo struct {
	ID  string `json:"public_id"`
	URL string `json:"url"`
}

// Product is a catalog entry. Ratings and NumReviews are denormalized from
// the reviews table and recomputed on every review mutation.
type Product struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
	Photos      []Photo         `json:"photos"`
	Ratings     decimal.Decimal `json:"ratings"`
	NumReviews  int64           `json:"numOfReviews"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ShippingInfo is the delivery address embedded in an order.
type ShippingInfo struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	PinCode string `json:"pinCode"`
}

// OrderItem is one product line within an order. Name, photo and price are
// captured at purchase time so later product edits don't rewrite history.
type OrderItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Photo     string          `json:"photo"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
}

// Order is a placed order.
type Order struct {
	ID              string          `json:"_id"`
	UserID          string          `json:"user"`
	Status          string          `json:"status"`
	Shipping        ShippingInfo    `json:"shippingInfo"`
	Items           []OrderItem     `json:"orderItems"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	ShippingCharges decimal.Decimal `json:"shippingCharges"`
	Discount        decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Validate checks the required fields of a new order.
func (o *Order) Validate() error {
	if o.UserID == "" {
		return fmt.Errorf("user is required")
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("orderItems is required")
	}
	if o.Shipping == (ShippingInfo{}) {
		return fmt.Errorf("shippingInfo is required")
	}
	if o.Subtotal.IsZero() {
		return fmt.Errorf("subtotal is required")
	}
	if o.Tax.IsZero() {
		return fmt.Errorf("tax is required")
	}
	if o.Total.IsZero() {
		return fmt.Errorf("total is required")
	}
	return nil
}

// NextStatus returns the status an order moves to when processed.
func NextStatus(current string) string {
	switch current {
	case StatusProcessing:
		return StatusShipped
	default:
		return StatusDelivered
	}
}

// Review is one user's review of one product. At most one review exists
// per (user, product) pair; repeat submissions update in place.
type Review struct {
	ID               string    `json:"_id"`
	UserID           string    `json:"user"`
	ProductID        string    `json:"product"`
	Comment          string    `json:"comment"`
	Rating           int64     `json:"rating"`
	VerifiedPurchase bool      `json:"verifiedPurchase"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Coupon is a flat-amount discount code.
type Coupon struct {
	ID     string          `json:"_id"`
	Code   string          `json:"coupon"`
	Amount decimal.Decimal `json:"amount"`
}
