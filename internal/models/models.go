package models

import (
	"encoding/json"
	"math"
	"time"
)

// Category is the closed set of product categories the shop sells.
type Category string

const (
	CategoryCosmetics   Category = "Cosmetics"
	CategoryElectronics Category = "Electronics"
	CategoryFood        Category = "Food"
	CategoryClothes     Category = "Clothes"
	CategorySports      Category = "Sports"
)

var Categories = []Category{
	CategoryCosmetics,
	CategoryElectronics,
	CategoryFood,
	CategoryClothes,
	CategorySports,
}

func ValidCategory(c string) bool {
	for _, cat := range Categories {
		if string(cat) == c {
			return true
		}
	}
	return false
}

type Product struct {
	ID            int               `json:"id"`
	Name          string            `json:"name"`
	Price         float64           `json:"price"`
	ImageURL      string            `json:"image_url"`
	Category      string            `json:"category"`
	StockQuantity int               `json:"stock_quantity"`
	Details       map[string]string `json:"details"` // free-form key/value attributes
	CreatedAt     time.Time         `json:"created_at"`
}

func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Profile holds the role-specific fields stored in the users.specific_info
// JSON column. Which fields are meaningful depends on User.Role.
type Profile struct {
	Address       string `json:"address,omitempty"`        // customer
	LoyaltyPoints int    `json:"loyalty_points,omitempty"` // customer
	Department    string `json:"department,omitempty"`     // admin
}

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Mobile       string    `json:"mobile"`
	Profile      Profile   `json:"profile"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CartItem is a (user, product, quantity) row joined with the product fields
// needed for display and stock checks.
type CartItem struct {
	ID          int     `json:"id"`
	UserID      int     `json:"user_id"`
	ProductID   int     `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	ImageURL    string  `json:"image_url"`
	Stock       int     `json:"stock"`
	Quantity    int     `json:"quantity"`
}

func (ci *CartItem) LineTotal() float64 {
	return float64(ci.Quantity) * ci.UnitPrice
}

type WishlistItem struct {
	ID          int     `json:"id"`
	UserID      int     `json:"user_id"`
	ProductID   int     `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	ImageURL    string  `json:"image_url"`
	Stock       int     `json:"stock"`
}

type ShippingAddress struct {
	FullName     string `json:"full_name"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
	Phone        string `json:"phone"`
}

// ToJSON serializes the address for the orders.shipping_address column.
func (a ShippingAddress) ToJSON() string {
	b, _ := json.Marshal(a)
	return string(b)
}

func AddressFromJSON(s string) (ShippingAddress, error) {
	var a ShippingAddress
	err := json.Unmarshal([]byte(s), &a)
	return a, err
}

// OrderItem is a purchased-quantity snapshot. PriceAtPurchase is copied at
// checkout time and never follows later product price changes.
type OrderItem struct {
	ID              int     `json:"id"`
	OrderID         int     `json:"order_id"`
	ProductID       int     `json:"product_id"`
	ProductName     string  `json:"product_name"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase float64 `json:"price_at_purchase"`
}

func (oi *OrderItem) Subtotal() float64 {
	return float64(oi.Quantity) * oi.PriceAtPurchase
}

type Order struct {
	ID              int             `json:"id"`
	UserID          int             `json:"user_id"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
	TransactionID   string          `json:"transaction_id"`
	Status          OrderStatus     `json:"status"`
	Subtotal        float64         `json:"subtotal"`
	ShippingCost    float64         `json:"shipping_cost"`
	TotalAmount     float64         `json:"total_amount"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type Review struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	ProductID int       `json:"product_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Username  string    `json:"username"` // joined for display
	CreatedAt time.Time `json:"created_at"`
}

// RoundCents rounds a money amount to two decimal places.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
