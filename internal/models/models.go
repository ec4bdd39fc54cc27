package models

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         Role   `gorm:"not null"                 json:"role"`
}

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null"                 json:"name"`
	Price       float64 `gorm:"not null"                 json:"price"`
	Img         string  `json:"img"`
	Description string  `json:"description"`
}

// CartLine holds one (user, product) pair; the composite unique index is the
// invariant that repeated adds bump quantity instead of inserting a twin row.
type CartLine struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"              json:"id"`
	Username  string `gorm:"uniqueIndex:idx_user_product;not null" json:"username"`
	ProductID uint   `gorm:"uniqueIndex:idx_user_product;not null" json:"product_id"`
	Quantity  uint   `gorm:"default:1"                             json:"quantity"`
}

func (CartLine) TableName() string {
	return "cart_lines"
}

type Address struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username string `gorm:"index;not null"           json:"username"`
	Text     string `gorm:"not null"                 json:"text"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Token     string    `gorm:"unique;not null"          json:"token"`
	Username  string    `gorm:"index;not null"           json:"username"`
	ExpiresAt time.Time `gorm:"not null"                 json:"expires_at"`
	Revoked   bool      `gorm:"default:false"            json:"revoked"`
}
