package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Имена ролей совпадают со значениями roles.name, засеянными миграцией.
const (
	RoleUser       = "user"
	RoleManager    = "manager"
	RolePastryChef = "pastry_chef"
)

// Статус заказа хранится строкой, как её видит клиент.
type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "Новый"
	OrderStatusInWork    OrderStatus = "В работе"
	OrderStatusReady     OrderStatus = "Готов"
	OrderStatusDelivered OrderStatus = "Выдан"
)

var OrderStatuses = []OrderStatus{
	OrderStatusNew,
	OrderStatusInWork,
	OrderStatusReady,
	OrderStatusDelivered,
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type ComponentType string

const (
	ComponentFilling  ComponentType = "filling"
	ComponentCakeBase ComponentType = "cake_base"
)

type Role struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"size:50;not null;uniqueIndex:ux_roles_name" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
}

func (Role) TableName() string { return "roles" }

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string    `gorm:"size:255;not null" json:"email"` // уникальность через lower(email)
	PasswordHash string    `gorm:"not null" json:"-"`
	FullName     string    `gorm:"size:100;not null" json:"fullName"`
	Phone        *string   `gorm:"size:20" json:"phone,omitempty"`
	RoleID       uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Role         *Role     `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"createdAt"`
}

func (User) TableName() string { return "users" }

// RoleName возвращает имя роли, если она подгружена.
func (u *User) RoleName() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Name
}

type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string          `gorm:"size:200;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Weight      string          `gorm:"size:50" json:"weight"`
	ImageURL    string          `gorm:"column:image_url;size:500" json:"imageUrl"`
	Category    string          `gorm:"size:50;not null;index" json:"category"`
	CreatedAt   time.Time       `gorm:"not null;default:now()" json:"createdAt"`
}

func (Product) TableName() string { return "products" }

type Component struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Type             ComponentType   `gorm:"type:text;not null;index" json:"type"`
	Name             string          `gorm:"size:100;not null" json:"name"`
	Description      string          `gorm:"type:text" json:"description,omitempty"`
	BasePricePerUnit decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"basePricePerUnit"`
	ComplexityPoints int             `gorm:"not null;default:0" json:"complexityPoints"`
	IsSeasonal       bool            `gorm:"not null;default:false" json:"isSeasonal"`
	SeasonStart      *time.Time      `gorm:"type:date" json:"seasonStart,omitempty"`
	SeasonEnd        *time.Time      `gorm:"type:date" json:"seasonEnd,omitempty"`
	CreatedAt        time.Time       `gorm:"not null;default:now()" json:"createdAt"`
}

func (Component) TableName() string { return "components" }

type CustomCake struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"userId"`
	Name         string          `gorm:"size:200;not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	Weight       decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"weight"`
	TotalPrice   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"totalPrice"`
	DeliveryDate *time.Time      `gorm:"type:date" json:"deliveryDate,omitempty"`
	CreatedAt    time.Time       `gorm:"not null;default:now()" json:"createdAt"`

	Components []CustomCakeComponent `gorm:"foreignKey:CustomCakeID;constraint:OnDelete:CASCADE" json:"components,omitempty"`
}

func (CustomCake) TableName() string { return "custom_cakes" }

// CustomCakeComponent связывает торт с компонентами. Путь оформления заказа
// её пока не заполняет: состав передаётся текстом в описании.
type CustomCakeComponent struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomCakeID uuid.UUID `gorm:"type:uuid;not null;index" json:"customCakeId"`
	ComponentID  uuid.UUID `gorm:"type:uuid;not null;index" json:"componentId"`
	Quantity     int       `gorm:"not null;default:1" json:"quantity"`
}

func (CustomCakeComponent) TableName() string { return "custom_cake_components" }

type Order struct {
	ID                  uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Number              string          `gorm:"size:16;not null;uniqueIndex:ux_orders_number" json:"number"`
	UserID              uuid.UUID       `gorm:"type:uuid;not null;index" json:"userId"`
	User                *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status              OrderStatus     `gorm:"size:50;not null;default:'Новый';index" json:"status"`
	TotalAmount         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"totalAmount"`
	PaidAmount          decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"paidAmount"`
	DeliveryAddress     string          `gorm:"size:500" json:"deliveryAddress"`
	Comments            string          `gorm:"type:text" json:"comments"`
	DesiredDeliveryDate *time.Time      `gorm:"type:date" json:"desiredDeliveryDate,omitempty"`
	CreatedAt           time.Time       `gorm:"not null;default:now();index" json:"createdAt"`
	UpdatedAt           time.Time       `gorm:"not null;default:now()" json:"updatedAt"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

func (Order) TableName() string { return "orders" }

// OrderItem ссылается ровно на одно из: Product или CustomCake (CHECK в миграции).
type OrderItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"orderId"`
	ProductID    *uuid.UUID      `gorm:"type:uuid;index" json:"productId,omitempty"`
	Product      *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CustomCakeID *uuid.UUID      `gorm:"type:uuid;index" json:"customCakeId,omitempty"`
	CustomCake   *CustomCake     `gorm:"foreignKey:CustomCakeID" json:"customCake,omitempty"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unitPrice"`
}

func (OrderItem) TableName() string { return "order_items" }

// LineTotal: цена позиции с учётом количества.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_cart_items_user_product" json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_cart_items_user_product" json:"productId"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	AddedAt   time.Time `gorm:"not null;default:now();index" json:"addedAt"`
}

func (CartItem) TableName() string { return "cart_items" }

type Notification struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	Title  string    `gorm:"size:200;not null" json:"title"`
	Text   string    `gorm:"type:text;not null" json:"text"`
	IsRead bool      `gorm:"not null;default:false" json:"isRead"`
	SentAt time.Time `gorm:"not null;default:now();index" json:"sentAt"`
}

func (Notification) TableName() string { return "notifications" }

type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	AuthorName string    `gorm:"size:100;not null" json:"authorName"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	Rating     *int      `json:"rating,omitempty"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"createdAt"`
}

func (Review) TableName() string { return "reviews" }
