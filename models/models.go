package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles. Official dealers require manual verification before the
// verified badge shows up on their listings.
const (
	RoleConsumer       = "CONSUMER"
	RoleDealerSemi     = "DEALER_SEMI"
	RoleDealerOfficial = "DEALER_OFFICIAL"
)

// Car condition.
const (
	ConditionBaru  = "BARU"
	ConditionBekas = "BEKAS"
)

// Photo positions every listing must cover.
const (
	PositionDepan        = "DEPAN"
	PositionSampingKiri  = "SAMPING_KIRI"
	PositionSampingKanan = "SAMPING_KANAN"
	PositionBelakang     = "BELAKANG"
	PositionDalam        = "DALAM"
	PositionDashboard    = "DASHBOARD"
)

// RequiredPositions is the canonical photo set, in the order missing
// positions are reported back to the seller.
var RequiredPositions = []string{
	PositionDepan,
	PositionSampingKiri,
	PositionSampingKanan,
	PositionBelakang,
	PositionDalam,
	PositionDashboard,
}

type User struct {
	ID          string         `gorm:"primarykey;size:36" json:"id"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Email       string         `gorm:"size:255;not null;unique" json:"email"`
	Password    string         `gorm:"size:255;not null" json:"-"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Phone       string         `gorm:"size:32;not null" json:"phone"`
	Role        string         `gorm:"size:16;not null;default:CONSUMER" json:"role"`
	DealerBrand *string        `gorm:"size:64" json:"dealerBrand"`
	NameTagURL  *string        `json:"nameTagUrl"`
	IsVerified  bool           `json:"isVerified"`
	Cars        []Car          `json:"cars,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Profile is the owner subset exposed alongside listings. The name tag
// photo is only shown on the detail view.
type Profile struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	Role        string  `json:"role"`
	DealerBrand *string `json:"dealerBrand"`
	IsVerified  bool    `json:"isVerified"`
	NameTagURL  *string `json:"nameTagUrl,omitempty"`
}

func (u *User) Profile(withNameTag bool) Profile {
	p := Profile{
		ID:          u.ID,
		Name:        u.Name,
		Phone:       u.Phone,
		Role:        u.Role,
		DealerBrand: u.DealerBrand,
		IsVerified:  u.IsVerified,
	}
	if withNameTag {
		p.NameTagURL = u.NameTagURL
	}
	return p
}

type Car struct {
	ID           string         `gorm:"primarykey;size:36" json:"id"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	UserID       string         `gorm:"size:36;not null;index" json:"userId"`
	User         *User          `json:"user,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	Brand        string         `gorm:"size:64;not null" json:"brand"`
	Model        string         `gorm:"size:64;not null" json:"model"`
	Year         int            `gorm:"not null" json:"year"`
	Description  string         `json:"description"`
	Condition    string         `gorm:"size:8;not null" json:"condition"`
	Price        float64        `gorm:"not null" json:"price"`
	Address      string         `json:"address"`
	City         string         `gorm:"size:64" json:"city"`
	Province     string         `gorm:"size:64" json:"province"`
	Mileage      *int           `json:"mileage"`
	Transmission string         `gorm:"size:16" json:"transmission"`
	FuelType     string         `gorm:"size:16" json:"fuelType"`
	Color        string         `gorm:"size:32" json:"color"`
	TaxStatus    string         `gorm:"size:32" json:"taxStatus"`
	TaxYear      *int           `json:"taxYear"`
	StnkStatus   string         `gorm:"size:32" json:"stnkStatus"`
	Views        int            `json:"views"`
	IsActive     bool           `gorm:"default:true" json:"isActive"`
	Images       []CarImage     `json:"images,omitempty"`
}

func (c *Car) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type CarImage struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	CarID     string    `gorm:"size:36;not null;index" json:"carId"`
	URL       string    `gorm:"not null" json:"url"`
	Position  string    `gorm:"size:16;not null" json:"position"`
}
