package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Package is a bookable photo-session product. Its variants (SubPackages) carry the price.
type Package struct {
	ID             string         `gorm:"primaryKey;size:64" json:"id"`
	Name           string         `gorm:"size:150;not null" json:"name"`
	Description    string         `gorm:"type:text" json:"description"`
	IsGroupPackage bool           `gorm:"default:false" json:"is_group_package"`
	IsActive       bool           `gorm:"default:true" json:"is_active"`
	ImageURL       string         `gorm:"size:512" json:"image_url"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	SubPackages []SubPackage `gorm:"foreignKey:PackageID" json:"sub_packages"`
}

func (Package) TableName() string { return "packages" }

func (p *Package) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// SubPackage returns the variant with the given ID, or nil.
func (p *Package) SubPackage(id string) *SubPackage {
	for i := range p.SubPackages {
		if p.SubPackages[i].ID == id {
			return &p.SubPackages[i]
		}
	}
	return nil
}

type SubPackage struct {
	ID          string         `gorm:"primaryKey;size:64" json:"id"`
	PackageID   string         `gorm:"size:64;not null;index" json:"package_id"`
	Name        string         `gorm:"size:150;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Price       int64          `gorm:"not null;default:0" json:"price"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (SubPackage) TableName() string { return "sub_packages" }

func (s *SubPackage) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// AddOn groups priced SubAddOn variants (e.g. "Extra Print" -> 4R, 10R).
type AddOn struct {
	ID        string         `gorm:"primaryKey;size:64" json:"id"`
	Name      string         `gorm:"size:150;not null" json:"name"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	SubAddOns []SubAddOn `gorm:"foreignKey:AddOnID" json:"sub_add_ons"`
}

func (AddOn) TableName() string { return "add_ons" }

func (a *AddOn) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

type SubAddOn struct {
	ID        string         `gorm:"primaryKey;size:64" json:"id"`
	AddOnID   string         `gorm:"size:64;not null;index" json:"add_on_id"`
	Name      string         `gorm:"size:150;not null" json:"name"`
	Price     int64          `gorm:"not null;default:0" json:"price"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (SubAddOn) TableName() string { return "sub_add_ons" }

func (s *SubAddOn) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
