package testutil

import (
	"context"

	"studio8/internal/booking"
	"studio8/internal/models"
)

// Catalog is a fixed booking.CatalogReader.
type Catalog struct {
	Packages map[string]*models.Package
	AddOns   []models.AddOn
}

func (c *Catalog) GetPackage(ctx context.Context, id string) (*models.Package, error) {
	p, ok := c.Packages[id]
	if !ok || !p.IsActive {
		return nil, booking.NotFound("package", id)
	}
	return p, nil
}

func (c *Catalog) ListAddOns(ctx context.Context) ([]models.AddOn, error) {
	return c.AddOns, nil
}

// Settings is a fixed booking.SettingsReader; Err, when set, is returned instead.
type Settings struct {
	Value booking.LoyaltySettings
	Err   error
}

func (s *Settings) LoyaltySettings(ctx context.Context) (booking.LoyaltySettings, error) {
	if s.Err != nil {
		return booking.LoyaltySettings{}, s.Err
	}
	return s.Value, nil
}

// SampleCatalog has one single and one group package plus a print add-on.
func SampleCatalog() *Catalog {
	return &Catalog{
		Packages: map[string]*models.Package{
			"self-photo": {
				ID: "self-photo", Name: "Self Photo", IsActive: true,
				SubPackages: []models.SubPackage{
					{ID: "self-15", PackageID: "self-photo", Name: "15 Menit", Price: 100000},
					{ID: "self-30", PackageID: "self-photo", Name: "30 Menit", Price: 200000},
				},
			},
			"group": {
				ID: "group", Name: "Group Photo", IsGroupPackage: true, IsActive: true,
				SubPackages: []models.SubPackage{
					{ID: "group-30", PackageID: "group", Name: "30 Menit", Price: 250000},
				},
			},
		},
		AddOns: []models.AddOn{
			{ID: "print", Name: "Extra Print", IsActive: true, SubAddOns: []models.SubAddOn{
				{ID: "print-4r", AddOnID: "print", Name: "4R", Price: 10000},
			}},
		},
	}
}
