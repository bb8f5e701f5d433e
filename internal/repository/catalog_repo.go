package repository

import (
	"context"

	"studio8/internal/models"

	"gorm.io/gorm"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// GetPackage returns an active package with its sub-packages. Inactive packages are not bookable.
func (r *CatalogRepository) GetPackage(ctx context.Context, id string) (*models.Package, error) {
	var p models.Package
	err := r.db.WithContext(ctx).Preload("SubPackages").
		Where("id = ? AND is_active = ?", id, true).First(&p).Error
	if err != nil {
		return nil, notFound(err, "package", id)
	}
	return &p, nil
}

// ListAddOns returns the active add-on groups with their items.
func (r *CatalogRepository) ListAddOns(ctx context.Context) ([]models.AddOn, error) {
	var list []models.AddOn
	err := r.db.WithContext(ctx).Preload("SubAddOns").
		Where("is_active = ?", true).Order("name ASC").Find(&list).Error
	return list, err
}

func (r *CatalogRepository) ListPackages(ctx context.Context, includeInactive bool) ([]models.Package, error) {
	q := r.db.WithContext(ctx).Preload("SubPackages")
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	var list []models.Package
	err := q.Order("name ASC").Find(&list).Error
	return list, err
}

func (r *CatalogRepository) ListAllAddOns(ctx context.Context) ([]models.AddOn, error) {
	var list []models.AddOn
	err := r.db.WithContext(ctx).Preload("SubAddOns").Order("name ASC").Find(&list).Error
	return list, err
}

// SavePackage creates or replaces a package and its sub-packages. Sub-packages missing from
// p are removed; existing bookings keep their snapshots.
func (r *CatalogRepository) SavePackage(ctx context.Context, p *models.Package) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subs := p.SubPackages
		p.SubPackages = nil
		if err := tx.Save(p).Error; err != nil {
			return err
		}
		keep := make([]string, 0, len(subs))
		for i := range subs {
			subs[i].PackageID = p.ID
			if err := tx.Save(&subs[i]).Error; err != nil {
				return err
			}
			keep = append(keep, subs[i].ID)
		}
		del := tx.Where("package_id = ?", p.ID)
		if len(keep) > 0 {
			del = del.Where("id NOT IN ?", keep)
		}
		if err := del.Delete(&models.SubPackage{}).Error; err != nil {
			return err
		}
		p.SubPackages = subs
		return nil
	})
}

func (r *CatalogRepository) DeletePackage(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Package{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "package", id)
	}
	return nil
}

// SaveAddOn creates or replaces an add-on group and its items.
func (r *CatalogRepository) SaveAddOn(ctx context.Context, a *models.AddOn) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subs := a.SubAddOns
		a.SubAddOns = nil
		if err := tx.Save(a).Error; err != nil {
			return err
		}
		keep := make([]string, 0, len(subs))
		for i := range subs {
			subs[i].AddOnID = a.ID
			if err := tx.Save(&subs[i]).Error; err != nil {
				return err
			}
			keep = append(keep, subs[i].ID)
		}
		del := tx.Where("add_on_id = ?", a.ID)
		if len(keep) > 0 {
			del = del.Where("id NOT IN ?", keep)
		}
		if err := del.Delete(&models.SubAddOn{}).Error; err != nil {
			return err
		}
		a.SubAddOns = subs
		return nil
	})
}

func (r *CatalogRepository) DeleteAddOn(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.AddOn{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "add-on", id)
	}
	return nil
}
