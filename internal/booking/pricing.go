package booking

import "studio8/internal/models"

// Selection is what the submitter picked from the catalog.
type Selection struct {
	PackageID    string
	SubPackageID string
	SubAddOnIDs  []string
	People       int
}

// PricingRules are the process-wide constants of the pricing engine.
type PricingRules struct {
	ExtraPersonCharge  int64
	GroupBaseHeadcount int
}

func DefaultPricingRules() PricingRules {
	return PricingRules{ExtraPersonCharge: 15000, GroupBaseHeadcount: 2}
}

// Quote is the priced selection, with catalog data copied as booking snapshots.
type Quote struct {
	Package           models.PackageSnapshot
	AddOns            []models.AddOnSnapshot
	ExtraPersonCharge int64
	Subtotal          int64
}

// Price validates sel against the catalog snapshot and computes the subtotal:
// sub-package price + selected sub-add-ons + group surcharge.
func Price(pkg *models.Package, addOns []models.AddOn, sel Selection, rules PricingRules) (*Quote, error) {
	if pkg == nil || pkg.ID != sel.PackageID {
		return nil, NotFound("package", sel.PackageID)
	}
	sub := pkg.SubPackage(sel.SubPackageID)
	if sub == nil {
		return nil, NotFound("sub-package", sel.SubPackageID)
	}

	index := make(map[string]models.AddOnSnapshot)
	for _, group := range addOns {
		for _, s := range group.SubAddOns {
			index[s.ID] = models.AddOnSnapshot{
				AddOnID:    group.ID,
				AddOnName:  group.Name,
				SubAddOnID: s.ID,
				Name:       s.Name,
				Price:      s.Price,
			}
		}
	}

	q := &Quote{
		Package: models.PackageSnapshot{
			PackageID:      pkg.ID,
			PackageName:    pkg.Name,
			IsGroupPackage: pkg.IsGroupPackage,
			SubPackageID:   sub.ID,
			SubPackageName: sub.Name,
			Price:          sub.Price,
		},
		AddOns: make([]models.AddOnSnapshot, 0, len(sel.SubAddOnIDs)),
	}
	subtotal := sub.Price
	picked := make(map[string]bool, len(sel.SubAddOnIDs))
	for _, id := range sel.SubAddOnIDs {
		if picked[id] {
			continue
		}
		snap, ok := index[id]
		if !ok {
			return nil, NotFound("add-on", id)
		}
		picked[id] = true
		q.AddOns = append(q.AddOns, snap)
		subtotal += snap.Price
	}

	q.ExtraPersonCharge = ExtraPersonCharge(pkg.IsGroupPackage, sel.People, rules)
	q.Subtotal = subtotal + q.ExtraPersonCharge
	return q, nil
}

// ExtraPersonCharge applies the flat surcharge to every person beyond the base headcount
// of a group package. No proration, no cap.
func ExtraPersonCharge(isGroupPackage bool, people int, rules PricingRules) int64 {
	if !isGroupPackage || people <= rules.GroupBaseHeadcount {
		return 0
	}
	return int64(people-rules.GroupBaseHeadcount) * rules.ExtraPersonCharge
}
