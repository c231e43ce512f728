package refdata

import "sort"

// cement-family codes from the catalog reference table. Anything shipped to
// customers simulates as CEMENT regardless of its commercial family.
var cementFamilyCodes = map[string]bool{
	"CEM":  true,
	"WHT":  true,
	"ASH":  true,
	"SLAG": true,
}

// FamilyOf classifies a product into its simulation family. The family table
// is authoritative; products without a family fall back to their category.
func (s *Snapshot) FamilyOf(productID string) Family {
	p := s.Product(productID)
	if p == nil {
		return FamilyOther
	}
	if p.FamilyID != "" {
		if fam := s.family(p.FamilyID); fam != nil {
			switch {
			case fam.Code == "CLNK":
				return FamilyClinker
			case cementFamilyCodes[fam.Code]:
				return FamilyCement
			case fam.Code == "FUEL":
				return FamilyFuel
			case fam.Code == "RAW":
				return FamilyRaw
			}
		}
	}
	switch p.Category {
	case CategoryIntermediate:
		return FamilyClinker
	case CategoryFinished:
		return FamilyCement
	case CategoryFuel:
		return FamilyFuel
	case CategoryRaw:
		return FamilyRaw
	}
	return FamilyOther
}

func (s *Snapshot) family(id string) *ProductFamily {
	for i := range s.Families {
		if s.Families[i].ID == id {
			return &s.Families[i]
		}
	}
	return nil
}

// Product returns the catalog entry for id, or nil.
func (s *Snapshot) Product(id string) *Product {
	for i := range s.Catalog {
		if s.Catalog[i].ID == id {
			return &s.Catalog[i]
		}
	}
	return nil
}

// Facility returns the facility for id, or nil.
func (s *Snapshot) Facility(id string) *Facility {
	for i := range s.Org.Facilities {
		if s.Org.Facilities[i].ID == id {
			return &s.Org.Facilities[i]
		}
	}
	return nil
}

// FacilityRegionID resolves a facility to its region through the sub-region,
// or "" when the hierarchy is incomplete.
func (s *Snapshot) FacilityRegionID(facilityID string) string {
	fac := s.Facility(facilityID)
	if fac == nil {
		return ""
	}
	for _, sr := range s.Org.SubRegions {
		if sr.ID == fac.SubRegionID {
			return sr.RegionID
		}
	}
	return ""
}

// FacilityEquipment returns the facility's equipment filtered by type; pass ""
// for all types.
func (s *Snapshot) FacilityEquipment(facilityID string, typ EquipmentType) []Equipment {
	var out []Equipment
	for _, e := range s.Data.Equipment {
		if e.FacilityID == facilityID && (typ == "" || e.Type == typ) {
			out = append(out, e)
		}
	}
	return out
}

// FacilityStorages returns all storages belonging to a facility.
func (s *Snapshot) FacilityStorages(facilityID string) []Storage {
	var out []Storage
	for _, st := range s.Data.Storages {
		if st.FacilityID == facilityID {
			out = append(out, st)
		}
	}
	return out
}

// CapsForEquipment returns the capability lines of one equipment unit.
func (s *Snapshot) CapsForEquipment(equipmentID string) []Capability {
	var out []Capability
	for _, c := range s.Data.Capabilities {
		if c.EquipmentID == equipmentID {
			out = append(out, c)
		}
	}
	return out
}

// LatestRecipe returns the highest-version recipe for a product at a facility,
// or nil when none exists. Version numbers are authoritative; no time-bounded
// versioning applies at simulation time.
func (s *Snapshot) LatestRecipe(facilityID, productID string) *Recipe {
	var candidates []Recipe
	for _, r := range s.Data.Recipes {
		if r.FacilityID == facilityID && r.ProductID == productID {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Version > candidates[j].Version
	})
	return &candidates[0]
}

// ActivatedProductIDs returns the set of products explicitly activated for a
// facility. An empty set means no activation rows exist and the full regional
// catalog applies.
func (s *Snapshot) ActivatedProductIDs(facilityID string) map[string]bool {
	ids := make(map[string]bool)
	for _, fp := range s.Data.FacilityProducts {
		if fp.FacilityID == facilityID {
			ids[fp.ProductID] = true
		}
	}
	return ids
}

// FinishedProducts returns the finished products active at a facility:
// the activated subset when activations exist, else the facility's regional
// catalog. Once the facility resolves to a region, only that region's catalog
// entries qualify; products without a region are not sold anywhere.
func (s *Snapshot) FinishedProducts(facilityID string) []Product {
	activated := s.ActivatedProductIDs(facilityID)
	regionID := s.FacilityRegionID(facilityID)

	var out []Product
	for _, p := range s.Catalog {
		if p.Category != CategoryFinished {
			continue
		}
		if regionID != "" && p.RegionID != regionID {
			continue
		}
		if len(activated) > 0 && !activated[p.ID] {
			continue
		}
		out = append(out, p)
	}
	return out
}
