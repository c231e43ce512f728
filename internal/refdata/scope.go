package refdata

// ResolveScope flattens a mixed selection of org-node ids (facility, sub-region,
// region or country) into a deduplicated facility id list, preserving first-seen
// order. An empty selection resolves to every facility in the snapshot.
func (s *Snapshot) ResolveScope(selected []string) []string {
	if len(selected) == 0 {
		out := make([]string, 0, len(s.Org.Facilities))
		for _, f := range s.Org.Facilities {
			out = append(out, f.ID)
		}
		return out
	}

	seen := make(map[string]bool)
	var out []string
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}

	for _, sel := range selected {
		if s.Facility(sel) != nil {
			add(sel)
			continue
		}
		if subRegionIDs := s.subRegionsUnder(sel); len(subRegionIDs) > 0 {
			for _, f := range s.Org.Facilities {
				if subRegionIDs[f.SubRegionID] {
					add(f.ID)
				}
			}
		}
	}
	return out
}

// subRegionsUnder returns the sub-region ids covered by an org node id, which
// may itself be a sub-region, a region or a country. Unknown ids yield nothing.
func (s *Snapshot) subRegionsUnder(id string) map[string]bool {
	out := make(map[string]bool)

	for _, sr := range s.Org.SubRegions {
		if sr.ID == id {
			out[sr.ID] = true
			return out
		}
	}

	regionIDs := make(map[string]bool)
	for _, r := range s.Org.Regions {
		if r.ID == id {
			regionIDs[r.ID] = true
		}
	}
	if len(regionIDs) == 0 {
		for _, c := range s.Org.Countries {
			if c.ID == id {
				for _, r := range s.Org.Regions {
					if r.CountryID == c.ID {
						regionIDs[r.ID] = true
					}
				}
			}
		}
	}

	for _, sr := range s.Org.SubRegions {
		if regionIDs[sr.RegionID] {
			out[sr.ID] = true
		}
	}
	return out
}
