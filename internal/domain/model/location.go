package model

// LocationRole classifies how a physical location participates in the
// distribution: stores receive pack-ratio shares, the office takes a small
// fixed carve-out, and the sink (warehouse) absorbs everything left over.
//
// @Description Role of a location in the distribution
type LocationRole string

const (
	// RoleStore is a retail store that receives whole-pack shares.
	RoleStore LocationRole = "store"
	// RoleOffice is the office location that takes the fixed sample carve-out.
	RoleOffice LocationRole = "office"
	// RoleSink is the warehouse location that absorbs leftovers and overage.
	RoleSink LocationRole = "sink"
)

// ValidRole reports whether r is a known location role.
func ValidRole(r LocationRole) bool {
	switch r {
	case RoleStore, RoleOffice, RoleSink:
		return true
	}
	return false
}

// Location is a configured physical destination. The role is resolved once
// at configuration time; the engine never matches on names.
//
// @Description Configured allocation destination
type Location struct {
	// Name is the display name of the location.
	Name string `json:"name" bson:"name" example:"Teaneck"`
	// Role determines how the location participates in distribution.
	Role LocationRole `json:"role" bson:"role" example:"store"`
}

// LocationSet is an ordered list of configured locations. Order matters:
// it is the fallback destination order when no sink is configured.
type LocationSet []Location

// Names returns the location names in configured order.
func (ls LocationSet) Names() []string {
	names := make([]string, len(ls))
	for i, loc := range ls {
		names[i] = loc.Name
	}
	return names
}

// ByName returns the location with the given name, if present.
func (ls LocationSet) ByName(name string) (Location, bool) {
	for _, loc := range ls {
		if loc.Name == name {
			return loc, true
		}
	}
	return Location{}, false
}

// Office returns the office location, if one is configured.
func (ls LocationSet) Office() (Location, bool) {
	return ls.byRole(RoleOffice)
}

// Sink returns the sink location, if one is configured.
func (ls LocationSet) Sink() (Location, bool) {
	return ls.byRole(RoleSink)
}

// Stores returns the store locations in configured order.
func (ls LocationSet) Stores() []Location {
	stores := make([]Location, 0, len(ls))
	for _, loc := range ls {
		if loc.Role == RoleStore {
			stores = append(stores, loc)
		}
	}
	return stores
}

func (ls LocationSet) byRole(role LocationRole) (Location, bool) {
	for _, loc := range ls {
		if loc.Role == role {
			return loc, true
		}
	}
	return Location{}, false
}
