package service

import (
	"strings"

	"github.com/guttosm/allocation-service/internal/domain/model"
)

// ResolveLocations parses "Name:role" pairs into a LocationSet. Entries
// without an explicit role fall back to the canonical role for that name, or
// store when the name is unknown. An empty input yields the default
// six-location deployment.
func ResolveLocations(entries []string) model.LocationSet {
	if len(entries) == 0 {
		return append(model.LocationSet(nil), DefaultLocations...)
	}

	set := make(model.LocationSet, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		name := entry
		role := model.LocationRole("")
		if idx := strings.IndexByte(entry, ':'); idx >= 0 {
			name = strings.TrimSpace(entry[:idx])
			role = model.LocationRole(strings.ToLower(strings.TrimSpace(entry[idx+1:])))
		}
		if name == "" {
			continue
		}
		if !model.ValidRole(role) {
			role = defaultRoleFor(name)
		}
		set = append(set, model.Location{Name: name, Role: role})
	}

	if len(set) == 0 {
		return append(model.LocationSet(nil), DefaultLocations...)
	}
	return set
}

// defaultRoleFor returns the canonical role for a known location name.
func defaultRoleFor(name string) model.LocationRole {
	for _, loc := range DefaultLocations {
		if strings.EqualFold(loc.Name, name) {
			return loc.Role
		}
	}
	return model.RoleStore
}
