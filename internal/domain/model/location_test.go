package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testLocations() LocationSet {
	return LocationSet{
		{Name: "Cedarhurst", Role: RoleStore},
		{Name: "Lakewood", Role: RoleStore},
		{Name: "Office", Role: RoleOffice},
		{Name: "Warehouse", Role: RoleSink},
	}
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleStore))
	assert.True(t, ValidRole(RoleOffice))
	assert.True(t, ValidRole(RoleSink))
	assert.False(t, ValidRole("depot"))
	assert.False(t, ValidRole(""))
}

func TestLocationSet_Names(t *testing.T) {
	names := testLocations().Names()
	assert.Equal(t, []string{"Cedarhurst", "Lakewood", "Office", "Warehouse"}, names)
}

func TestLocationSet_ByName(t *testing.T) {
	ls := testLocations()

	loc, ok := ls.ByName("Lakewood")
	assert.True(t, ok)
	assert.Equal(t, RoleStore, loc.Role)

	_, ok = ls.ByName("Monsey")
	assert.False(t, ok)
}

func TestLocationSet_Roles(t *testing.T) {
	ls := testLocations()

	office, ok := ls.Office()
	assert.True(t, ok)
	assert.Equal(t, "Office", office.Name)

	sink, ok := ls.Sink()
	assert.True(t, ok)
	assert.Equal(t, "Warehouse", sink.Name)

	stores := ls.Stores()
	assert.Len(t, stores, 2)
	assert.Equal(t, "Cedarhurst", stores[0].Name)
	assert.Equal(t, "Lakewood", stores[1].Name)
}

func TestLocationSet_NoOfficeOrSink(t *testing.T) {
	ls := LocationSet{
		{Name: "Flagship", Role: RoleStore},
	}

	_, ok := ls.Office()
	assert.False(t, ok)

	_, ok = ls.Sink()
	assert.False(t, ok)
	assert.Len(t, ls.Stores(), 1)
}
