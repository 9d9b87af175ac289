// Package fixture holds the static datasets the assistant works from: the
// mock driver roster and the per-vehicle-type inspection catalogs. Both are
// embedded TOML, decoded once.
package fixture

import (
	"embed"
	"fmt"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jask/fleetassist/internal/roster"
)

//go:embed drivers.toml catalogs.toml
var files embed.FS

// Category is one section of an inspection form.
type Category struct {
	Name  string   `toml:"name"`
	Items []string `toml:"items"`
}

// Fleets is the fixed set of vehicle groups offered by the driver edit form.
var Fleets = []string{"Fleet A", "Fleet B", "Fleet C"}

type driverDoc struct {
	Drivers []driverRow `toml:"drivers"`
}

type driverRow struct {
	ID            string   `toml:"id"`
	Name          string   `toml:"name"`
	DisplayID     string   `toml:"display_id"`
	Email         string   `toml:"email"`
	MobileAccess  bool     `toml:"mobile_access"`
	AccountLocked bool     `toml:"account_locked"`
	VehicleGroups []string `toml:"vehicle_groups"`
}

type catalogDoc struct {
	Catalogs []struct {
		VehicleType string     `toml:"vehicle_type"`
		Categories  []Category `toml:"categories"`
	} `toml:"catalogs"`
}

var (
	once     sync.Once
	drivers  []roster.Driver
	catalogs map[string][]Category
	loadErr  error
)

func load() {
	raw, err := files.ReadFile("drivers.toml")
	if err != nil {
		loadErr = fmt.Errorf("read drivers fixture: %w", err)
		return
	}
	var dd driverDoc
	if err := toml.Unmarshal(raw, &dd); err != nil {
		loadErr = fmt.Errorf("decode drivers fixture: %w", err)
		return
	}
	for _, row := range dd.Drivers {
		drivers = append(drivers, roster.Driver{
			ID:            row.ID,
			Name:          row.Name,
			DisplayID:     row.DisplayID,
			Email:         row.Email,
			MobileAccess:  row.MobileAccess,
			AccountLocked: row.AccountLocked,
			VehicleGroups: row.VehicleGroups,
		})
	}

	raw, err = files.ReadFile("catalogs.toml")
	if err != nil {
		loadErr = fmt.Errorf("read catalogs fixture: %w", err)
		return
	}
	var cd catalogDoc
	if err := toml.Unmarshal(raw, &cd); err != nil {
		loadErr = fmt.Errorf("decode catalogs fixture: %w", err)
		return
	}
	catalogs = make(map[string][]Category, len(cd.Catalogs))
	for _, c := range cd.Catalogs {
		catalogs[c.VehicleType] = c.Categories
	}
}

// Drivers returns a fresh copy of the mock roster.
func Drivers() ([]roster.Driver, error) {
	once.Do(load)
	if loadErr != nil {
		return nil, loadErr
	}
	out := make([]roster.Driver, len(drivers))
	copy(out, drivers)
	return out, nil
}

// Catalog returns the category list for a vehicle type ("light", "heavy",
// "specialized"), or nil for an unknown type.
func Catalog(vehicleType string) []Category {
	once.Do(load)
	if loadErr != nil {
		return nil
	}
	return catalogs[vehicleType]
}

// ItemCount sums the items across a category list.
func ItemCount(categories []Category) int {
	n := 0
	for _, c := range categories {
		n += len(c.Items)
	}
	return n
}
