package config

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Option описывает элемент справочника (роль или зону активности).
type Option struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
	Color string `yaml:"color"`
}

// NavItem is one node of the sidebar tree.
type NavItem struct {
	Label    string    `yaml:"label"`
	Href     string    `yaml:"href,omitempty"`
	Icon     string    `yaml:"icon,omitempty"`
	Children []NavItem `yaml:"children,omitempty"`
}

// Catalog holds the static tables rendered by the console.
type Catalog struct {
	Roles      []Option  `yaml:"roles"`
	Zones      []Option  `yaml:"zones"`
	Navigation []NavItem `yaml:"navigation"`
}

const (
	defaultRoleColor = "bg-slate-500"
	defaultZone      = "safe"
)

// LoadCatalog разбирает встроенный catalog.yaml.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Roles) == 0 {
		return nil, fmt.Errorf("catalog: no roles defined")
	}
	if len(c.Zones) == 0 {
		return nil, fmt.Errorf("catalog: no zones defined")
	}
	return &c, nil
}

func find(opts []Option, value string) (Option, bool) {
	for _, o := range opts {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

// IsRole reports whether value is a configured role.
func (c *Catalog) IsRole(value string) bool {
	_, ok := find(c.Roles, value)
	return ok
}

// IsZone reports whether value is a configured activity zone.
func (c *Catalog) IsZone(value string) bool {
	_, ok := find(c.Zones, value)
	return ok
}

func (c *Catalog) RoleColor(role string) string {
	if o, ok := find(c.Roles, role); ok {
		return o.Color
	}
	return defaultRoleColor
}

func (c *Catalog) RoleLabel(role string) string {
	if o, ok := find(c.Roles, role); ok {
		return o.Label
	}
	return role
}

// ZoneColor falls back to the "safe" zone color for unknown or empty zones.
func (c *Catalog) ZoneColor(zone string) string {
	if o, ok := find(c.Zones, zone); ok {
		return o.Color
	}
	o, _ := find(c.Zones, defaultZone)
	return o.Color
}

func (c *Catalog) ZoneLabel(zone string) string {
	if o, ok := find(c.Zones, zone); ok {
		return o.Label
	}
	o, _ := find(c.Zones, defaultZone)
	return o.Label
}
