package enums

import "fmt"

// Section is a top-level screen of the store console.
type Section string

const (
	SectionDashboard Section = "dashboard"
	SectionInventory Section = "inventory"
	SectionSales     Section = "sales"
	SectionAnalytics Section = "analytics"
	SectionSuppliers Section = "suppliers"
	SectionSettings  Section = "settings"
)

var validSections = []Section{
	SectionDashboard,
	SectionInventory,
	SectionSales,
	SectionAnalytics,
	SectionSuppliers,
	SectionSettings,
}

var sectionTitles = map[Section]string{
	SectionDashboard: "Dashboard",
	SectionInventory: "Inventory Management",
	SectionSales:     "Sales & POS",
	SectionAnalytics: "Analytics & Reports",
	SectionSuppliers: "Supplier Management",
	SectionSettings:  "Settings",
}

func (s Section) String() string {
	return string(s)
}

func (s Section) IsValid() bool {
	for _, candidate := range validSections {
		if candidate == s {
			return true
		}
	}
	return false
}

// Title returns the heading shown for the section.
func (s Section) Title() string {
	return sectionTitles[s]
}

// ParseSection converts raw input into a Section.
func ParseSection(value string) (Section, error) {
	for _, candidate := range validSections {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid section %q", value)
}
