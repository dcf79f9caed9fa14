package diagnostic

import "slices"

var sectorsByType = map[CompanyType][]string{
	CompanyIndustry: {"Manufactura", "Alimentos", "Química", "Siderurgia", "Otro"},
	CompanyCommerce: {"Retail", "Alimentos", "Logística", "Centros Comerciales", "Otro"},
	CompanyBuilding: {"Hospitalidad", "Oficinas", "Residencial", "Salud", "Otro"},
}

// SectorsFor returns the recommended sectors for t, or nil for unknown types.
func SectorsFor(t CompanyType) []string {
	return slices.Clone(sectorsByType[t])
}

// IsRecommendedSector reports whether sector is offered for t in the wizard.
// The engine never rejects other pairings.
func IsRecommendedSector(t CompanyType, sector string) bool {
	return slices.Contains(sectorsByType[t], sector)
}
