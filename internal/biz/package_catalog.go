package biz

// PackageInfo describes one entry of the fixed package catalog: the price,
// the gateway pricing-plan reference and the display name shown on invoices
// and contract emails.
type PackageInfo struct {
	Type                 string
	Name                 string
	Price                float64
	PricingPlanReference string
}

// packageCatalog is the fixed catalog of purchasable packages. Prices are
// monthly, in TRY.
var packageCatalog = map[string]PackageInfo{
	"baslangic_paket": {
		Type:                 "baslangic_paket",
		Name:                 "Doktorum Ol Baslangic Paket",
		Price:                1498,
		PricingPlanReference: "baslangic-paket-aylik",
	},
	"standard_paket": {
		Type:                 "standard_paket",
		Name:                 "Doktorum Ol Standard Paket",
		Price:                2998,
		PricingPlanReference: "standard-paket-aylik",
	},
	"premium_paket": {
		Type:                 "premium_paket",
		Name:                 "Doktorum Ol Premium Paket",
		Price:                4998,
		PricingPlanReference: "premium-paket-aylik",
	},
}

// GetPackage looks up a catalog entry by package type.
func GetPackage(packageType string) (PackageInfo, bool) {
	p, ok := packageCatalog[packageType]
	return p, ok
}

// ListPackages returns every catalog entry.
func ListPackages() []PackageInfo {
	packages := make([]PackageInfo, 0, len(packageCatalog))
	for _, p := range packageCatalog {
		packages = append(packages, p)
	}
	return packages
}
