package models

import "strings"

// ColorFor picks the display color for an asset. Precious metals are colored
// by name; everything else falls back to its type's palette entry.
func ColorFor(name, assetType string) string {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "gold") {
		return "#FFD700"
	}
	if strings.Contains(lower, "silver") {
		return "#C0C0C0"
	}
	switch assetType {
	case AssetTypeStock:
		return "#4E73DF"
	case AssetTypeRealEstate:
		return "#1CC88A"
	case AssetTypeForex:
		return "#36B9CC"
	case AssetTypeCommodity:
		return "#F6C23E"
	default:
		return "#858796"
	}
}
