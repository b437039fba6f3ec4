package enums

import "fmt"

// AssetType distinguishes brand reference images from product shots.
type AssetType string

const (
	AssetTypeBrand   AssetType = "brand"
	AssetTypeProduct AssetType = "product"
)

var validAssetTypes = []AssetType{AssetTypeBrand, AssetTypeProduct}

// String returns the literal type.
func (a AssetType) String() string {
	return string(a)
}

// IsValid reports whether the type is known.
func (a AssetType) IsValid() bool {
	for _, candidate := range validAssetTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAssetType converts raw input into an AssetType.
func ParseAssetType(value string) (AssetType, error) {
	for _, candidate := range validAssetTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid asset type %q", value)
}
