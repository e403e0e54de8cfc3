package enums

import "strings"

// Size is an apparel size carried on inventory rows and cart lines.
type Size string

const (
	SizeXXS   Size = "XXS"
	SizeXS    Size = "XS"
	SizeS     Size = "S"
	SizeM     Size = "M"
	SizeL     Size = "L"
	SizeXL    Size = "XL"
	SizeXXL   Size = "XXL"
	SizeXXXL  Size = "XXXL"
	SizeXXXXL Size = "XXXXL"
)

// AllSizes lists sizes in ascending order, matching the storefront size chart.
var AllSizes = []Size{SizeXXS, SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL, SizeXXXL, SizeXXXXL}

func (s Size) IsValid() bool {
	for _, known := range AllSizes {
		if s == known {
			return true
		}
	}
	return false
}

// ParseSize normalizes user input ("m", " xl ") into a Size.
func ParseSize(value string) (Size, bool) {
	s := Size(strings.ToUpper(strings.TrimSpace(value)))
	return s, s.IsValid()
}
