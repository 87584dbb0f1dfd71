package usecase

import (
	"regexp"
	"strconv"
	"strings"
)

// Attribute keys carried on parsed records
const (
	AttrBrand       = "brand"
	AttrRAM         = "ram"
	AttrStorage     = "storage"
	AttrRefreshRate = "refresh_rate"
	AttrScreenSize  = "screen_size"
)

// maxRAMGigabytes bounds what a bare "NGB" can mean before it reads as storage
const maxRAMGigabytes = 128

var knownBrands = []string{
	"AMD", "Intel", "NVIDIA", "ASUS", "Gigabyte", "MSI", "ASRock", "Corsair", "Kingston",
	"Samsung", "LG", "Dell", "Acer", "Lenovo", "HP", "AOC", "BenQ", "HyperX", "Logitech",
	"Redragon", "XPG", "Crucial", "Western Digital", "Seagate", "Cooler Master", "Galax",
	"PCYes", "Husky", "Rise Mode", "Mancer", "Lian Li", "NZXT", "Positivo", "Apple",
}

var (
	brandPatterns = func() []*regexp.Regexp {
		out := make([]*regexp.Regexp, len(knownBrands))
		for i, b := range knownBrands {
			out[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(b) + `\b`)
		}
		return out
	}()

	storagePattern     = regexp.MustCompile(`(?i)\b(\d{1,4})\s?(tb|gb)\s*(?:de\s+)?(ssd|hd|hdd|nvme|m\.2|emmc)\b`)
	memoryPattern      = regexp.MustCompile(`(?i)\b(\d{1,3})\s?gb\b`)
	refreshRatePattern = regexp.MustCompile(`(?i)\b(\d{2,3})\s?hz\b`)

	// Matches a screen size followed by an inch unit: 24", 27'', 15.6 pol, 32 polegadas
	screenUnitPattern = regexp.MustCompile(`(?i)\b(\d{1,2}(?:[.,]\d{1,2})?)\s?(?:"|''|”|pol\b|polegadas\b|inch\b|in\b)`)

	// Matches any bare one or two digit number, optionally with a decimal part
	bareScreenNumberPattern = regexp.MustCompile(`\b(\d{1,2}(?:[.,]\d)?)\b`)

	screenContextWords = []string{"monitor", "tela", "notebook", "tv", "smart tv", "display", "laptop"}
)

// AttributeExtractor pulls hardware specs out of product names
type AttributeExtractor struct{}

// NewAttributeExtractor creates a new attribute extractor
func NewAttributeExtractor() *AttributeExtractor {
	return &AttributeExtractor{}
}

// Extract returns the attributes found in name, or nil when none were found
func (e *AttributeExtractor) Extract(name string) map[string]string {
	attrs := make(map[string]string)

	if brand := e.brand(name); brand != "" {
		attrs[AttrBrand] = brand
	}

	storageSpan := []int(nil)
	if m := storagePattern.FindStringSubmatchIndex(name); m != nil {
		size := name[m[2]:m[3]]
		unit := strings.ToUpper(name[m[4]:m[5]])
		kind := strings.ToUpper(name[m[6]:m[7]])
		attrs[AttrStorage] = size + unit + " " + kind
		storageSpan = m[:2]
	}

	for _, m := range memoryPattern.FindAllStringSubmatchIndex(name, -1) {
		if storageSpan != nil && m[0] >= storageSpan[0] && m[0] < storageSpan[1] {
			continue
		}
		n, err := strconv.Atoi(name[m[2]:m[3]])
		if err != nil || n > maxRAMGigabytes {
			continue
		}
		attrs[AttrRAM] = strconv.Itoa(n) + "GB"
		break
	}

	if m := refreshRatePattern.FindStringSubmatch(name); m != nil {
		attrs[AttrRefreshRate] = m[1] + "Hz"
	}

	if size := e.screenSize(name); size != "" {
		attrs[AttrScreenSize] = size
	}

	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

func (e *AttributeExtractor) brand(name string) string {
	for i, p := range brandPatterns {
		if p.MatchString(name) {
			return knownBrands[i]
		}
	}
	return ""
}

// screenSize prefers a number with an inch unit. For names that mention a
// screen it falls back to the first bare one or two digit number, so
// "Monitor LG 24 IPS" yields 24 but "Monitor Kit 2 unidades 24" yields 2.
func (e *AttributeExtractor) screenSize(name string) string {
	if m := screenUnitPattern.FindStringSubmatch(name); m != nil {
		return strings.ReplaceAll(m[1], ",", ".")
	}

	if !containsAny(foldText(name), screenContextWords) {
		return ""
	}

	if m := bareScreenNumberPattern.FindStringSubmatch(name); m != nil {
		return strings.ReplaceAll(m[1], ",", ".")
	}
	return ""
}
