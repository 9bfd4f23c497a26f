package normalize

import "strings"

// GoldType describes one gold sub-type tracked by the system. Key is the
// canonical normalized name the provider's free-text names are matched
// against; Multiplier is the sub-type's gram equivalent.
type GoldType struct {
	Code        string
	Key         string
	DisplayName string
	Multiplier  float64
}

// GoldCatalog is the full set of recognized gold sub-types, in matching
// priority order. First match wins, so more specific keys must come before
// ones their names could contain.
var GoldCatalog = []GoldType{
	{Code: "Gram", Key: "gram-altin", DisplayName: "Gram Altın", Multiplier: 1},
	{Code: "Ceyrek", Key: "ceyrek-altin", DisplayName: "Çeyrek Altın", Multiplier: 1.75},
	{Code: "Yarim", Key: "yarim-altin", DisplayName: "Yarım Altın", Multiplier: 3.5},
	{Code: "Tam", Key: "tam-altin", DisplayName: "Tam Altın", Multiplier: 7.0},
	{Code: "Ata", Key: "ata-altin", DisplayName: "Ata Altın", Multiplier: 7.2},
	{Code: "Cumhuriyet", Key: "cumhuriyet-altin", DisplayName: "Cumhuriyet Altını", Multiplier: 7.32},
}

var turkishFolding = strings.NewReplacer(
	"ı", "i", "İ", "i",
	"ğ", "g", "Ğ", "g",
	"ü", "u", "Ü", "u",
	"ş", "s", "Ş", "s",
	"ö", "o", "Ö", "o",
	"ç", "c", "Ç", "c",
)

// Name lowercases a provider-supplied instrument name, collapses whitespace
// runs to a single hyphen and folds Turkish letters to ASCII, so that
// "Çeyrek Altın" and "ceyrek-altin" normalize identically.
func Name(raw string) string {
	folded := turkishFolding.Replace(raw)
	folded = strings.ToLower(folded)
	return strings.Join(strings.Fields(folded), "-")
}

// MatchGold resolves a provider's free-text gold name to a catalog entry.
// Containment is accepted on top of exact equality because providers vary
// the suffixes around the same base name. Returns false when nothing
// matches; callers skip unmatched entries rather than fail the update.
func MatchGold(rawName string) (GoldType, bool) {
	name := Name(rawName)
	for _, gt := range GoldCatalog {
		if name == gt.Key || strings.Contains(name, gt.Key) {
			return gt, true
		}
	}
	return GoldType{}, false
}

// GoldByCode looks up a catalog entry by canonical code.
func GoldByCode(code string) (GoldType, bool) {
	for _, gt := range GoldCatalog {
		if gt.Code == code {
			return gt, true
		}
	}
	return GoldType{}, false
}
