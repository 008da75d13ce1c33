package catalog

import (
	"strings"
)

// Option is a select-box entry whose submitted value differs from its label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// 商品ファミリー
var Families = []string{
	"AUTOMOTIVE", "BABY CARE", "BEAUTY", "BEVERAGES", "BOOKS", "BREAD/BAKERY",
	"CELEBRATION", "CLEANING", "DAIRY", "DELI", "EGGS", "FROZEN FOODS",
	"GROCERY I", "GROCERY II", "HARDWARE", "HOME AND KITCHEN I",
	"HOME AND KITCHEN II", "HOME APPLIANCES", "HOME CARE", "LADIESWEAR",
	"LAWN AND GARDEN", "LINGERIE", "LIQUOR,WINE,BEER", "MAGAZINES", "MEATS",
	"PERSONAL CARE", "PET SUPPLIES", "PLAYERS AND ELECTRONICS", "POULTRY",
	"PREPARED FOODS", "PRODUCE", "SCHOOL AND OFFICE SUPPLIES", "SEAFOOD",
}

// 都市
var Cities = []string{
	"Quito", "Santo Domingo", "Cayambe", "Latacunga", "Riobamba", "Ibarra",
	"Guaranda", "Puyo", "Ambato", "Guayaquil", "Salinas", "Daule", "Babahoyo",
	"Quevedo", "Playas", "Libertad", "Cuenca", "Loja", "Machala", "Esmeraldas",
	"Manta", "El Carmen",
}

// 州
var States = []string{
	"Pichincha", "Santo Domingo de los Tsachilas", "Cotopaxi", "Chimborazo",
	"Imbabura", "Bolivar", "Pastaza", "Tungurahua", "Guayas", "Santa Elena",
	"Los Rios", "Azuay", "Loja", "El Oro", "Esmeraldas", "Manabi",
}

// StoreTypes lists the store type codes in the order the form shows them.
var StoreTypes = []Option{
	{Value: "D", Label: "Supermarket"},
	{Value: "B", Label: "Grocery Store"},
	{Value: "C", Label: "Warehouse"},
	{Value: "E", Label: "Convenience Store"},
	{Value: "A", Label: "Department Store"},
}

// 日の種類
var DayTypes = []string{"Holiday", "Regular Day", "Additional", "Transfer", "Event", "Bridge"}

// Selector names one of the catalogs that can be searched by name.
type Selector string

const (
	SelectorFamily    Selector = "family"
	SelectorCity      Selector = "city"
	SelectorState     Selector = "state"
	SelectorStoreType Selector = "store-type"
	SelectorDayType   Selector = "day-type"
)

// Values returns the submitted values of a catalog and whether the name is known.
func Values(s Selector) ([]string, bool) {
	switch s {
	case SelectorFamily:
		return Families, true
	case SelectorCity:
		return Cities, true
	case SelectorState:
		return States, true
	case SelectorStoreType:
		values := make([]string, len(StoreTypes))
		for i, o := range StoreTypes {
			values[i] = o.Value
		}
		return values, true
	case SelectorDayType:
		return DayTypes, true
	}
	return nil, false
}

// Filter returns the options containing query, ignoring case.
// An empty query returns every option.
func Filter(options []string, query string) []string {
	q := strings.ToLower(query)
	filtered := make([]string, 0, len(options))
	for _, option := range options {
		if strings.Contains(strings.ToLower(option), q) {
			filtered = append(filtered, option)
		}
	}
	return filtered
}

// Contains reports whether value is exactly one of options.
func Contains(options []string, value string) bool {
	for _, option := range options {
		if option == value {
			return true
		}
	}
	return false
}

// StoreTypeLabel は店舗タイプコードの表示名を返します。未知のコードはそのまま返します。
func StoreTypeLabel(code string) string {
	for _, o := range StoreTypes {
		if o.Value == code {
			return o.Label
		}
	}
	return code
}
