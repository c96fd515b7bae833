package dataset

// allowedTypes is the fixed set of rock and mineral folder names (normalized
// form) that the filter keeps when copying a raw dataset.
var allowedTypes = map[string]struct{}{
	// Rocks
	"andesite":     {},
	"basalt":       {},
	"chert":        {},
	"coal":         {},
	"conglomerate": {},
	"gabbro":       {},
	"gneiss":       {},
	"granite":      {},
	"hornfels":     {},
	"limestone":    {},
	"marble":       {},
	"migmatite":    {},
	"mudstone":     {},
	"phyllite":     {},
	"quartzite":    {},
	"rhyolite":     {},
	"sandstone":    {},
	"shale":        {},
	"siltstone":    {},
	"slate":        {},
	"travertine":   {},
	"tuff":         {},

	// Minerals
	"calcite":    {},
	"dolomite":   {},
	"feldspar":   {},
	"fluorite":   {},
	"galena":     {},
	"garnet":     {},
	"gypsum":     {},
	"halite":     {},
	"hematite":   {},
	"hornblende": {},
	"magnetite":  {},
	"mica":       {},
	"olivine":    {},
	"pyrite":     {},
	"quartz":     {},
	"rock_salt":  {},
	"talc":       {},
	"topaz":      {},
}

// IsAllowed reports whether a directory name, after normalization, belongs
// to the known rock/mineral type set.
func IsAllowed(name string) bool {
	_, ok := allowedTypes[NormalizeName(name)]
	return ok
}
