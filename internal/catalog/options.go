package catalog

// Option is a single selectable catalog entry with the categories it applies to.
type Option struct {
	Label      string      `json:"label"`
	Categories CategorySet `json:"categories"`
}

// List is a named, ordered catalog.
type List struct {
	Name    string   `json:"name"`
	Options []Option `json:"options"`
}

func opts(tags CategorySet, labels ...string) []Option {
	out := make([]Option, len(labels))
	for i, label := range labels {
		out[i] = Option{Label: label, Categories: tags}
	}
	return out
}

func join(groups ...[]Option) []Option {
	var out []Option
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// Dynamics levels for the player's attack.
var Dynamics = List{Name: "dynamics", Options: opts(stringed, "Light", "Medium", "Aggressive")}

var ToneGoals = List{Name: "tone_goals", Options: opts(everywhere,
	"Clarity", "Warmth", "Bite", "Compression", "Definition",
	"Smoothness", "Sparkle", "Growl", "Balance", "Punch", "Thump", "Bark", "Tine-Chime",
)}

// BodyShapes covers guitar bodies, bass bodies and Rhodes chassis models.
var BodyShapes = List{Name: "body_shapes", Options: join(
	opts(guitarOnly,
		"Strat-style", "T-style", "S-style", "Offset",
		"Single Cut (LP)", "Double Cut (SG)", "Semi-hollow", "Hollow Body",
	),
	opts(bassOnly, "P-Style Bass", "J-Style Bass", "Modern Bass (Active/Soapbar)", "Violin Bass"),
	opts(rhodesOnly, "Rhodes Stage 73", "Rhodes Suitcase 73", "Rhodes Stage 88", "Rhodes Suitcase 88", "Rhodes Mark V"),
)}

var Woods = List{Name: "woods", Options: opts(stringed,
	"Alder", "Ash", "Mahogany", "Maple", "Basswood", "Walnut", "Other",
)}

// Routes are the pickup cavities a new coil must physically fit.
var Routes = List{Name: "routes", Options: join(
	opts(guitarOnly,
		"Single Coil (Standard)", "Standard Humbucker", "P90 Soapbar",
		"Mini-Humbucker (Gibson style)", "Firebird Mini-Humbucker", "FilterTron",
		"Jazzmaster", "Jaguar", "Tele Bridge",
	),
	opts(bassOnly,
		"Split-Coil (P-Bass)", "Jazz Bass (Neck)", "Jazz Bass (Bridge)", "MM-Style (Humbucker)",
		"Bass Soapbar (Dual Coil)", "Bass Soapbar (Single Coil)", "Hofner Style (Staple)",
	),
	opts(rhodesOnly, "Rhodes Standard Coil"),
)}

// MagnetTypes is also the whitelist enforced on generated guitar and bass specs.
var MagnetTypes = List{Name: "magnet_types", Options: opts(stringed,
	"Alnico 2", "Alnico 3", "Alnico 4", "Alnico 5", "Alnico 8", "Ceramic",
)}

var WindStyles = List{Name: "wind_styles", Options: opts(stringed,
	"Underwound (-5%)", "Standard", "Overwound (+5%)", "Hot (+10-15%)",
)}

var WireGauges = List{Name: "wire_gauges", Options: opts(stringed, "42 AWG", "43 AWG", "44 AWG")}

var PottingLevels = List{Name: "potting_levels", Options: opts(everywhere, "None", "Light", "Heavy")}

var Pedals = List{Name: "pedals", Options: []Option{
	{Label: "None / Straight into Amp", Categories: everywhere},
	{Label: "Transparent Overdrive", Categories: guitarOnly},
	{Label: "Heavy Distortion / Fuzz", Categories: guitarOnly},
	{Label: "High-Gain Preamp Pedals", Categories: guitarOnly},
	{Label: "Ambient / Multi-FX", Categories: Set(ElectricGuitar, RhodesPiano)},
	{Label: "Digital Modeler centric (Helix/Fractal)", Categories: stringed},
	{Label: "Vintage Boost only", Categories: guitarOnly},
	{Label: "Bass Preamp / DI", Categories: bassOnly},
	{Label: "Bass Compressor", Categories: bassOnly},
	{Label: "Rhodes Chorus / Phaser", Categories: rhodesOnly},
	{Label: "Rhodes Wah-Wah", Categories: rhodesOnly},
}}

var Amps = List{Name: "amps", Options: []Option{
	{Label: "Clean Tube (Class A/Blackface)", Categories: Set(ElectricGuitar, RhodesPiano)},
	{Label: "Crunchy British Tube (EL34)", Categories: guitarOnly},
	{Label: "High-Gain American Tube (6L6)", Categories: guitarOnly},
	{Label: "Solid State / Pedal Platform", Categories: stringed},
	{Label: "Digital Modeler (Profiling/IRs)", Categories: everywhere},
	{Label: "Small Studio / Practice Amp", Categories: guitarOnly},
	{Label: "High-Headroom Bass Head", Categories: bassOnly},
	{Label: "Vintage Tube Bass Amp", Categories: bassOnly},
	{Label: "Rhodes Suitcase Amp / Preamp", Categories: rhodesOnly},
}}

var Brands = List{Name: "brands", Options: []Option{
	{Label: "Fender", Categories: stringed},
	{Label: "Gibson", Categories: stringed},
	{Label: "PRS", Categories: stringed},
	{Label: "Ibanez", Categories: stringed},
	{Label: "Gretsch", Categories: stringed},
	{Label: "Rickenbacker", Categories: stringed},
	{Label: "ESP / LTD", Categories: stringed},
	{Label: "Music Man", Categories: stringed},
	{Label: "Epiphone", Categories: stringed},
	{Label: "Squier", Categories: stringed},
	{Label: "Warwick", Categories: stringed},
	{Label: "Sadowsky", Categories: stringed},
	{Label: "Rhodes / Fender Rhodes", Categories: rhodesOnly},
	{Label: "Custom Build", Categories: stringed},
	{Label: "Other", Categories: stringed},
}}

var PerformanceTypes = List{Name: "performance_types", Options: opts(everywhere,
	"Home Studio / Practice (Daily)",
	"Professional Recording Artist (Studio focus)",
	"Small Clubs / Bars (Weekly Gigging)",
	"Large Stages / Festivals (High Volume)",
	"House of Worship / Church ensemble",
	"Solo Acoustic-Electric Performer",
	"Occasional Hobbyist / Collector",
)}

var RhodesEras = List{Name: "rhodes_eras", Options: opts(rhodesOnly,
	"Pre-1970 (Felt Hammer Caps)",
	"1970-1974 (Early Mark I)",
	"1975-1979 (Late Mark I)",
	"1980-1983 (Mark II)",
	"1984 (Mark V)",
)}

var RhodesFailureModes = List{Name: "rhodes_failure_modes", Options: opts(rhodesOnly,
	`Corroded "White Tape" windings`,
	"Dead Coil (No Continuity)",
	"Weak Output / Magnetization Loss",
	"Physical Bobbin Damage",
	"General Restoration (Preventative)",
)}

var RhodesPackSizes = List{Name: "rhodes_pack_sizes", Options: opts(rhodesOnly,
	"Single Unit Repair",
	"Workshop 6-Pack",
	"Performance 12-Pack",
	"Session 24-Pack",
	"Full Piano Rewind (73-Key)",
	"Full Piano Rewind (88-Key)",
)}

// All returns every catalog list in a stable order.
func All() []List {
	return []List{
		ToneGoals, Dynamics, BodyShapes, Woods, Routes, MagnetTypes, WindStyles,
		WireGauges, PottingLevels, Pedals, Amps, Brands, PerformanceTypes,
		RhodesEras, RhodesFailureModes, RhodesPackSizes,
	}
}

// Lookup finds a list by name.
func Lookup(name string) (List, bool) {
	for _, l := range All() {
		if l.Name == name {
			return l, true
		}
	}
	return List{}, false
}

// Filter returns the entries of l that apply to category, preserving order.
func (l List) Filter(category Category) List {
	out := List{Name: l.Name, Options: make([]Option, 0, len(l.Options))}
	for _, o := range l.Options {
		if o.Categories.Has(category) {
			out.Options = append(out.Options, o)
		}
	}
	return out
}

// Labels returns the option labels in order.
func (l List) Labels() []string {
	out := make([]string, len(l.Options))
	for i, o := range l.Options {
		out[i] = o.Label
	}
	return out
}

// First returns the first label or "" for an empty list.
func (l List) First() string {
	if len(l.Options) == 0 {
		return ""
	}
	return l.Options[0].Label
}

// Contains reports whether label is present, regardless of category.
func (l List) Contains(label string) bool {
	for _, o := range l.Options {
		if o.Label == label {
			return true
		}
	}
	return false
}

// Allows reports whether label is present and applies to category.
func (l List) Allows(label string, category Category) bool {
	for _, o := range l.Options {
		if o.Label == label {
			return o.Categories.Has(category)
		}
	}
	return false
}

// ForCategory returns every list filtered to category, dropping lists that
// have no entries for it.
func ForCategory(category Category) []List {
	var out []List
	for _, l := range All() {
		filtered := l.Filter(category)
		if len(filtered.Options) > 0 {
			out = append(out, filtered)
		}
	}
	return out
}
