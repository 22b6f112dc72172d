package catalog

// Offering is a service line shown in the printable workshop catalog.
type Offering struct {
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Unit        string   `json:"unit"`
	Description string   `json:"description"`
	Items       []string `json:"items"`
}

// Offerings is the workshop catalog in display order.
var Offerings = []Offering{
	{
		Name:        "Guitar Foundations",
		Price:       "$165.00",
		Unit:        "Per Pickup",
		Description: "Traditional hand-wound designs for electric guitar focusing on clarity, dynamics, and harmonic richness.",
		Items:       []string{"Strat-style Sets", "Tele Bridge & Neck", "Jaguar Claw-style", "Mustang-style"},
	},
	{
		Name:        "Bass Foundations",
		Price:       "$175.00",
		Unit:        "Per Pickup / Set",
		Description: "Specialized builds for electric bass. Tuned for fundamental power, definition, and low-end clarity.",
		Items:       []string{"P-Bass Split Coil (Set)", "Jazz Bass Set (Matched Pairs)", "Short Scale (Mustang/Hofner)", "Classic Mudbucker Retones"},
	},
	{
		Name:        "Rhodes Restoration & Purchase",
		Price:       "$24-55",
		Unit:        "Service / Outright",
		Description: "Complete lifecycle support for Fender Rhodes pickups: local rewind service, immediate exchange, or outright purchase of refurbished units.",
		Items:       []string{"Coil Rewind (Send Yours)", "Stock Exchange (Core Required)", "Outright Purchase (No Core)", "Preventative White Tape Service"},
	},
	{
		Name:        "Specialized Footprints",
		Price:       "$175.00",
		Unit:        "Per Pickup",
		Description: "Custom geometry requiring specialized bobbin construction and magnetic orientation.",
		Items:       []string{"P90 Soapbar / Dogear", "Jazzmaster Lead & Rhythm", "Mini-Humbucker (LP Deluxe)", "Firebird-style (Blade)"},
	},
	{
		Name:        "Dual-Coil & Soapbars",
		Price:       "$185.00",
		Unit:        "Per Pickup",
		Description: "Noise-canceling designs for both guitar and bass. High-output soapbars and vintage-spec humbuckers.",
		Items:       []string{"Standard Humbucker (PAF)", "MM-Style Bass Humbucker", "Bass Soapbar (Dual Coil)", "Stacked Noise-Free Single Coils"},
	},
}

// PricingTier is a row of the workshop manifest price list. PriceCents is
// zero when the tier is priced by volume.
type PricingTier struct {
	Name       string   `json:"name"`
	Types      []string `json:"types"`
	PriceCents int64    `json:"priceCents"`
	Unit       string   `json:"unit"`
}

// ByVolume reports whether the tier defers to the Rhodes volume table.
func (t PricingTier) ByVolume() bool { return t.PriceCents == 0 }

var PricingTiers = []PricingTier{
	{Name: "Electric Guitar Foundations", Types: []string{"Single Coil (Standard)", "Jaguar", "Tele Bridge"}, PriceCents: 16500, Unit: "Single Pickup"},
	{Name: "Bass Guitar Foundations", Types: []string{"P-Bass Split Coil", "Jazz Bass Set", "Mustang Bass"}, PriceCents: 17500, Unit: "Single Pickup / Set as Noted"},
	{Name: "Specialized Footprints", Types: []string{"P90 Soapbar", "Jazzmaster", "Mini-Humbucker"}, PriceCents: 17500, Unit: "Single Pickup"},
	{Name: "Dual-Coil Architecture", Types: []string{"Standard Humbucker", "FilterTron", "Bass Soapbar Dual-Coil"}, PriceCents: 18500, Unit: "Single Pickup"},
	{Name: "Rhodes Services (Rewind/Exchange)", Types: []string{"Coil Restoration", "Tape Refresh"}, Unit: "Per Coil"},
	{Name: "Rhodes Direct Purchase", Types: []string{"Ghostwood Refurbished Coils"}, PriceCents: 5500, Unit: "Single Coil Outright"},
}

// VolumePrice is a Rhodes rewind pack price.
type VolumePrice struct {
	Pack         string `json:"pack"`
	Coils        int    `json:"coils"`
	TotalCents   int64  `json:"totalCents"`
	PerCoilCents int64  `json:"perCoilCents"`
}

var RhodesVolumePricing = []VolumePrice{
	{Pack: "Single Unit Rewind", Coils: 1, TotalCents: 4500, PerCoilCents: 4500},
	{Pack: "Workshop 6-Pack Rewind", Coils: 6, TotalCents: 24000, PerCoilCents: 4000},
	{Pack: "Performance 12-Pack Rewind", Coils: 12, TotalCents: 42000, PerCoilCents: 3500},
	{Pack: "Session 24-Pack Rewind", Coils: 24, TotalCents: 72000, PerCoilCents: 3000},
	{Pack: "Full 73-Key Rewind", Coils: 73, TotalCents: 182500, PerCoilCents: 2500},
	{Pack: "Full 88-Key Rewind", Coils: 88, TotalCents: 211200, PerCoilCents: 2400},
}

// Manifest bundles the price list served to the manifest view.
type Manifest struct {
	Tiers  []PricingTier `json:"tiers"`
	Volume []VolumePrice `json:"rhodesVolume"`
}

// WorkshopManifest returns the manifest price list.
func WorkshopManifest() Manifest {
	return Manifest{Tiers: PricingTiers, Volume: RhodesVolumePricing}
}
