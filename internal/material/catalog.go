package material

import (
	"sort"
	"strings"
)

// Preset material data (SI units: Pa, kg/m³, m)

const (
	// Isotropic metals
	SteelE   = 2.1e11
	SteelG   = 8.1e10
	SteelNu  = 0.3
	D16E     = 7.2e10 // D16 aluminium alloy
	D16G     = 2.76e10
	D16Nu    = 0.3
	D16Rho   = 2730.0
	MetalSig = 4.0e8
	MetalTau = 2.3e8
)

// presets holds the static catalog. Each call to Preset returns a fresh
// computed copy so callers never share mutable state through it.
var presets = map[string]Orthotropic{
	"STEEL": {
		Name: "STEEL",
		E1:   SteelE, E2: SteelE, G12: SteelG, Nu12: SteelNu,
		Sig1T: MetalSig, Sig1C: MetalSig, Sig2T: MetalSig, Sig2C: MetalSig, TauMax: MetalTau,
	},
	"D16": {
		Name: "D16",
		E1:   D16E, E2: D16E, G12: D16G, Nu12: D16Nu,
		Sig1T: MetalSig, Sig1C: MetalSig, Sig2T: MetalSig, Sig2C: MetalSig, TauMax: MetalTau,
		Density: D16Rho,
	},
	// KMU-4 carbon/epoxy tape
	"KMU4": {
		Name: "KMU4",
		E1:   1.28e11, E2: 8.4e9, G12: 4.6e9, Nu12: 0.36,
		Sig1T: 8.2e8, Sig1C: 1.0e9, Sig2T: 4.8e7, Sig2C: 1.5e8, TauMax: 6.2e7,
		Density: 1.78e3, PrepH: 2.3e-4,
	},
	// VKU-25 carbon/epoxy tape
	"VKU25": {
		Name: "VKU25",
		E1:   1.1e11, E2: 8.21e9, G12: 4.08e9, Nu12: 0.25,
		Sig1T: 2.07e9, Sig1C: 1.14e9, Sig2T: 4.1e7, Sig2C: 1.63e8, TauMax: 9.0e7,
		Density: 1.57e3, PrepH: 2.15e-4,
	},
}

// Preset returns a computed copy of a catalog material. Keys are
// case-insensitive.
func Preset(key string) (*Orthotropic, error) {
	p, ok := presets[strings.ToUpper(strings.TrimSpace(key))]
	if !ok {
		return nil, &KeyError{Kind: "material preset", Key: key}
	}
	m := p
	if err := m.Compute(); err != nil {
		return nil, err
	}
	return &m, nil
}

// PresetNames lists the catalog keys in alphabetical order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for k := range presets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
