package laminate

// PlySummary describes one ply of a computed laminate
type PlySummary struct {
	Material  string  `json:"material"`
	Angle     float64 `json:"angle"` // degrees
	Layers    int     `json:"layers,omitempty"`
	Thickness float64 `json:"thickness"`
	ZTop      float64 `json:"z_top"`
	ZBot      float64 `json:"z_bot"`
}

// Summary is the serializable view of a computed laminate
type Summary struct {
	Name        string        `json:"name"`
	Thickness   float64       `json:"thickness"`
	AreaDensity float64       `json:"area_density"`
	Ex          float64       `json:"ex"`
	Ey          float64       `json:"ey"`
	Gxy         float64       `json:"gxy"`
	NuXY        float64       `json:"nu_xy"`
	NuYX        float64       `json:"nu_yx"`
	ABD         [6][6]float64 `json:"abd"`
	Plies       []PlySummary  `json:"plies"`
}

// Summary returns the laminate properties. The ABD matrix is zero until
// Compute has run.
func (l *Laminate) Summary() Summary {
	s := Summary{
		Name:        l.Name,
		Thickness:   l.Thickness,
		AreaDensity: l.AreaDensity,
		Ex:          l.Ex,
		Ey:          l.Ey,
		Gxy:         l.Gxy,
		NuXY:        l.NuXY,
		NuYX:        l.NuYX,
		Plies:       make([]PlySummary, len(l.plies)),
	}
	if l.Stiffness != nil {
		for i := 0; i < 6; i++ {
			for j := 0; j < 6; j++ {
				s.ABD[i][j] = l.Stiffness.At(i, j)
			}
		}
	}
	for i, p := range l.plies {
		s.Plies[i] = PlySummary{
			Material:  p.Material.Name,
			Angle:     p.AngleDegrees(),
			Layers:    p.Layers,
			Thickness: p.Thickness,
			ZTop:      p.ZTop,
			ZBot:      p.ZBot,
		}
	}
	return s
}
