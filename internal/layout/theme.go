package layout

// Theme holds the palette for one document variant.
type Theme struct {
	Primary   Color
	OnPrimary Color
	Accent    Color
	Success   Color
	Warning   Color
	Text      Color
	Muted     Color
	Rule      Color
	Track     Color
	Shade     Color
}

// IndividualTheme is the palette of single-respondent reports.
func IndividualTheme() Theme {
	return Theme{
		Primary:   Color{31, 58, 96},
		OnPrimary: Color{255, 255, 255},
		Accent:    Color{192, 80, 77},
		Success:   Color{76, 153, 94},
		Warning:   Color{230, 160, 40},
		Text:      Color{40, 40, 40},
		Muted:     Color{110, 110, 110},
		Rule:      Color{200, 200, 200},
		Track:     Color{228, 228, 228},
		Shade:     Color{244, 246, 250},
	}
}

// CoupleTheme is the palette of paired reports.
func CoupleTheme() Theme {
	t := IndividualTheme()
	t.Primary = Color{94, 53, 96}
	t.Accent = Color{200, 90, 110}
	t.Shade = Color{248, 243, 248}
	return t
}

// GaugeColor picks the fill color for a percentage: success at 80 and above,
// warning at 60 and above, otherwise the accent.
func (t Theme) GaugeColor(pct float64) Color {
	switch {
	case pct >= 80:
		return t.Success
	case pct >= 60:
		return t.Warning
	default:
		return t.Accent
	}
}
