package properties

import (
	"strconv"
	"strings"

	"github.com/minkbrowser/mink/utils"
)

// ParseLength parses a CSS dimension. fontSize is the base for em
// units; the root font size is fixed at 16px for rem.
func ParseLength(s string, fontSize Px) (Length, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "":
		return Length{}, false
	case "auto":
		return Auto(), true
	case "0":
		return PxLength(0), true
	}
	num := func(suffix string) (float32, bool) {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, suffix), 32)
		return float32(v), err == nil
	}
	switch {
	case strings.HasSuffix(s, "px"):
		if v, ok := num("px"); ok {
			return Length{Kind: LengthPx, Value: v}, true
		}
	case strings.HasSuffix(s, "pt"):
		if v, ok := num("pt"); ok {
			return Length{Kind: LengthPx, Value: v * 96 / 72}, true
		}
	case strings.HasSuffix(s, "rem"):
		if v, ok := num("rem"); ok {
			return Length{Kind: LengthPx, Value: v * 16}, true
		}
	case strings.HasSuffix(s, "em"):
		if v, ok := num("em"); ok {
			return Length{Kind: LengthPx, Value: v * float32(fontSize)}, true
		}
	case strings.HasSuffix(s, "%"):
		if v, ok := num("%"); ok {
			return Length{Kind: LengthPercent, Value: v}, true
		}
	}
	return Length{}, false
}

// ParsePx parses a dimension which may not be a percentage.
func ParsePx(s string, fontSize Px) (Px, bool) {
	l, ok := ParseLength(s, fontSize)
	if !ok || l.Kind != LengthPx {
		return 0, false
	}
	return utils.SatPx(float64(l.Value)), true
}

// ParseEdges parses the 1 to 4 value margin/padding shorthand.
func ParseEdges(s string, fontSize Px) (Edges, bool) {
	fields := strings.Fields(s)
	vals := make([]Length, 0, 4)
	for _, f := range fields {
		l, ok := ParseLength(f, fontSize)
		if !ok {
			return Edges{}, false
		}
		vals = append(vals, l)
	}
	switch len(vals) {
	case 1:
		return Edges{vals[0], vals[0], vals[0], vals[0]}, true
	case 2:
		return Edges{vals[0], vals[1], vals[0], vals[1]}, true
	case 3:
		return Edges{vals[0], vals[1], vals[2], vals[1]}, true
	case 4:
		return Edges{vals[0], vals[1], vals[2], vals[3]}, true
	}
	return Edges{}, false
}

var namedColors = map[string]Color{
	"transparent": Transparent,
	"black":       {0, 0, 0, 255},
	"silver":      {192, 192, 192, 255},
	"gray":        {128, 128, 128, 255},
	"grey":        {128, 128, 128, 255},
	"white":       {255, 255, 255, 255},
	"maroon":      {128, 0, 0, 255},
	"red":         {255, 0, 0, 255},
	"purple":      {128, 0, 128, 255},
	"fuchsia":     {255, 0, 255, 255},
	"green":       {0, 128, 0, 255},
	"lime":        {0, 255, 0, 255},
	"olive":       {128, 128, 0, 255},
	"yellow":      {255, 255, 0, 255},
	"navy":        {0, 0, 128, 255},
	"blue":        {0, 0, 255, 255},
	"teal":        {0, 128, 128, 255},
	"aqua":        {0, 255, 255, 255},
	"orange":      {255, 165, 0, 255},
	"brown":       {165, 42, 42, 255},
	"pink":        {255, 192, 203, 255},
	"gold":        {255, 215, 0, 255},
	"indigo":      {75, 0, 130, 255},
	"violet":      {238, 130, 238, 255},
	"lightgray":   {211, 211, 211, 255},
	"lightgrey":   {211, 211, 211, 255},
	"darkgray":    {169, 169, 169, 255},
	"darkgrey":    {169, 169, 169, 255},
	"lightblue":   {173, 216, 230, 255},
	"lightgreen":  {144, 238, 144, 255},
	"darkblue":    {0, 0, 139, 255},
	"darkgreen":   {0, 100, 0, 255},
	"darkred":     {139, 0, 0, 255},
	"beige":       {245, 245, 220, 255},
	"ivory":       {255, 255, 240, 255},
	"lavender":    {230, 230, 250, 255},
	"salmon":      {250, 128, 114, 255},
	"coral":       {255, 127, 80, 255},
	"crimson":     {220, 20, 60, 255},
	"khaki":       {240, 230, 140, 255},
	"plum":        {221, 160, 221, 255},
	"orchid":      {218, 112, 214, 255},
	"tan":         {210, 180, 140, 255},
	"tomato":      {255, 99, 71, 255},
	"turquoise":   {64, 224, 208, 255},
	"wheat":       {245, 222, 179, 255},
	"whitesmoke":  {245, 245, 245, 255},
	"gainsboro":   {220, 220, 220, 255},
	"dimgray":     {105, 105, 105, 255},
	"slategray":   {112, 128, 144, 255},
	"steelblue":   {70, 130, 180, 255},
	"royalblue":   {65, 105, 225, 255},
	"rebeccapurple": {102, 51, 153, 255},
}

// ParseColor parses named colors, hex notations and rgb()/rgba().
func ParseColor(s string) (Color, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	if strings.HasPrefix(s, "#") {
		return parseHexColor(s[1:])
	}
	if strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba(") {
		inner := s[strings.IndexByte(s, '(')+1:]
		inner = strings.TrimSuffix(inner, ")")
		parts := strings.Split(inner, ",")
		if len(parts) != 3 && len(parts) != 4 {
			return Color{}, false
		}
		var ch [3]uint8
		for i := 0; i < 3; i++ {
			v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
			if err != nil || v < 0 || v > 255 {
				return Color{}, false
			}
			ch[i] = uint8(v)
		}
		alpha := uint8(255)
		if len(parts) == 4 {
			a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 32)
			if err != nil || a < 0 || a > 1 {
				return Color{}, false
			}
			alpha = uint8(a * 255)
		}
		return Color{ch[0], ch[1], ch[2], alpha}, true
	}
	return Color{}, false
}

func parseHexColor(s string) (Color, bool) {
	hexByte := func(b []byte) (uint8, bool) {
		v, err := strconv.ParseUint(string(b), 16, 8)
		return uint8(v), err == nil
	}
	switch len(s) {
	case 3, 4:
		var out [4]uint8
		out[3] = 255
		for i := 0; i < len(s); i++ {
			v, ok := hexByte([]byte{s[i], s[i]})
			if !ok {
				return Color{}, false
			}
			out[i] = v
		}
		return Color{out[0], out[1], out[2], out[3]}, true
	case 6, 8:
		var out [4]uint8
		out[3] = 255
		for i := 0; i*2 < len(s); i++ {
			v, ok := hexByte([]byte(s[i*2 : i*2+2]))
			if !ok {
				return Color{}, false
			}
			out[i] = v
		}
		return Color{out[0], out[1], out[2], out[3]}, true
	}
	return Color{}, false
}

// SplitTopLevel splits s on sep, ignoring separators nested inside
// parentheses.
func SplitTopLevel(s string, sep byte) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// ParseLinearGradient parses a linear-gradient() value. Stops without
// explicit positions are spread evenly between their neighbours.
func ParseLinearGradient(s string) (*LinearGradient, bool) {
	s = strings.TrimSpace(s)
	const prefix = "linear-gradient("
	if !strings.HasPrefix(s, prefix) || !strings.HasSuffix(s, ")") {
		return nil, false
	}
	inner := s[len(prefix) : len(s)-1]
	parts := SplitTopLevel(inner, ',')
	if len(parts) == 0 {
		return nil, false
	}
	grad := LinearGradient{Angle: 180}
	first := strings.TrimSpace(parts[0])
	consumed := 0
	switch {
	case strings.HasSuffix(first, "deg"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(first, "deg"), 32)
		if err != nil {
			return nil, false
		}
		grad.Angle = float32(v)
		consumed = 1
	case strings.HasPrefix(first, "to "):
		switch strings.Join(strings.Fields(first[3:]), " ") {
		case "bottom":
			grad.Angle = 180
		case "top":
			grad.Angle = 0
		case "right":
			grad.Angle = 90
		case "left":
			grad.Angle = 270
		default:
			return nil, false
		}
		consumed = 1
	}
	for _, p := range parts[consumed:] {
		fields := strings.Fields(strings.TrimSpace(p))
		if len(fields) == 0 {
			return nil, false
		}
		color, ok := ParseColor(fields[0])
		if !ok {
			return nil, false
		}
		stop := GradientStop{Color: color, Offset: -1}
		if len(fields) == 2 {
			if !strings.HasSuffix(fields[1], "%") {
				return nil, false
			}
			v, err := strconv.ParseFloat(strings.TrimSuffix(fields[1], "%"), 32)
			if err != nil {
				return nil, false
			}
			stop.Offset = float32(v) / 100
		}
		grad.Stops = append(grad.Stops, stop)
	}
	if len(grad.Stops) < 2 {
		return nil, false
	}
	spreadStops(grad.Stops)
	return &grad, true
}

func spreadStops(stops []GradientStop) {
	if stops[0].Offset < 0 {
		stops[0].Offset = 0
	}
	if last := len(stops) - 1; stops[last].Offset < 0 {
		stops[last].Offset = 1
	}
	for i := 1; i < len(stops); i++ {
		if stops[i].Offset >= 0 {
			continue
		}
		// find the next explicit stop and interpolate the run
		j := i
		for stops[j].Offset < 0 {
			j++
		}
		step := (stops[j].Offset - stops[i-1].Offset) / float32(j-i+1)
		for k := i; k < j; k++ {
			stops[k].Offset = stops[k-1].Offset + step
		}
	}
}

// ParseGridTracks parses grid-template-columns. minmax() takes its
// second argument; the content sizing keywords all map to a content
// sized track.
func ParseGridTracks(s string, fontSize Px) ([]GridTrack, bool) {
	var tracks []GridTrack
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		switch {
		case strings.HasPrefix(tok, "minmax(") && strings.HasSuffix(tok, ")"):
			args := SplitTopLevel(tok[len("minmax("):len(tok)-1], ',')
			if len(args) != 2 {
				return nil, false
			}
			sub, ok := ParseGridTracks(args[1], fontSize)
			if !ok || len(sub) != 1 {
				return nil, false
			}
			tracks = append(tracks, sub[0])
		case strings.HasSuffix(tok, "fr"):
			v, err := strconv.ParseFloat(strings.TrimSuffix(tok, "fr"), 32)
			if err != nil || v < 0 {
				return nil, false
			}
			tracks = append(tracks, GridTrack{Kind: TrackFr, Value: float32(v)})
		case tok == "auto" || tok == "min-content" || tok == "max-content":
			tracks = append(tracks, GridTrack{Kind: TrackContent})
		default:
			v, ok := ParsePx(tok, fontSize)
			if !ok {
				return nil, false
			}
			tracks = append(tracks, GridTrack{Kind: TrackFixed, Value: float32(v)})
		}
	}
	return tracks, len(tracks) != 0
}

// ParseGridAreas parses grid-template-areas into a rectangular row
// major token grid, short rows padded with ".".
func ParseGridAreas(s string) ([][]string, bool) {
	var rows [][]string
	rest := strings.TrimSpace(s)
	for rest != "" {
		if rest[0] != '"' && rest[0] != '\'' {
			return nil, false
		}
		quote := rest[0]
		end := strings.IndexByte(rest[1:], quote)
		if end < 0 {
			return nil, false
		}
		rows = append(rows, strings.Fields(rest[1:1+end]))
		rest = strings.TrimSpace(rest[end+2:])
	}
	if len(rows) == 0 {
		return nil, false
	}
	width := 0
	for _, r := range rows {
		width = utils.MaxInt(width, len(r))
	}
	for i, r := range rows {
		for len(r) < width {
			r = append(r, ".")
		}
		rows[i] = r
	}
	return rows, true
}
