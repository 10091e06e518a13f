package models

// Surface is the racing surface derived from the JRA track code.
type Surface string

// Surface values
const (
	SurfaceTurf     Surface = "turf"
	SurfaceDirt     Surface = "dirt"
	SurfaceObstacle Surface = "obstacle"
	SurfaceUnknown  Surface = ""
)

// venueNames maps JRA venue codes to display names.
var venueNames = map[string]string{
	"01": "札幌", "02": "函館", "03": "福島", "04": "新潟", "05": "東京",
	"06": "中山", "07": "中京", "08": "京都", "09": "阪神", "10": "小倉",
}

// venueCodes is the inverse of venueNames.
var venueCodes = func() map[string]string {
	m := make(map[string]string, len(venueNames))
	for code, name := range venueNames {
		m[name] = code
	}
	return m
}()

// VenueName returns the display name for a venue code, or the code itself
// when the code is not a JRA venue.
func VenueName(code string) string {
	if name, ok := venueNames[code]; ok {
		return name
	}
	return code
}

// VenueCode returns the two-digit venue code for a display name, or the name
// itself when unknown.
func VenueCode(name string) string {
	if code, ok := venueCodes[name]; ok {
		return code
	}
	return name
}

// SurfaceFromTrackCode maps a JRA track code to a surface. Track codes 10-22
// are turf courses, 23-29 dirt, 51+ obstacle.
func SurfaceFromTrackCode(code string) Surface {
	if len(code) == 0 {
		return SurfaceUnknown
	}
	n := 0
	for _, r := range code {
		if r < '0' || r > '9' {
			return SurfaceUnknown
		}
		n = n*10 + int(r-'0')
	}
	switch {
	case n >= 51:
		return SurfaceObstacle
	case n >= 23 && n <= 29:
		return SurfaceDirt
	case code[0] == '2':
		return SurfaceDirt
	case code[0] == '1':
		return SurfaceTurf
	}
	return SurfaceUnknown
}

// SurfaceFromGround maps the published card's ground marker (芝/ダ/障) to a
// surface.
func SurfaceFromGround(ground string) Surface {
	switch ground {
	case "芝":
		return SurfaceTurf
	case "ダ":
		return SurfaceDirt
	case "障":
		return SurfaceObstacle
	}
	return SurfaceUnknown
}
