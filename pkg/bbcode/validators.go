// validators.go implements parameter validators for the built-in parametric tags.
package bbcode

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var cssColors = map[string]bool{
	"black": true, "silver": true, "gray": true, "white": true, "maroon": true, "red": true,
	"purple": true, "fuchsia": true, "green": true, "lime": true, "olive": true, "yellow": true,
	"navy": true, "blue": true, "teal": true, "aqua": true, "orange": true, "aliceblue": true,
	"antiquewhite": true, "aquamarine": true, "azure": true, "beige": true, "bisque": true,
	"blanchedalmond": true, "blueviolet": true, "brown": true, "burlywood": true, "cadetblue": true,
	"chartreuse": true, "chocolate": true, "coral": true, "cornflowerblue": true, "cornsilk": true,
	"crimson": true, "darkblue": true, "darkcyan": true, "darkgoldenrod": true, "darkgray": true,
	"darkgreen": true, "darkgrey": true, "darkkhaki": true, "darkmagenta": true, "darkolivegreen": true,
	"darkorange": true, "darkorchid": true, "darkred": true, "darksalmon": true, "darkseagreen": true,
	"darkslateblue": true, "darkslategray": true, "darkslategrey": true, "darkturquoise": true,
	"darkviolet": true, "deeppink": true, "deepskyblue": true, "dimgray": true, "dimgrey": true,
	"dodgerblue": true, "firebrick": true, "floralwhite": true, "forestgreen": true, "gainsboro": true,
	"ghostwhite": true, "gold": true, "goldenrod": true, "greenyellow": true, "grey": true,
	"honeydew": true, "hotpink": true, "indianred": true, "indigo": true, "ivory": true, "khaki": true,
	"lavender": true, "lavenderblush": true, "lawngreen": true, "lemonchiffon": true, "lightblue": true,
	"lightcoral": true, "lightcyan": true, "lightgoldenrodyellow": true, "lightgray": true,
	"lightgreen": true, "lightgrey": true, "lightpink": true, "lightsalmon": true, "lightseagreen": true,
	"lightskyblue": true, "lightslategray": true, "lightslategrey": true, "lightsteelblue": true,
	"lightyellow": true, "limegreen": true, "linen": true, "mediumaquamarine": true, "mediumblue": true,
	"mediumorchid": true, "mediumpurple": true, "mediumseagreen": true, "mediumslateblue": true,
	"mediumspringgreen": true, "mediumturquoise": true, "mediumvioletred": true, "midnightblue": true,
	"mintcream": true, "mistyrose": true, "moccasin": true, "navajowhite": true, "oldlace": true,
	"olivedrab": true, "orangered": true, "orchid": true, "palegoldenrod": true, "palegreen": true,
	"paleturquoise": true, "palevioletred": true, "papayawhip": true, "peachpuff": true, "peru": true,
	"pink": true, "plum": true, "powderblue": true, "rosybrown": true, "royalblue": true,
	"saddlebrown": true, "salmon": true, "sandybrown": true, "seagreen": true, "seashell": true,
	"sienna": true, "skyblue": true, "slateblue": true, "slategray": true, "slategrey": true,
	"snow": true, "springgreen": true, "steelblue": true, "tan": true, "thistle": true, "tomato": true,
	"turquoise": true, "violet": true, "wheat": true, "whitesmoke": true, "yellowgreen": true,
	"rebeccapurple": true,
}

var absoluteSizes = []string{"xx-small", "x-small", "small", "medium", "large", "x-large", "xx-large"}

var sizeUnits = []string{"em", "px", "rem"}

// ValidateAny accepts any parameter unchanged.
func ValidateAny(param string, _ func(Note)) (string, error) {
	return param, nil
}

// ValidateEnum returns a validator accepting exactly one of values.
func ValidateEnum(values ...string) Validator {
	return func(param string, _ func(Note)) (string, error) {
		if slices.Contains(values, param) {
			return param, nil
		}
		return "", fmt.Errorf("unknown value `%s`, expected one of %s", param, strings.Join(values, ", "))
	}
}

// ValidateColor accepts a CSS color keyword or a #rgb, #rrggbb or #rrggbbaa
// hex color and lower-cases it.
func ValidateColor(param string, note func(Note)) (string, error) {
	lower := strings.ToLower(param)

	if cssColors[lower] {
		if lower != param {
			note(Note{
				Span: len(param),
				Name: "color-upper-keyword",
				Text: fmt.Sprintf("Color keyword contains upper character: `%s`", param),
			})
		}
		return lower, nil
	}

	if isHexColor(lower) {
		if lower != param {
			note(Note{
				Span: len(param),
				Name: "color-upper-hex",
				Text: fmt.Sprintf("Hex color contains upper character: `%s`", param),
			})
		}
		return lower, nil
	}

	return "", fmt.Errorf("can't recognize `%s` as color keyword or hex color", param)
}

func isHexColor(s string) bool {
	if len(s) != 4 && len(s) != 7 && len(s) != 9 {
		return false
	}
	if s[0] != '#' {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9') && !('a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}

// ValidateSize accepts an integer size 1 to 7, an absolute size keyword, or a
// non-negative number with an em, px or rem unit.
func ValidateSize(param string, note func(Note)) (string, error) {
	s := strings.TrimSpace(param)
	num, rest, ok := splitNumber(s)

	if !ok {
		lower := strings.ToLower(s)
		if !slices.Contains(absoluteSizes, lower) {
			return "", fmt.Errorf("can't recognize `%s` as keyword or united size", param)
		}
		if lower != s {
			note(Note{
				Span: len(param),
				Name: "size-upper-keyword",
				Text: fmt.Sprintf("Absolute size keyword contains upper character: `%s`", param),
			})
		}
		return lower, nil
	}

	if rest == "" {
		if num != float64(int(num)) || num < 1 || num > 7 {
			return "", fmt.Errorf("invalid numeric absolute size `%s`", param)
		}
		return strconv.Itoa(int(num)), nil
	}

	if num < 0 {
		return "", fmt.Errorf("expected non-negative size, found `%s`", param)
	}
	unit := strings.ToLower(rest)
	if !slices.Contains(sizeUnits, unit) {
		return "", fmt.Errorf("unknown size unit `%s`", rest)
	}
	if unit != rest {
		note(Note{
			Span: len(param),
			Name: "size-upper-unit",
			Text: fmt.Sprintf("Size unit contains upper character: `%s`", param),
		})
	}
	return strconv.FormatFloat(num, 'f', -1, 64) + unit, nil
}

// splitNumber parses the leading decimal number of s.
func splitNumber(s string) (float64, string, bool) {
	i := 0
	for i < len(s) && strings.IndexByte("+-.0123456789", s[i]) >= 0 {
		i++
	}
	if i == 0 {
		return 0, s, false
	}
	v, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, s, false
	}
	return v, strings.TrimSpace(s[i:]), true
}

// ValidateFont accepts a comma separated font list. Surrounding spaces and
// quotes are stripped from each name and empty names are dropped.
func ValidateFont(param string, note func(Note)) (string, error) {
	var fonts []string
	start := 0
	for _, raw := range strings.Split(param, ",") {
		font := strings.Trim(raw, " \"'")
		if strings.ContainsAny(font, ";:(){}\\") {
			return "", fmt.Errorf("invalid character in font name `%s`", font)
		}
		switch {
		case font == "":
			note(Note{
				Offset: start,
				Span:   len(raw),
				Name:   "font-name-empty",
				Text:   "Empty font name ignored",
			})
		case font != raw:
			note(Note{
				Offset: start,
				Span:   len(raw),
				Name:   "font-name-dirty",
				Text:   fmt.Sprintf("Font name contains space or quote: `%s`", raw),
			})
			fonts = append(fonts, font)
		default:
			fonts = append(fonts, font)
		}
		start += len(raw) + 1
	}
	if len(fonts) == 0 {
		return "", fmt.Errorf("no font name in `%s`", param)
	}
	return strings.Join(fonts, ","), nil
}

// ValidatorFor returns the validator named by kind: any, color, size, font,
// or enum (which accepts exactly values).
func ValidatorFor(kind string, values []string) (Validator, error) {
	switch strings.ToLower(kind) {
	case "", "any":
		return ValidateAny, nil
	case "color":
		return ValidateColor, nil
	case "size":
		return ValidateSize, nil
	case "font":
		return ValidateFont, nil
	case "enum":
		if len(values) == 0 {
			return nil, fmt.Errorf("enum validator requires values")
		}
		return ValidateEnum(values...), nil
	default:
		return nil, fmt.Errorf("unknown validator %q (must be any, color, size, font or enum)", kind)
	}
}
