package pack

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorSlot is a named colour role in a theme. The slots and their order are
// fixed: the editor indexes a loaded theme by slot * ColorFieldWidth, with the
// slots sorted by name.
type ColorSlot uint8

// Colour slots in record order.
const (
	SlotAqua   ColorSlot = iota // operators, macros
	SlotBG0                     // editor background
	SlotBG1                     // status bar and current line background
	SlotBG2                     // comments, line numbers
	SlotBlue                    // objects
	SlotFG0                     // text
	SlotGray                    // other symbols
	SlotGreen                   // strings, chars
	SlotOrange                  // type names
	SlotPink                    // numbers
	SlotRed                     // keywords
	SlotYellow                  // function names

	NumColorSlots = iota
)

var slotNames = [NumColorSlots]string{
	"aqua", "bg0", "bg1", "bg2",
	"blue", "fg0", "gray", "green",
	"orange", "pink", "red", "yellow",
}

// String returns the slot's name as used in themes.json.
func (s ColorSlot) String() string {
	if int(s) < len(slotNames) {
		return slotNames[s]
	}
	return "ColorSlot(" + strconv.Itoa(int(s)) + ")"
}

// ColorSlots returns all slots in record order.
func ColorSlots() []ColorSlot {
	slots := make([]ColorSlot, NumColorSlots)
	for i := range slots {
		slots[i] = ColorSlot(i)
	}
	return slots
}

// ParseColorSlot returns the slot with the given name.
func ParseColorSlot(name string) (ColorSlot, bool) {
	for i, n := range slotNames {
		if n == name {
			return ColorSlot(i), true
		}
	}
	return 0, false
}

// HexColorPattern matches the accepted hex colour forms.
const HexColorPattern = `^#[0-9a-fA-F]{3}$|^#[0-9a-fA-F]{6}$`

var hexColorRe = regexp.MustCompile(HexColorPattern)

// RGB is a colour with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// ParseHex parses "#rgb" or "#rrggbb". Short forms expand each digit, so
// "#f80" is "#ff8800".
func ParseHex(value string) (RGB, error) {
	if !hexColorRe.MatchString(value) {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, value)
	}
	c, err := colorful.Hex(value)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q: %v", ErrInvalidColor, value, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// Hex returns the colour as "#rrggbb".
func (c RGB) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// Triplet returns the packed decimal form "RRR;GGG;BBB".
func (c RGB) Triplet() string {
	return fmt.Sprintf("%03d%c%03d%c%03d", c.R, ChannelSeparator, c.G, ChannelSeparator, c.B)
}

// PackColor converts a hex colour to its packed decimal triplet, e.g.
// "#ff0000" to "255;000;000".
func PackColor(hex string) (string, error) {
	c, err := ParseHex(hex)
	if err != nil {
		return "", err
	}
	return c.Triplet(), nil
}

// appendColorField appends the fixed-width field for c.
func appendColorField(dst []byte, c RGB) []byte {
	dst = append(dst, c.Triplet()...)
	return append(dst, 0)
}

// parseColorField decodes one ColorFieldWidth-byte field.
func parseColorField(field []byte) (RGB, error) {
	if len(field) != ColorFieldWidth || field[ColorFieldWidth-1] != 0 ||
		field[3] != ChannelSeparator || field[7] != ChannelSeparator {
		return RGB{}, fmt.Errorf("%w: bad colour field %q", ErrMalformedRecord, field)
	}

	var ch [3]uint8
	for i := range ch {
		digits := field[i*4 : i*4+3]
		n, err := strconv.Atoi(string(digits))
		if err != nil || n < 0 || n > 255 {
			return RGB{}, fmt.Errorf("%w: bad colour channel %q", ErrMalformedRecord, digits)
		}
		ch[i] = uint8(n)
	}
	return RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
}
