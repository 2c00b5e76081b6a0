package proto

import "strings"

// ButtonFlags is the bit-field reported by the Buttons event. Bits are
// combined, so several buttons may be reported as pressed at once.
type ButtonFlags uint32

const (
	ButtonCrossOrA        ButtonFlags = 0x00001
	ButtonTriangleOrY     ButtonFlags = 0x00002
	ButtonCircleOrB       ButtonFlags = 0x00004
	ButtonSquareOrX       ButtonFlags = 0x00008
	ButtonDpadLeft        ButtonFlags = 0x00010
	ButtonDpadRight       ButtonFlags = 0x00020
	ButtonDpadUp          ButtonFlags = 0x00040
	ButtonDpadDown        ButtonFlags = 0x00080
	ButtonOptionsOrMenu   ButtonFlags = 0x00100
	ButtonL1OrLB          ButtonFlags = 0x00200
	ButtonR1OrRB          ButtonFlags = 0x00400
	ButtonL2OrLT          ButtonFlags = 0x00800
	ButtonR2OrRT          ButtonFlags = 0x01000
	ButtonLeftStickClick  ButtonFlags = 0x02000
	ButtonRightStickClick ButtonFlags = 0x04000
	ButtonRightStickLeft  ButtonFlags = 0x08000
	ButtonRightStickRight ButtonFlags = 0x10000
	ButtonRightStickUp    ButtonFlags = 0x20000
	ButtonRightStickDown  ButtonFlags = 0x40000
	ButtonSpecial         ButtonFlags = 0x80000
)

var buttonNames = []struct {
	flag ButtonFlags
	name string
}{
	{ButtonCrossOrA, "A"},
	{ButtonTriangleOrY, "Y"},
	{ButtonCircleOrB, "B"},
	{ButtonSquareOrX, "X"},
	{ButtonDpadLeft, "DpadLeft"},
	{ButtonDpadRight, "DpadRight"},
	{ButtonDpadUp, "DpadUp"},
	{ButtonDpadDown, "DpadDown"},
	{ButtonOptionsOrMenu, "Options"},
	{ButtonL1OrLB, "LB"},
	{ButtonR1OrRB, "RB"},
	{ButtonL2OrLT, "LT"},
	{ButtonR2OrRT, "RT"},
	{ButtonLeftStickClick, "LeftStickClick"},
	{ButtonRightStickClick, "RightStickClick"},
	{ButtonRightStickLeft, "RightStickLeft"},
	{ButtonRightStickRight, "RightStickRight"},
	{ButtonRightStickUp, "RightStickUp"},
	{ButtonRightStickDown, "RightStickDown"},
	{ButtonSpecial, "Special"},
}

// Has returns whether every bit of flag is set in b.
func (b ButtonFlags) Has(flag ButtonFlags) bool { return b&flag == flag }

// Pressed returns each known flag set in b, in ascending bit order.
func (b ButtonFlags) Pressed() []ButtonFlags {
	var out []ButtonFlags
	for _, n := range buttonNames {
		if b.Has(n.flag) {
			out = append(out, n.flag)
		}
	}
	return out
}

func (b ButtonFlags) String() string {
	if b == 0 {
		return "None"
	}
	var names []string
	for _, n := range buttonNames {
		if b.Has(n.flag) {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "Unknown"
	}
	return strings.Join(names, "|")
}
