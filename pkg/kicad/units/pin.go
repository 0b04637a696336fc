package units

import "strings"

// PinType is the electrical type of a pin
type PinType int

const (
	PinUnspecified PinType = iota
	PinInput
	PinOutput
	PinBidirectional
	PinTriState
	PinPassive
	PinPowerIn
	PinPowerOut
	PinOpenCollector
	PinOpenEmitter
	PinNotConnected
)

var pinTypeKeywords = map[PinType]string{
	PinUnspecified:   "unspecified",
	PinInput:         "input",
	PinOutput:        "output",
	PinBidirectional: "bidirectional",
	PinTriState:      "tri_state",
	PinPassive:       "passive",
	PinPowerIn:       "power_in",
	PinPowerOut:      "power_out",
	PinOpenCollector: "open_collector",
	PinOpenEmitter:   "open_emitter",
	PinNotConnected:  "free",
}

// ParsePinType decodes the legacy single letter electrical type.
// The letters are case sensitive: W is power input, w is power output.
func ParsePinType(code byte) PinType {
	switch code {
	case 'I':
		return PinInput
	case 'O':
		return PinOutput
	case 'B':
		return PinBidirectional
	case 'T':
		return PinTriState
	case 'P':
		return PinPassive
	case 'W':
		return PinPowerIn
	case 'w':
		return PinPowerOut
	case 'C':
		return PinOpenCollector
	case 'E':
		return PinOpenEmitter
	case 'N':
		return PinNotConnected
	default:
		return PinUnspecified
	}
}

// Keyword returns the KiCad 6 keyword for the pin type
func (t PinType) Keyword() string {
	if kw, ok := pinTypeKeywords[t]; ok {
		return kw
	}
	return pinTypeKeywords[PinUnspecified]
}

func (t PinType) String() string {
	return t.Keyword()
}

// Pin shape keywords
const (
	ShapeLine          = "line"
	ShapeInverted      = "inverted"
	ShapeClock         = "clock"
	ShapeInvertedClock = "inverted_clock"
	ShapeInputLow      = "input_low"
	ShapeClockLow      = "clock_low"
	ShapeOutputLow     = "output_low"
	ShapeEdgeClockHigh = "edge_clock_high"
	ShapeNonLogic      = "non_logic"
)

// DecodePinShape decodes a legacy pin graphic style.
// A leading N marks the pin invisible and is stripped before the rest of the
// code is decoded. Unknown codes draw as a plain line.
//
// Examples: "" -> line, "N" -> line (hidden), "CI" -> inverted_clock,
// "NCL" -> clock_low (hidden).
func DecodePinShape(code string) (shape string, hidden bool) {
	if strings.HasPrefix(code, "N") {
		hidden = true
		code = code[1:]
	}

	switch code {
	case "":
		return ShapeLine, hidden
	case "I":
		return ShapeInverted, hidden
	case "L":
		return ShapeInputLow, hidden
	case "V":
		return ShapeOutputLow, hidden
	case "F":
		return ShapeEdgeClockHigh, hidden
	case "X":
		return ShapeNonLogic, hidden
	case "C":
		return ShapeClock, hidden
	case "CI":
		return ShapeInvertedClock, hidden
	case "CL":
		return ShapeClockLow, hidden
	default:
		return ShapeLine, hidden
	}
}
