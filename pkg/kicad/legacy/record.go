package legacy

// RecordKind identifies the type of a legacy record line
type RecordKind int

const (
	KindUnknown RecordKind = iota
	KindDefinition
	KindField
	KindPin
	KindRectangle
	KindPolygon
	KindCircle
	KindArc
	KindText
)

var recordKindNames = map[RecordKind]string{
	KindUnknown:    "unknown",
	KindDefinition: "definition",
	KindField:      "field",
	KindPin:        "pin",
	KindRectangle:  "rectangle",
	KindPolygon:    "polygon",
	KindCircle:     "circle",
	KindArc:        "arc",
	KindText:       "text",
}

func (k RecordKind) String() string {
	if name, ok := recordKindNames[k]; ok {
		return name
	}
	return recordKindNames[KindUnknown]
}

// recordIdentifiers maps the leading identifier letter to its record kind.
// Field lines carry the field index after the letter (F0, F1, ...), so only
// the first character is looked up.
var recordIdentifiers = map[byte]RecordKind{
	'F': KindField,
	'X': KindPin,
	'S': KindRectangle,
	'P': KindPolygon,
	'C': KindCircle,
	'A': KindArc,
	'T': KindText,
}

// KindOf classifies a record by its first token
func KindOf(token string) RecordKind {
	if token == "DEF" {
		return KindDefinition
	}
	if token == "" {
		return KindUnknown
	}
	if kind, ok := recordIdentifiers[token[0]]; ok {
		return kind
	}
	return KindUnknown
}

// isForeign reports whether the first token is longer than any record
// identifier. Such lines (DRAW, ENDDRAW, ENDDEF, $FPLIST, ALIAS, footprint
// filters, ...) are not records and are skipped without a diagnostic.
func isForeign(token string) bool {
	return len(token) > 2
}
