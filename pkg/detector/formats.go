package detector

// Delimiter is a candidate field delimiter for detection.
type Delimiter struct {
	Rune rune
	Name string
}

// DefaultDelimiters returns the built-in delimiter candidates, ordered
// roughly by how common they are in record-oriented exports.
func DefaultDelimiters() []Delimiter {
	return []Delimiter{
		{Rune: ',', Name: "comma"},
		{Rune: '\t', Name: "tab"},
		{Rune: '|', Name: "pipe"},
		{Rune: ';', Name: "semicolon"},
		{Rune: ':', Name: "colon"},
	}
}
