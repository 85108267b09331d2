package token

// Kind classifies lexical units of a logical line.
type Kind uint8

const (
	Invalid Kind = iota
	// Word is a whitespace-separated, possibly quoted, unit of text.
	Word
	// Comment runs from an unquoted '#' to the end of the logical line.
	Comment
)

func (k Kind) String() string {
	switch k {
	case Word:
		return "Word"
	case Comment:
		return "Comment"
	default:
		return "Invalid"
	}
}
