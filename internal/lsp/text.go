package lsp

import "unicode/utf8"

// posEncoding is the unit LSP character offsets are counted in.
type posEncoding uint8

const (
	encUTF16 posEncoding = iota
	encUTF8
	encUTF32
)

func (e posEncoding) String() string {
	switch e {
	case encUTF8:
		return "utf-8"
	case encUTF32:
		return "utf-32"
	default:
		return "utf-16"
	}
}

// negotiateEncoding picks the first offered encoding the server supports.
// Clients that offer nothing get UTF-16.
func negotiateEncoding(offered []string) posEncoding {
	for _, name := range offered {
		switch name {
		case "utf-8":
			return encUTF8
		case "utf-16":
			return encUTF16
		case "utf-32":
			return encUTF32
		}
	}
	return encUTF16
}

// units returns how many code units a rune of size bytes takes.
func (e posEncoding) units(r rune, size int) int {
	switch e {
	case encUTF8:
		return size
	case encUTF32:
		return 1
	}
	if r > 0xFFFF {
		return 2
	}
	return 1
}

func applyChanges(text string, changes []textDocumentContentChangeEvent, enc posEncoding) string {
	for _, change := range changes {
		if change.Range == nil {
			text = change.Text
			continue
		}
		start := offsetForPosition(text, change.Range.Start, enc)
		end := offsetForPosition(text, change.Range.End, enc)
		if end < start {
			end = start
		}
		text = text[:start] + change.Text + text[end:]
	}
	return text
}

// offsetForPosition clamps pos to the text: a line past the end maps to the
// end, a character past the line end maps to the newline.
func offsetForPosition(text string, pos position, enc posEncoding) int {
	if pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	line := 0
	i := 0
	for i < len(text) && line < pos.Line {
		if text[i] == '\n' {
			line++
		}
		i++
	}
	if line < pos.Line {
		return len(text)
	}
	units := 0
	for i < len(text) && text[i] != '\n' && units < pos.Character {
		r, size := utf8.DecodeRuneInString(text[i:])
		need := enc.units(r, size)
		if units+need > pos.Character {
			break
		}
		units += need
		i += size
	}
	return i
}
