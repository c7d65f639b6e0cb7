package export

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/starford/fimbra/internal/linearize"
	"github.com/starford/fimbra/internal/models"
)

// escapeRTF makes text safe to embed in an RTF body: control characters
// of the format (backslash, braces) are escaped, newlines become
// paragraph breaks, tabs become tab stops, and non-ASCII runes use the
// \uN? escape so the \ansi charset stays valid. \uN takes a signed
// 16-bit value, so runes past U+7FFF wrap negative and astral runes
// are written as a UTF-16 surrogate pair.
func escapeRTF(text string) string {
	var b strings.Builder
	for _, r := range text {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '{':
			b.WriteString(`\{`)
		case '}':
			b.WriteString(`\}`)
		case '\n':
			b.WriteString(`\par `)
		case '\r':
			// Swallowed: \r\n pairs collapse to the \n paragraph break.
		case '\t':
			b.WriteString(`\tab `)
		default:
			switch {
			case r <= 127:
				b.WriteRune(r)
			case r <= 0xFFFF:
				fmt.Fprintf(&b, `\u%d?`, int16(r))
			default:
				hi, lo := utf16.EncodeRune(r)
				fmt.Fprintf(&b, `\u%d?\u%d?`, int16(hi), int16(lo))
			}
		}
	}
	return b.String()
}

// renderRTF produces the rich-text report: centered title, bold section
// headers, grey "(faded)" annotations.
func renderRTF(doc *models.BoardDocument, order []models.Note, policy linearize.Policy, now time.Time) []byte {
	idx := displayIndex(order)
	var b strings.Builder

	b.WriteString(`{\rtf1\ansi\deff0` + "\n")
	b.WriteString(`{\fonttbl{\f0 Helvetica;}}` + "\n")
	// Color 1 is body text, color 2 the grey used for faded annotations.
	b.WriteString(`{\colortbl;\red0\green0\blue0;\red128\green128\blue128;}` + "\n")

	fmt.Fprintf(&b, `\qc\b\fs32 %s\b0\fs24\par\pard`+"\n", escapeRTF(Title))
	b.WriteString(`\par` + "\n")

	b.WriteString(`\b NOTES\b0\par` + "\n")
	for i := range order {
		n := &order[i]
		fmt.Fprintf(&b, `%d. %s`, i+1, escapeRTF(flatten(n.Text)))
		if n.IsFaded() {
			b.WriteString(`{\cf2  (faded)}`)
		}
		b.WriteString(`\par` + "\n")
	}

	b.WriteString(`\par\b CONNECTIONS\b0\par` + "\n")
	connNo := 0
	for _, c := range doc.Connections {
		src, srcOK := idx[c.SrcNoteID]
		dst, dstOK := idx[c.DstNoteID]
		if !srcOK || !dstOK {
			continue
		}
		connNo++
		fmt.Fprintf(&b, `%d. [%d] \u8594? [%d]: "%s" \u8594? "%s"`,
			connNo, src, dst,
			escapeRTF(flatten(order[src-1].Text)), escapeRTF(flatten(order[dst-1].Text)))
		if c.Label != nil && *c.Label != "" {
			fmt.Fprintf(&b, `\par\tab label: %s`, escapeRTF(flatten(*c.Label)))
		}
		if c.Style != nil && c.Style.Kind != nil && *c.Style.Kind != "" {
			fmt.Fprintf(&b, `\par\tab style: %s`, escapeRTF(*c.Style.Kind))
		}
		b.WriteString(`\par` + "\n")
	}

	b.WriteString(`\par\b STACKS\b0\par` + "\n")
	for i, st := range doc.Stacks {
		fmt.Fprintf(&b, `%d. Stack %s\par`+"\n", i+1, escapeRTF(st.ID))
		for _, id := range st.NoteIDs {
			pos, ok := idx[id]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, `\tab - [%d] %s\par`+"\n", pos, escapeRTF(flatten(order[pos-1].Text)))
		}
	}

	b.WriteString(`\par` + "\n")
	fmt.Fprintf(&b, `Generated: %s\par`+"\n", now.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, `Ordering: %s\par`+"\n", policy)
	fmt.Fprintf(&b, `Notes: %d  Connections: %d  Stacks: %d\par`+"\n",
		len(doc.Notes), len(doc.Connections), len(doc.Stacks))
	b.WriteString("}\n")

	return []byte(b.String())
}
