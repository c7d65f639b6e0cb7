package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/starford/fimbra/internal/linearize"
	"github.com/starford/fimbra/internal/models"
)

// renderText produces the plain-text report: NOTES, CONNECTIONS, and
// STACKS sections followed by a generation footer.
func renderText(doc *models.BoardDocument, order []models.Note, policy linearize.Policy, now time.Time) []byte {
	idx := displayIndex(order)
	var b strings.Builder

	b.WriteString(Title + "\n")
	b.WriteString(strings.Repeat("=", len(Title)) + "\n\n")

	b.WriteString("NOTES\n-----\n")
	for i := range order {
		n := &order[i]
		fmt.Fprintf(&b, "%d. %s", i+1, flatten(n.Text))
		if n.IsFaded() {
			b.WriteString(" (faded)")
		}
		b.WriteString("\n")
	}

	b.WriteString("\nCONNECTIONS\n-----------\n")
	connNo := 0
	for _, c := range doc.Connections {
		src, srcOK := idx[c.SrcNoteID]
		dst, dstOK := idx[c.DstNoteID]
		if !srcOK || !dstOK {
			// Dangling or filtered endpoint: skip the whole edge.
			continue
		}
		connNo++
		fmt.Fprintf(&b, "%d. [%d] → [%d]: %q → %q\n",
			connNo, src, dst,
			flatten(order[src-1].Text), flatten(order[dst-1].Text))
		if c.Label != nil && *c.Label != "" {
			fmt.Fprintf(&b, "   label: %s\n", flatten(*c.Label))
		}
		if c.Style != nil {
			if c.Style.Kind != nil && *c.Style.Kind != "" {
				fmt.Fprintf(&b, "   style: %s\n", *c.Style.Kind)
			}
			if c.Style.Arrows != nil && *c.Style.Arrows != "" {
				fmt.Fprintf(&b, "   arrows: %s\n", *c.Style.Arrows)
			}
		}
	}

	b.WriteString("\nSTACKS\n------\n")
	for i, st := range doc.Stacks {
		fmt.Fprintf(&b, "%d. Stack %s\n", i+1, st.ID)
		for _, id := range st.NoteIDs {
			pos, ok := idx[id]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "   - [%d] %s\n", pos, flatten(order[pos-1].Text))
		}
	}

	b.WriteString("\n---\n")
	fmt.Fprintf(&b, "Generated: %s\n", now.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Ordering: %s\n", policy)
	fmt.Fprintf(&b, "Notes: %d  Connections: %d  Stacks: %d\n",
		len(doc.Notes), len(doc.Connections), len(doc.Stacks))

	return []byte(b.String())
}
