package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/starford/fimbra/internal/models"
)

// maxOutlineDepth bounds nesting so a pathological chain of connections
// cannot exhaust the call stack; nodes cut off by the cap surface in the
// flat tail instead of disappearing.
const maxOutlineDepth = 4096

// xmlEscaper writes the named entities for XML special characters.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(text string) string {
	return xmlEscaper.Replace(text)
}

// renderOPML produces an OPML 2.0 outline. The body is a forest: notes
// with no incoming connection become top-level nodes, children are the
// notes reached by outgoing connections, and a global visited set keeps
// every note to a single appearance even across cycles and self-loops.
// Notes never reached are appended as flat top-level nodes.
func renderOPML(doc *models.BoardDocument, order []models.Note, now time.Time) []byte {
	byID := make(map[string]*models.Note, len(doc.Notes))
	incoming := make(map[string]int)
	outgoing := make(map[string][]string)
	for i := range doc.Notes {
		byID[doc.Notes[i].ID] = &doc.Notes[i]
	}
	for _, c := range doc.Connections {
		if byID[c.SrcNoteID] == nil || byID[c.DstNoteID] == nil {
			continue
		}
		outgoing[c.SrcNoteID] = append(outgoing[c.SrcNoteID], c.DstNoteID)
		incoming[c.DstNoteID]++
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<opml version="2.0">` + "\n")
	b.WriteString("  <head>\n")
	fmt.Fprintf(&b, "    <title>%s</title>\n", escapeXML(Title))
	fmt.Fprintf(&b, "    <dateCreated>%s</dateCreated>\n", now.UTC().Format(time.RFC3339))
	b.WriteString("  </head>\n")
	b.WriteString("  <body>\n")

	visited := make(map[string]bool, len(doc.Notes))
	var writeNode func(id string, depth int)
	writeNode = func(id string, depth int) {
		visited[id] = true
		n := byID[id]
		indent := strings.Repeat("  ", depth+2)

		var children []string
		if depth < maxOutlineDepth {
			for _, dst := range outgoing[id] {
				if !visited[dst] {
					// Reserve before descending so a multi-edge cannot
					// queue the same child twice.
					visited[dst] = true
					children = append(children, dst)
				}
			}
		}

		if len(children) == 0 {
			fmt.Fprintf(&b, "%s<outline text=\"%s\"/>\n", indent, escapeXML(flatten(n.Text)))
			return
		}
		fmt.Fprintf(&b, "%s<outline text=\"%s\">\n", indent, escapeXML(flatten(n.Text)))
		for _, dst := range children {
			writeNode(dst, depth+1)
		}
		fmt.Fprintf(&b, "%s</outline>\n", indent)
	}

	// Roots iterate in linearized order so the outline is stable for a
	// given document and ordering.
	for i := range order {
		id := order[i].ID
		if incoming[id] == 0 && !visited[id] {
			writeNode(id, 0)
		}
	}
	// Whatever was never reached (cycle-only components) comes last as
	// flat top-level nodes.
	for i := range order {
		id := order[i].ID
		if !visited[id] {
			visited[id] = true
			fmt.Fprintf(&b, "    <outline text=\"%s\"/>\n", escapeXML(flatten(order[i].Text)))
		}
	}

	b.WriteString("  </body>\n")
	b.WriteString("</opml>\n")
	return []byte(b.String())
}
