// Package linearize turns the unordered note/connection/stack graph into
// a deterministic sequence of notes for export.
//
// Identical input and policy always produce identical output, and every
// note appears exactly once regardless of self-loops, multi-edges, or
// cycles: traversal marks notes in a processed set and never revisits.
package linearize

import (
	"fmt"
	"math"
	"sort"

	"github.com/starford/fimbra/internal/apperr"
	"github.com/starford/fimbra/internal/models"
)

// rowHeight buckets notes into visual rows for the spatial policy.
const rowHeight = 100.0

// Policy selects how the graph is flattened.
type Policy int

const (
	// Spatial orders by visual reading order: row (y / rowHeight), then x.
	Spatial Policy = iota
	// ConnectionOrder follows directed connections depth-first from the
	// notes that have no incoming connection.
	ConnectionOrder
	// Hierarchical emits stacks first in author order, then applies
	// ConnectionOrder to whatever remains.
	Hierarchical
)

// ParsePolicy maps a wire tag to a Policy. Unknown tags are rejected at
// the boundary.
func ParsePolicy(tag string) (Policy, error) {
	switch tag {
	case "spatial":
		return Spatial, nil
	case "connections":
		return ConnectionOrder, nil
	case "hierarchical":
		return Hierarchical, nil
	default:
		return 0, fmt.Errorf("%w: unknown ordering %q (supported: spatial, connections, hierarchical)",
			apperr.ErrInvalidArgument, tag)
	}
}

// String returns the wire tag for the policy.
func (p Policy) String() string {
	switch p {
	case Spatial:
		return "spatial"
	case ConnectionOrder:
		return "connections"
	case Hierarchical:
		return "hierarchical"
	default:
		return "unknown"
	}
}

// Linearize returns the document's notes in the order mandated by policy.
func Linearize(doc *models.BoardDocument, policy Policy) ([]models.Note, error) {
	switch policy {
	case Spatial:
		return spatialOrder(doc.Notes), nil
	case ConnectionOrder:
		return connectionOrder(doc.Notes, doc.Connections, make(map[string]bool)), nil
	case Hierarchical:
		return hierarchicalOrder(doc), nil
	default:
		return nil, fmt.Errorf("%w: unknown linearization policy %d", apperr.ErrInvalidArgument, int(policy))
	}
}

// spatialOrder buckets notes into rows and reads each row left to right.
// The stable sort keeps input order for exact ties.
func spatialOrder(notes []models.Note) []models.Note {
	out := make([]models.Note, len(notes))
	copy(out, notes)
	row := func(n *models.Note) int {
		return int(math.Floor(n.Frame.Y / rowHeight))
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := row(&out[i]), row(&out[j])
		if ri != rj {
			return ri < rj
		}
		return out[i].Frame.X < out[j].Frame.X
	})
	return out
}

// connectionOrder traverses the directed connection graph depth-first.
//
// Roots are the notes (in document order) with no incoming connection
// from within the given note set. At each node the outgoing edges are
// sorted by label when both carry one, falling back to the destination
// note's text, so explicit semantic labels win over incidental text.
// Notes already marked in processed are never emitted; notes never
// reached (orphans, cycle-only components) are appended in document
// order. The traversal uses an explicit work stack, so board size is
// bounded by memory rather than call-stack depth.
func connectionOrder(notes []models.Note, conns []models.Connection, processed map[string]bool) []models.Note {
	inSet := make(map[string]bool, len(notes))
	byID := make(map[string]*models.Note, len(notes))
	for i := range notes {
		if processed[notes[i].ID] {
			continue
		}
		inSet[notes[i].ID] = true
		byID[notes[i].ID] = &notes[i]
	}

	// Only edges internal to the note set participate: edges to dangling
	// IDs or into already-processed notes are skipped, never fatal.
	outgoing := make(map[string][]models.Connection)
	incoming := make(map[string]int)
	for _, c := range conns {
		if !inSet[c.SrcNoteID] || !inSet[c.DstNoteID] {
			continue
		}
		outgoing[c.SrcNoteID] = append(outgoing[c.SrcNoteID], c)
		incoming[c.DstNoteID]++
	}

	dstText := func(c models.Connection) string {
		if n := byID[c.DstNoteID]; n != nil {
			return n.Text
		}
		return ""
	}
	for id := range outgoing {
		edges := outgoing[id]
		sort.SliceStable(edges, func(i, j int) bool {
			li, lj := "", ""
			if edges[i].Label != nil {
				li = *edges[i].Label
			}
			if edges[j].Label != nil {
				lj = *edges[j].Label
			}
			if li != "" && lj != "" {
				return li < lj
			}
			return dstText(edges[i]) < dstText(edges[j])
		})
	}

	var order []models.Note
	visit := func(rootID string) {
		stack := []string{rootID}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if processed[id] {
				continue
			}
			processed[id] = true
			order = append(order, *byID[id])

			// Push in reverse so the lowest-sorted edge is popped first.
			edges := outgoing[id]
			for i := len(edges) - 1; i >= 0; i-- {
				dst := edges[i].DstNoteID
				if !processed[dst] {
					stack = append(stack, dst)
				}
			}
		}
	}

	for i := range notes {
		id := notes[i].ID
		if inSet[id] && !processed[id] && incoming[id] == 0 {
			visit(id)
		}
	}
	for i := range notes {
		if inSet[notes[i].ID] && !processed[notes[i].ID] {
			processed[notes[i].ID] = true
			order = append(order, notes[i])
		}
	}
	return order
}

// hierarchicalOrder emits stack members first, in stack list order then
// member order, then falls back to connection order for the rest.
// Author-intended grouping takes precedence over graph structure; a note
// listed in several stacks is emitted only at its first position.
func hierarchicalOrder(doc *models.BoardDocument) []models.Note {
	processed := make(map[string]bool, len(doc.Notes))
	var order []models.Note

	for _, st := range doc.Stacks {
		for _, id := range st.NoteIDs {
			if processed[id] {
				continue
			}
			n := doc.NoteByID(id)
			if n == nil {
				continue
			}
			processed[id] = true
			order = append(order, *n)
		}
	}

	return append(order, connectionOrder(doc.Notes, doc.Connections, processed)...)
}
