// Package export renders a linearized board into textual artifacts:
// plain text, RTF, and OPML outlines.
//
// Renderers never fail on dangling references. A connection or stack
// member pointing at a note absent from the linearized set is dropped
// from the annotated output; the only fatal condition left to callers is
// being unable to write the resulting bytes.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/starford/fimbra/internal/apperr"
	"github.com/starford/fimbra/internal/linearize"
	"github.com/starford/fimbra/internal/models"
)

// Format identifies an export output format.
type Format int

const (
	// FormatText is the plain-text report.
	FormatText Format = iota
	// FormatRTF is the rich-text report.
	FormatRTF
	// FormatOPML is the XML outline.
	FormatOPML
)

// ParseFormat maps a wire tag to a Format. Unknown tags are rejected at
// the boundary.
func ParseFormat(tag string) (Format, error) {
	switch tag {
	case "txt":
		return FormatText, nil
	case "rtf":
		return FormatRTF, nil
	case "opml":
		return FormatOPML, nil
	default:
		return 0, fmt.Errorf("%w: unknown export format %q (supported: txt, rtf, opml)",
			apperr.ErrInvalidArgument, tag)
	}
}

// String returns the wire tag for the format.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "txt"
	case FormatRTF:
		return "rtf"
	case FormatOPML:
		return "opml"
	default:
		return "unknown"
	}
}

// Title is the document title used by all renderers.
const Title = "Board Export"

// Render linearizes doc under policy and renders it in the given format.
// now stamps the generated artifact and is passed in so callers (and
// tests) control the clock.
func Render(doc *models.BoardDocument, format Format, policy linearize.Policy, now time.Time) ([]byte, error) {
	order, err := linearize.Linearize(doc, policy)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatText:
		return renderText(doc, order, policy, now), nil
	case FormatRTF:
		return renderRTF(doc, order, policy, now), nil
	case FormatOPML:
		return renderOPML(doc, order, now), nil
	default:
		return nil, fmt.Errorf("%w: unknown export format %d", apperr.ErrInvalidArgument, int(format))
	}
}

// displayIndex maps note IDs to their 1-based position in the
// linearized order, used to cross-reference notes in annotations.
func displayIndex(order []models.Note) map[string]int {
	idx := make(map[string]int, len(order))
	for i := range order {
		idx[order[i].ID] = i + 1
	}
	return idx
}

// flatten collapses note text onto one line for list entries.
func flatten(text string) string {
	text = strings.ReplaceAll(text, "\r\n", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.TrimSpace(text)
}
