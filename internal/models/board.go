// Package models defines the domain types for Fimbra.
package models

import "time"

// CurrentSchemaVersion is the newest board schema this build understands.
const CurrentSchemaVersion = 1

// Point is a position in document units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is a note or shape frame in document units.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// TextStyle describes how note text is rendered.
type TextStyle struct {
	Font      string  `json:"font"`
	Size      float64 `json:"size"`
	Weight    *uint32 `json:"weight,omitempty"`
	Italic    *bool   `json:"italic,omitempty"`
	Underline *bool   `json:"underline,omitempty"`
	Strike    *bool   `json:"strike,omitempty"`
	Color     *string `json:"color,omitempty"`
	Align     *string `json:"align,omitempty"`
}

// BorderStyle describes a note border.
type BorderStyle struct {
	Color *string  `json:"color,omitempty"`
	Width *float64 `json:"width,omitempty"`
	Style *string  `json:"style,omitempty"`
}

// NoteStyle is a reusable named style referenced by notes via StyleID.
type NoteStyle struct {
	ID           string       `json:"id"`
	TextStyle    TextStyle    `json:"textStyle"`
	Fill         *string      `json:"fill,omitempty"`
	Border       *BorderStyle `json:"border,omitempty"`
	CornerRadius *float64     `json:"cornerRadius,omitempty"`
	Shadow       *bool        `json:"shadow,omitempty"`
}

// BackgroundStyle describes the board background.
type BackgroundStyle struct {
	Color     *string `json:"color,omitempty"`
	TextureID *string `json:"textureId,omitempty"`
}

// GridStyle describes the board grid.
type GridStyle struct {
	Visible bool    `json:"visible"`
	Snap    bool    `json:"snap"`
	Size    float64 `json:"size"`
}

// DocumentStyle holds board-level presentation defaults.
type DocumentStyle struct {
	Background          *BackgroundStyle `json:"background,omitempty"`
	DefaultNoteStyleID  *string          `json:"defaultNoteStyleId,omitempty"`
	DefaultShapeStyleID *string          `json:"defaultShapeStyleId,omitempty"`
	Grid                *GridStyle       `json:"grid,omitempty"`
}

// EmbeddedImage is an image referenced by notes, inline or by path.
type EmbeddedImage struct {
	ID         string  `json:"id"`
	Mime       string  `json:"mime"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	DataBase64 *string `json:"dataBase64,omitempty"`
	Path       *string `json:"path,omitempty"`
}

// ConnectionStyle describes how a connection is drawn.
type ConnectionStyle struct {
	Kind   *string  `json:"kind,omitempty"`
	Arrows *string  `json:"arrows,omitempty"`
	Color  *string  `json:"color,omitempty"`
	Width  *float64 `json:"width,omitempty"`
}

// Connection is a directed edge between two notes. Multiple connections
// between the same pair and self-loops are legal.
type Connection struct {
	ID         string           `json:"id"`
	SrcNoteID  string           `json:"srcNoteId"`
	DstNoteID  string           `json:"dstNoteId"`
	Style      *ConnectionStyle `json:"style,omitempty"`
	Label      *string          `json:"label,omitempty"`
	BendPoints []Point          `json:"bendPoints,omitempty"`
}

// BackgroundShape is a decorative region behind notes.
type BackgroundShape struct {
	ID       string   `json:"id"`
	Frame    Rect     `json:"frame"`
	Radius   *float64 `json:"radius,omitempty"`
	Magnetic *bool    `json:"magnetic,omitempty"`
	StyleID  *string  `json:"styleId,omitempty"`
	Label    *string  `json:"label,omitempty"`
}

// Stack is an ordered, author-grouped cluster of notes.
type Stack struct {
	ID           string            `json:"id"`
	NoteIDs      []string          `json:"noteIds"`
	Orientation  *string           `json:"orientation,omitempty"`
	Spacing      *float64          `json:"spacing,omitempty"`
	IndentLevels map[string]uint32 `json:"indentLevels,omitempty"`
	AlignedWidth *float64          `json:"alignedWidth,omitempty"`
}

// Note is a single board note. Mutated by the editor; read-only here.
type Note struct {
	ID          string         `json:"id"`
	Text        string         `json:"text"`
	RichAttrs   map[string]any `json:"richAttrs,omitempty"`
	Frame       Rect           `json:"frame"`
	StyleID     *string        `json:"styleId,omitempty"`
	Faded       *bool          `json:"faded,omitempty"`
	StackID     *string        `json:"stackId,omitempty"`
	Links       []string       `json:"links,omitempty"`
	Images      []string       `json:"images,omitempty"`
	Connections []string       `json:"connections,omitempty"`
}

// IsFaded reports whether the note carries an explicit faded flag.
func (n *Note) IsFaded() bool {
	return n.Faded != nil && *n.Faded
}

// BoardDocument is the root aggregate persisted in a container.
//
// ID references elsewhere in the document (styleId, stackId, connection
// endpoints) may dangle; consumers must skip or degrade, never panic.
type BoardDocument struct {
	SchemaVersion uint32            `json:"schemaVersion"`
	Notes         []Note            `json:"notes"`
	Connections   []Connection      `json:"connections"`
	Shapes        []BackgroundShape `json:"shapes"`
	Stacks        []Stack           `json:"stacks"`
	NoteStyles    []NoteStyle       `json:"noteStyles"`
	DocumentStyle *DocumentStyle    `json:"documentStyle,omitempty"`
	Images        []EmbeddedImage   `json:"images,omitempty"`
}

// NoteByID returns the note with the given ID, or nil.
func (d *BoardDocument) NoteByID(id string) *Note {
	for i := range d.Notes {
		if d.Notes[i].ID == id {
			return &d.Notes[i]
		}
	}
	return nil
}

// AutosaveInfo describes one recovery sidecar pair.
type AutosaveInfo struct {
	OriginalPath string    `json:"originalPath"`
	RecoveryPath string    `json:"recoveryPath"`
	Timestamp    time.Time `json:"timestamp"`
	Checksum     string    `json:"checksum,omitempty"`
}
