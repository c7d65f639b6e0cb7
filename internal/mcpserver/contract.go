package mcpserver

// BoardSchemaContract describes the board document JSON schema that LLM
// consumers see when reading boards or interpreting exports.
const BoardSchemaContract = `# Fimbra Board Document Schema

A board document is a freeform graph of notes, connections, stacks, and
styling, persisted as JSON (inside a .fim container or as a flat .json
file).

## Top level

` + "```" + `json
{
  "schemaVersion": 1,
  "notes": [],
  "connections": [],
  "shapes": [],
  "stacks": [],
  "noteStyles": [],
  "documentStyle": {},
  "images": []
}
` + "```" + `

## Rules

1. **schemaVersion is required.** 0 means missing/invalid; anything
   above 1 needs a newer application build. Documents outside [1, 1]
   are rejected on load and save.
2. **Notes** carry "id", "text", a "frame" ({x, y, w, h} in document
   units), and optional "styleId", "faded", "stackId", "links",
   "images", "connections".
3. **Connections** are directed: "srcNoteId" -> "dstNoteId", with an
   optional "label", "style" ({kind, arrows, color, width}), and
   "bendPoints". Multiple edges between a pair and self-loops are legal.
4. **Stacks** group notes in author order via "noteIds"; a note listed
   in several stacks counts only at its first position.
5. **Dangling IDs are tolerated.** A reference to a missing entity is
   skipped by exports, never an error.
6. Unknown or absent optional fields default to empty, never an error.

## Export orderings

- "spatial": visual reading order (rows of 100 units, left to right).
- "connections": depth-first over directed connections from notes with
  no incoming edge, edges sorted by label then destination text.
- "hierarchical": stacks first, then connection order for the rest.

## Export formats

- "txt": plain-text report (NOTES / CONNECTIONS / STACKS + footer).
- "rtf": the same report with rich-text markup.
- "opml": XML outline; connection targets become nested children.
`
