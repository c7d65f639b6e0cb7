// Package schema gates board documents on their schema version.
//
// The gate runs after every load and before every save. There is no
// migration logic: version 0 means the field is missing or invalid, and
// anything newer than CurrentVersion needs a newer build of the
// application.
package schema

import (
	"fmt"

	"github.com/starford/fimbra/internal/apperr"
	"github.com/starford/fimbra/internal/models"
)

// CurrentVersion is the newest schema version this build accepts.
const CurrentVersion = models.CurrentSchemaVersion

// Validate accepts documents with a schema version in [1, CurrentVersion].
func Validate(doc *models.BoardDocument) error {
	switch {
	case doc.SchemaVersion == 0:
		return fmt.Errorf("%w: missing or invalid schema version", apperr.ErrSchema)
	case doc.SchemaVersion > CurrentVersion:
		return fmt.Errorf("%w: document schema version %d is newer than supported %d; update the application",
			apperr.ErrSchema, doc.SchemaVersion, CurrentVersion)
	default:
		return nil
	}
}
