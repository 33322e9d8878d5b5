/* export.go
 * Contains the self-describing export document and the import validation that wholesale-replaces a
 * tournament from such a document
 * Authors: Zachary Bower
 */

package tournament

import "time"

// ExportType tags export documents so imports can reject foreign data
const ExportType = "swiss_tournament"

// AppVersion is stamped into export documents for forward compatibility checks
const AppVersion = "1.0"

// ExportDocument is the self-contained interchange format for a tournament
type ExportDocument struct {
	Tournament *Tournament `bson:"tournament" json:"tournament"`
	ExportDate int64       `bson:"exportDate" json:"exportDate"`
	Type       string      `bson:"type" json:"type"`
	AppVersion string      `bson:"appVersion" json:"appVersion"`
}

// Export wraps the full tournament state in a self-describing document
func Export(t *Tournament) ExportDocument {
	return ExportDocument{
		Tournament: t,
		ExportDate: time.Now().Unix(),
		Type:       ExportType,
		AppVersion: AppVersion,
	}
}

// Import validates an export document and returns the tournament it carries.
// Postconditions: Returns a ValidationError when the type tag is wrong or the document carries no
// player roster
func Import(doc ExportDocument) (*Tournament, error) {
	if doc.Type != ExportType {
		return nil, newValidationError("unsupported import type '%s'", doc.Type)
	}
	if doc.Tournament == nil {
		return nil, newValidationError("import document contains no tournament")
	}
	if doc.Tournament.Players == nil {
		return nil, newValidationError("import document contains no player roster")
	}
	return doc.Tournament, nil
}
