package repository

import (
	"fmt"

	"github.com/garyjia/tpa-claims/internal/domain/claim"
	"github.com/garyjia/tpa-claims/internal/infrastructure/persistence/sqlite"
)

// writeError reports a row the schema rejected as a validation failure on field.
// Any other failure is wrapped with msg.
func writeError(field, msg string, err error) error {
	if sqlite.IsConstraint(err) {
		return &claim.ValidationError{Field: field, Reason: "rejected by store: " + err.Error()}
	}
	return fmt.Errorf("%s: %w", msg, err)
}
