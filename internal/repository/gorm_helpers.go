package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// notFound reports whether err is gorm's missing-row error.
func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// translate maps driver-level unique violations onto ErrDuplicate.
// The connection must be opened with TranslateError enabled.
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s literally anywhere in the
// column. Postgres uses backslash as the default LIKE escape.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
