// Package dberr memetakan error dari store eksternal ke klasifikasi bertipe,
// supaya control flow tidak bergantung pada substring pesan error.
package dberr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Kind int

const (
	Unknown Kind = iota
	NotFound
	MissingRelation
	MissingColumn
	PermissionDenied
	UniqueViolation
	ForeignKeyViolation
)

// Kode SQLSTATE Postgres yang kita kenali.
const (
	codeUndefinedTable     = "42P01"
	codeUndefinedColumn    = "42703"
	codeInsufficientPriv   = "42501"
	codeUniqueViolation    = "23505"
	codeForeignKeyViolated = "23503"
)

// Classify menerjemahkan err hasil operasi GORM/pgx ke Kind.
func Classify(err error) Kind {
	if err == nil {
		return Unknown
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUndefinedTable:
			return MissingRelation
		case codeUndefinedColumn:
			return MissingColumn
		case codeInsufficientPriv:
			return PermissionDenied
		case codeUniqueViolation:
			return UniqueViolation
		case codeForeignKeyViolated:
			return ForeignKeyViolation
		}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return UniqueViolation
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ForeignKeyViolation
	}

	return Unknown
}

func IsNotFound(err error) bool         { return Classify(err) == NotFound }
func IsMissingColumn(err error) bool    { return Classify(err) == MissingColumn }
func IsPermissionDenied(err error) bool { return Classify(err) == PermissionDenied }
func IsUniqueViolation(err error) bool  { return Classify(err) == UniqueViolation }
