package dberr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func pgErr(code string) error {
	return &pgconn.PgError{Code: code, Message: "boom"}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, Unknown},
		{"record not found", gorm.ErrRecordNotFound, NotFound},
		{"undefined table", pgErr("42P01"), MissingRelation},
		{"undefined column", pgErr("42703"), MissingColumn},
		{"insufficient privilege", pgErr("42501"), PermissionDenied},
		{"unique violation", pgErr("23505"), UniqueViolation},
		{"fk violation", pgErr("23503"), ForeignKeyViolation},
		{"wrapped pg error", fmt.Errorf("simpan gagal: %w", pgErr("42501")), PermissionDenied},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, UniqueViolation},
		{"gorm fk violated", gorm.ErrForeignKeyViolated, ForeignKeyViolation},
		{"unknown pg code", pgErr("57014"), Unknown},
		{"plain error", errors.New("timeout"), Unknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.err))
		})
	}
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsNotFound(gorm.ErrRecordNotFound))
	assert.True(t, IsMissingColumn(pgErr("42703")))
	assert.True(t, IsPermissionDenied(pgErr("42501")))
	assert.True(t, IsUniqueViolation(pgErr("23505")))

	assert.False(t, IsNotFound(pgErr("23505")))
	assert.False(t, IsPermissionDenied(errors.New("x")))
}
