package domain

import "errors"

var (
	ErrInvalidKey         = errors.New("invalid column key")
	ErrDuplicateKey       = errors.New("duplicate column key")
	ErrRaggedColumns      = errors.New("column lengths differ")
	ErrUnknownColumnType  = errors.New("unknown column type")
	ErrInvalidSheetName   = errors.New("invalid sheet name")
	ErrRowIdentityMissing = errors.New("row identity count does not match row count")
)
