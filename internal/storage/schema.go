package storage

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/guttosm/barstore/internal/apperrors"
)

// ErrEmptySchema is wrapped by LoadSchema when the script has no statements.
var ErrEmptySchema = errors.New("schema script is empty")

// LoadSchema reads the relational schema script at path.
func LoadSchema(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", apperrors.NotFound("read schema", path, err)
		}
		return "", apperrors.Schema("read schema", path, err)
	}
	if strings.TrimSpace(string(b)) == "" {
		return "", apperrors.Schema("read schema", path, ErrEmptySchema)
	}
	return string(b), nil
}
