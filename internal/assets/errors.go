package assets

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound matches every AssetNotFoundError.
var ErrNotFound = errors.New("asset not found")

// AssetNotFoundError reports a missing asset document.
type AssetNotFoundError struct {
	Name string
}

func (e *AssetNotFoundError) Error() string {
	return fmt.Sprintf("asset not found: %s", e.Name)
}

func (e *AssetNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InvalidAssetError reports a document that failed schema validation or
// decoding.
type InvalidAssetError struct {
	Name     string
	Problems []string
	Err      error
}

func (e *InvalidAssetError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid asset %s", e.Name)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if len(e.Problems) > 0 {
		fmt.Fprintf(&b, ": %s", strings.Join(e.Problems, "; "))
	}
	return b.String()
}

func (e *InvalidAssetError) Unwrap() error {
	return e.Err
}
