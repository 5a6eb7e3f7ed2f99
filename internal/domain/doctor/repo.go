package doctor

import (
	"context"

	"github.com/medbook/medbook/internal/platform/docstore"
)

// Repository gives access to the doctor directory.
type Repository interface {
	// Directory returns the stored directory, or the default one when the
	// document has none. The default is not written.
	Directory(ctx context.Context) (*docstore.Directory, error)
	// Update applies fn to the stored directory and saves. A missing
	// directory is materialized from the defaults first.
	Update(ctx context.Context, fn func(dir *docstore.Directory) error) error
}
