package ports

import (
	"context"
	"io"

	"annexval/domain/table"
)

// Exporter serializes a dataset snapshot to a downloadable artifact.
// Export is advisory-neutral: it must work whether or not findings remain.
type Exporter interface {
	Export(ctx context.Context, data *table.Table, w io.Writer) error
}
