package mock

import (
	"context"

	"github.com/imagineworking4288/pagebound"
)

var _ pagebound.ReportWriter = (*ReportWriter)(nil)

// ReportWriter is a mock implementation of pagebound.ReportWriter.
type ReportWriter struct {
	WriteFn func(ctx context.Context, report *pagebound.Report) (string, error)
}

func (w *ReportWriter) Write(ctx context.Context, report *pagebound.Report) (string, error) {
	return w.WriteFn(ctx, report)
}
