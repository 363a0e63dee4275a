// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docproc

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/docuchat/docuchat-tui/internal/model"
)

// =============================================================================
// BATCH PROCESSING
// =============================================================================

// ProcessBatch processes several files with bounded parallelism.
//
// Successes are returned in completion order, not input order. Per-file
// failures are collected into a single *BatchError; one bad file never blocks
// the rest of the batch. When every file fails the document slice is empty
// and the error describes each failure.
func (p *Processor) ProcessBatch(ctx context.Context, paths []string, maxWorkers int) ([]*model.Document, error) {
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	var (
		mu       sync.Mutex
		docs     []*model.Document
		failures []*ProcessError
	)

	g, ctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, maxWorkers)

	for _, path := range paths {
		path := path
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return ctx.Err()
			}

			doc, err := p.Process(path)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, asProcessError(path, err))
				p.logger.Warn("file rejected",
					zap.String("file", path),
					zap.Error(err))
				return nil
			}
			docs = append(docs, doc)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return docs, err
	}

	if len(failures) > 0 {
		return docs, &BatchError{Failures: failures}
	}
	return docs, nil
}

// asProcessError normalizes arbitrary errors into the batch failure shape.
func asProcessError(path string, err error) *ProcessError {
	if procErr, ok := err.(*ProcessError); ok {
		return procErr
	}
	return newError(ErrTypeUnknown, path, err.Error(), err)
}
