package spatial

import (
	"github.com/cwbudde/regionfx/dsp/core"
	"golang.org/x/sync/errgroup"
)

// forChunks runs fn over contiguous output ranges covering [0, n).
func forChunks(cfg core.ProcessorConfig, n int, fn func(lo, hi int)) {
	chunks := cfg.Chunks(n)
	if len(chunks) <= 1 {
		for _, c := range chunks {
			fn(c[0], c[1])
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(cfg.Workers)
	for _, c := range chunks {
		lo, hi := c[0], c[1]
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}
