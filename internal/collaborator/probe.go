package collaborator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"sync"
	"time"

	"go.uber.org/zap"
)

const probeTimeout = 30 * time.Second

// Prober decides once whether the collaborator can be used and hands out the
// same Simulator afterwards.
type Prober struct {
	once sync.Once
	sim  Simulator
}

var defaultProber Prober

// Probe checks the collaborator once per process. The result is either a
// *Bridge or an Unavailable carrying the reason.
func Probe(ctx context.Context, opts Options) Simulator {
	return defaultProber.Probe(ctx, opts)
}

// Probe runs the check on the first call only; later calls return the
// cached handle whatever their options.
func (p *Prober) Probe(ctx context.Context, opts Options) Simulator {
	p.once.Do(func() {
		p.sim = probe(ctx, opts)
	})
	return p.sim
}

func probe(ctx context.Context, opts Options) Simulator {
	b := NewBridge(opts)

	if opts.Command == "" {
		return Unavailable{Reason: "no collaborator command configured"}
	}
	if _, err := exec.LookPath(opts.Command); err != nil {
		b.log.Warn("collaborator command not found", zap.String("command", opts.Command), zap.Error(err))
		return Unavailable{Reason: fmt.Sprintf("command %q not found", opts.Command)}
	}
	if opts.Script != "" {
		if _, err := os.Stat(opts.Script); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return Unavailable{Reason: fmt.Sprintf("bridge script %s not found", opts.Script)}
			}
			return Unavailable{Reason: err.Error()}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	if err := b.Ping(ctx); err != nil {
		b.log.Warn("collaborator probe failed", zap.Error(err))
		return Unavailable{Reason: err.Error()}
	}
	b.log.Info("collaborator available", zap.String("command", opts.Command), zap.String("script", opts.Script))
	return b
}
