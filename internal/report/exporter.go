package report

import (
	"github.com/kiliankoe/auctiondraft/internal/config"
	"github.com/kiliankoe/auctiondraft/internal/game"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
)

// Exporter appends a text summary of every draft that finishes.
type Exporter struct {
	Enabled bool
	File    string
}

func (e *Exporter) Finished(snap game.Snapshot) {
	if e == nil || !e.Enabled {
		return
	}
	if err := AppendText(e.File, snap); err != nil {
		log.Error().Err(err).Str("code", snap.Code).Msg("failed to export draft results")
		return
	}
	log.Info().Str("code", snap.Code).Str("file", e.File).Msg("exported draft results")
}

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Exporter, error) {
		c := do.MustInvoke[*config.Config](i)
		return &Exporter{Enabled: c.ExportEnabled, File: c.ExportFile}, nil
	})
}
