package game

import (
	"github.com/kiliankoe/auctiondraft/internal/catalog"
	"github.com/kiliankoe/auctiondraft/internal/config"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Registry, error) {
		cfg := do.MustInvoke[*config.Config](i)
		cat := do.MustInvoke[*catalog.Catalog](i)
		opts := []RegistryOption{WithDefaults(Rules{
			StartingBudget: cfg.DefaultStartingBudget,
			MaxSlots:       cfg.DefaultMaxSlots,
			MinOpeningBid:  cfg.MinOpeningBid,
			RaiseIncrement: cfg.RaiseIncrement,
			LogTail:        cfg.LogTail,
		})}
		if cat.Len() > 0 {
			opts = append(opts, WithCatalog(cat))
		}
		return NewRegistry(opts...), nil
	})
}
