package ws

import (
	"github.com/kiliankoe/auctiondraft/internal/catalog"
	"github.com/kiliankoe/auctiondraft/internal/game"
	"github.com/kiliankoe/auctiondraft/internal/report"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Server, error) {
		rm := do.MustInvoke[*game.Registry](i)
		cat := do.MustInvoke[*catalog.Catalog](i)
		exp := do.MustInvoke[*report.Exporter](i)
		return New(rm, cat, exp), nil
	})
}
