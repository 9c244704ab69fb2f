package file

import (
	"github.com/kiliankoe/auctiondraft/internal/catalog"
	"github.com/kiliankoe/auctiondraft/internal/config"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (catalog.Provider, error) {
		c := do.MustInvoke[*config.Config](i)
		return New(c.CatalogFile), nil
	})
}
