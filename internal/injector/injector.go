//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/carball/internal/config"
	"github.com/zeusync/carball/internal/server"
)

// InitializeServer assembles logger, arena, recorder and server from cfg.
func InitializeServer(cfg *config.Config) (*server.Server, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
