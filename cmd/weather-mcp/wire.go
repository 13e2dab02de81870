//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/taapman/internal/bootstrap"
	"github.com/yanqian/taapman/internal/infra/config"
	"github.com/yanqian/taapman/internal/interface/mcp"
)

func initializeServer() (*mcp.Server, error) {
	wire.Build(
		config.Load,
		provideLogger,
		bootstrap.DashboardSet,
		mcp.NewServer,
	)
	return nil, nil
}
