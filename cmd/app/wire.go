//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/taapman/internal/bootstrap"
	"github.com/yanqian/taapman/internal/infra/config"
	"github.com/yanqian/taapman/internal/infra/healthcheck"
	httpiface "github.com/yanqian/taapman/internal/interface/http"
	"github.com/yanqian/taapman/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		bootstrap.DashboardSet,
		bootstrap.ProvideProbe,
		wire.Bind(new(httpiface.ProbeReporter), new(*healthcheck.Probe)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
