//go:build wireinject
// +build wireinject

package main

import (
	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/biz"
	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/conf"
	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/data"

	"github.com/google/wire"
)

// wireApp init the cron application.
func wireApp(*conf.Bootstrap) (*CronApp, func(), error) {
	panic(wire.Build(
		newLogger,

		data.ProviderSet,

		biz.ProviderSet,

		wire.Struct(new(CronApp), "*"),
	))
}
