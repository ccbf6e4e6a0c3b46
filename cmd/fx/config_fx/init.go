package config_fx

import (
	"go.uber.org/fx"
	"songdrop/internal/config"
)

var Module = fx.Provide(config.Load)
