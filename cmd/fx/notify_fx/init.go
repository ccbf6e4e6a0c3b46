package notify_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"songdrop/internal/services"
)

var Module = fx.Provide(provideNotifier)

func provideNotifier(log *zap.Logger) services.DownloadNotifier {
	return services.NewLogNotifier(log.Named("notify"))
}
