package payment_service_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"songdrop/internal/api/controllers"
	"songdrop/internal/config"
	"songdrop/internal/repositories"
	"songdrop/internal/services"
	mem "songdrop/pkg/memcache"
)

var Module = fx.Provide(
	providePaymentRepo, provideSignatureVerifier, providePaymentService, providePaymentController,
)

func providePaymentRepo(db *gorm.DB, ledger *mem.Ledger) repositories.PaymentRepository {
	if db == nil {
		return ledger
	}
	return repositories.NewPaymentRepository(db)
}

func provideSignatureVerifier(cfg config.Config, log *zap.Logger) services.SignatureVerifier {
	return services.NewSignatureVerifier(cfg.StripeWebhookSecret, cfg.StripeSignatureTolerance, log)
}

func providePaymentService(payments repositories.PaymentRepository, verifier services.SignatureVerifier, notifier services.DownloadNotifier, log *zap.Logger) services.PaymentService {
	return services.NewPaymentService(payments, verifier, notifier, log.Named("payments"))
}

func providePaymentController(paymentService services.PaymentService, cfg config.Config) *controllers.PaymentController {
	return controllers.NewPaymentController(paymentService, cfg.WebhookMaxBodyBytes)
}
