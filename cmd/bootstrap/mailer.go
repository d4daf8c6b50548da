package bootstrap

import (
	"venuebook/internal/infra/mailer"
	"venuebook/internal/pkg/config"
	"venuebook/internal/pkg/jwt"
	"venuebook/internal/usecase/commands"

	"go.uber.org/fx"
)

var MailerModule = fx.Module("mailer",
	fx.Provide(
		NewDispatcher,
	),
)

func NewDispatcher(cfg config.Config, tokens *jwt.Service) commands.NotificationDispatcher {
	return mailer.NewDispatcher(cfg.SMTP, cfg.Approvals, tokens)
}
