package usecase

import (
	"context"
	"fmt"

	"tg-config-bot/internal/domain"
	"tg-config-bot/internal/domain/model"
	"tg-config-bot/internal/domain/ports/adapter"
	"tg-config-bot/internal/infra/logging"
	"tg-config-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ AccessUseCase = (*accessUC)(nil)

// AccessUseCase is the membership gate in front of the bot.
type AccessUseCase interface {
	// HasAccess reports whether user is a member in good standing of the gated chat.
	// Lookup failures deny access; they are logged, never returned.
	HasAccess(ctx context.Context, user model.User) bool
	// Status returns the raw membership status; errors wrap domain.ErrMembershipLookup.
	Status(ctx context.Context, userID int64) (model.MembershipStatus, error)
}

type accessUC struct {
	bot  adapter.TelegramBotAdapter
	chat model.ChatRef
	log  *zerolog.Logger
}

func NewAccessUseCase(bot adapter.TelegramBotAdapter, chat model.ChatRef, logger *zerolog.Logger) *accessUC {
	return &accessUC{bot: bot, chat: chat, log: logger}
}

func (a *accessUC) Status(ctx context.Context, userID int64) (model.MembershipStatus, error) {
	defer logging.TraceDuration(a.log, "AccessUC.Status")()

	status, err := a.bot.GetChatMember(ctx, a.chat, userID)
	if err != nil {
		return model.MembershipOther, fmt.Errorf("%w: chat %s user %d: %w", domain.ErrMembershipLookup, a.chat, userID, err)
	}
	return status, nil
}

func (a *accessUC) HasAccess(ctx context.Context, user model.User) bool {
	log := logging.With(ctx, a.log)
	log.Info().Msgf("%s is trying to access bot", user)

	status, err := a.Status(ctx, user.ID)
	if err != nil {
		metrics.IncAccessCheck("error")
		log.Warn().Err(err).Int64("user_id", user.ID).Msg("membership lookup failed; denying access")
		return false
	}
	if !status.GrantsAccess() {
		metrics.IncAccessCheck("denied")
		log.Info().Str("status", status.String()).Msgf("%s has no access", user)
		return false
	}
	metrics.IncAccessCheck("granted")
	return true
}
