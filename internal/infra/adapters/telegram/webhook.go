package telegram

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"tg-config-bot/internal/domain"
	"tg-config-bot/internal/infra/metrics"
)

// SecretTokenHeader carries the secret given to setWebhook on every delivery.
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// WebhookHandler decodes webhook deliveries and hands them to sink.
// Requests without the expected secret are rejected with 401. When sink
// reports domain.ErrQueueFull the handler answers 503 so Telegram retries later.
func (r *RealTelegramBotAdapter) WebhookHandler(secret string, sink EventSink) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if secret != "" && subtle.ConstantTimeCompare([]byte(req.Header.Get(SecretTokenHeader)), []byte(secret)) != 1 {
			r.log.Warn().Str("remote", req.RemoteAddr).Msg("webhook call with a bad secret token")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		up, err := r.bot.HandleUpdate(req)
		if err != nil {
			r.log.Warn().Err(err).Msg("cannot decode webhook update")
			http.Error(w, "bad update", http.StatusBadRequest)
			return
		}

		ev, ok := ToEvent(*up)
		if !ok {
			w.WriteHeader(http.StatusOK)
			return
		}
		if err := sink(req.Context(), ev); err != nil {
			if errors.Is(err, domain.ErrQueueFull) {
				metrics.IncUpdateDropped()
				http.Error(w, "busy", http.StatusServiceUnavailable)
				return
			}
			r.log.Error().Err(err).Int("update_id", ev.UpdateID).Msg("cannot accept webhook update")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
}
