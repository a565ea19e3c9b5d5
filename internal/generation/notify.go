package generation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"videostudio/internal/domain"
)

// notify stores a user notification. Failures are logged and never surface.
func (s *Service) notify(ctx context.Context, log zerolog.Logger, userID string, kind domain.NotificationType, title, message string, data map[string]any) {
	if s.notifications == nil {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		log.Warn().Err(err).Str("type", string(kind)).Msg("encode notification data")
		return
	}
	n := &domain.Notification{UserID: userID, Type: kind, Title: title, Message: message, Data: raw}
	if err := s.notifications.Create(context.WithoutCancel(ctx), n); err != nil {
		log.Warn().Err(err).Str("type", string(kind)).Msg("create notification")
	}
}

func (s *Service) notifyLowCredits(ctx context.Context, userID string, remaining int) {
	if s.lowCredits <= 0 || remaining >= s.lowCredits {
		return
	}
	log := s.logger.With().Str("user_id", userID).Logger()
	s.notify(ctx, log, userID, domain.NotifyCreditsLow, "Credits running low",
		fmt.Sprintf("You have %d credits left.", remaining), map[string]any{
			"creditsRemaining": remaining,
			"threshold":        s.lowCredits,
		})
}
