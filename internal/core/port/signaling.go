package port

import (
	"context"

	"github.com/Wyydra/voicebridge/internal/core/domain"
)

type SignalingServer interface {
	Answer(ctx context.Context, address, token string, req domain.AnswerRequest) (string, error)
}
