package logger

import (
	"go.uber.org/zap"

	"github.com/andrewpaige1/flashcard-saas/config"
)

func New(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}

	return zap.NewDevelopment()
}
