package logger

import (
	"go-carehub/internal/config"
	"go-carehub/internal/database"

	"go.uber.org/zap"
)

// NewLogger builds the application logger. Every entry also flows into the
// mongo "logs" collection through an async writer so the console keeps an
// inspectable history of scheduler and dispatch activity.
func NewLogger(cfg *config.Config, mongodb *database.MongodbDB) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Environment == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Function name shows which sweep or sender produced the entry
	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	dbWriter := NewDBLogWriter(mongodb, cfg)
	finalCore := NewDBCore(baseLogger.Core(), dbWriter)

	return zap.New(finalCore, zap.AddCaller()), nil
}
