package libs

import (
	"go.uber.org/zap"
)

// InitLogger builds the production zap logger and installs it as the
// process-wide logger so the rest of the code can use zap.S().
func InitLogger() (*zap.Logger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}
