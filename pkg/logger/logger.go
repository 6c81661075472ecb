package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is replaced by InitLogger; the no-op default keeps library code and
// tests safe before the binary configures logging.
var Log = zap.NewNop()

func InitLogger(mode string) {
	var config zap.Config

	if mode == "release" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.OutputPaths = []string{"stdout"}
	var err error
	Log, err = config.Build()
	if err != nil {
		os.Exit(1)
	}
	zap.ReplaceGlobals(Log)
}

// Integrity logs a failure that indicates a logic defect in chip accounting.
// These must stand apart from ordinary rejected actions.
func Integrity(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Bool("integrity", true), zap.Error(err))
	Log.Error(msg, fields...)
}
