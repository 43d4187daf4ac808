package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Global logger, replaced by Init. Until then everything is discarded so
// packages can log from tests that never call Init.
var zapLog = zap.NewNop()

// Init builds the global logger. Debug mode uses the development encoder with
// human readable timestamps, otherwise JSON lines with epoch millis.
func Init(debug bool) {
	var config zap.Config
	var encoderConf zapcore.EncoderConfig

	if debug {
		config = zap.NewDevelopmentConfig()
		encoderConf = zap.NewDevelopmentEncoderConfig()
		encoderConf.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewProductionConfig()
		encoderConf = zap.NewProductionEncoderConfig()
		encoderConf.EncodeTime = zapcore.EpochMillisTimeEncoder
		encoderConf.StacktraceKey = ""
	}

	config.EncoderConfig = encoderConf

	// Skip one caller as thats our own log package
	logger, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}

	zapLog = logger
}

// Use swaps the global logger, tests hand in an observer core here
func Use(logger *zap.Logger) {
	zapLog = logger.WithOptions(zap.AddCallerSkip(1))
}

// Sync flushes buffered entries, call before exiting
func Sync() {
	_ = zapLog.Sync()
}

func Debug(message string, fields ...zap.Field) {
	zapLog.Debug(message, fields...)
}

func Info(message string, fields ...zap.Field) {
	zapLog.Info(message, fields...)
}

func Warn(message string, fields ...zap.Field) {
	zapLog.Warn(message, fields...)
}

func Error(message string, fields ...zap.Field) {
	zapLog.Error(message, fields...)
}

func Fatal(message string, fields ...zap.Field) {
	zapLog.Fatal(message, fields...)
}

func Panic(message string, fields ...zap.Field) {
	zapLog.Panic(message, fields...)
}
