// Package logger 引擎的全局zap日志。引擎各包通过包级函数打日志，
// 不各自持有Logger实例。
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Logger *zap.Logger

// InitLogger 初始化日志。ENV=development时输出彩色控制台格式，
// LOG_LEVEL=debug时放开Debug级别，生产默认JSON+Info
func InitLogger() error {
	config := zap.NewProductionConfig()
	if os.Getenv("ENV") == "development" {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if os.Getenv("LOG_LEVEL") == "debug" {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	var err error
	Logger, err = config.Build()
	if err != nil {
		return err
	}

	zap.ReplaceGlobals(Logger)
	return nil
}

// GetLogger 获取全局Logger。未初始化时退回生产默认配置，
// 测试里不需要显式InitLogger
func GetLogger() *zap.Logger {
	if Logger == nil {
		Logger, _ = zap.NewProduction()
	}
	return Logger
}

// With 创建带固定字段的子Logger
func With(fields ...zap.Field) *zap.Logger {
	return GetLogger().With(fields...)
}

// Sync 刷新日志缓冲区，进程退出前调用
func Sync() {
	if Logger != nil {
		Logger.Sync()
	}
}

func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Fatal 记录日志后退出进程
func Fatal(msg string, fields ...zap.Field) {
	GetLogger().Fatal(msg, fields...)
}
