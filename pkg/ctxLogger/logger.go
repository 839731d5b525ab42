package ctxLogger

import (
	"context"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type ctxKey struct{}

var loggerKey = ctxKey{}

func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("ctx_logger", pflag.ExitOnError)
	fs.String("log-level", "info", "LOG_LEVEL")
	fs.BoolP("is-prod", "p", false, "IS_PROD")
	return fs
}

func ConfigureCtx(logger *zap.Logger, ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger returns the logger stored in ctx, falling back to the zap global.
func GetLogger(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return zap.L()
	}
	logger, ok := ctx.Value(loggerKey).(*zap.Logger)
	if !ok || logger == nil {
		return zap.L()
	}
	return logger
}

func NewLoggerFromFlags() (*zap.Logger, error) {
	return NewLogger(viper.GetBool("is-prod"), viper.GetString("log-level"))
}

// NewLogger builds a stderr logger so that nothing but sample lines reach stdout.
func NewLogger(production bool, level string) (*zap.Logger, error) {
	var conf zap.Config
	if production {
		conf = zap.NewProductionConfig()
	} else {
		conf = zap.NewDevelopmentConfig()
	}

	if err := conf.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	conf.OutputPaths = []string{"stderr"}
	conf.ErrorOutputPaths = []string{"stderr"}

	return conf.Build()
}

func Debug(ctx context.Context, message string, fields ...zap.Field) {
	GetLogger(ctx).Debug(message, fields...)
}

func Info(ctx context.Context, message string, fields ...zap.Field) {
	GetLogger(ctx).Info(message, fields...)
}

func Warn(ctx context.Context, message string, fields ...zap.Field) {
	GetLogger(ctx).Warn(message, fields...)
}

func Error(ctx context.Context, message string, fields ...zap.Field) {
	GetLogger(ctx).Error(message, fields...)
}
