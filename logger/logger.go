// Package logger construye el logger estructurado del servicio sobre zap.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options define cómo se construye el logger
type Options struct {
	// Production usa encoder JSON y nivel info por defecto
	Production bool
	// Level sobreescribe el nivel (debug, info, warn, error)
	Level string
	// File, si no está vacío, agrega salida a un archivo rotado
	File string
}

// New crea el logger según el entorno.
// Desarrollo: consola legible, nivel debug. Producción: JSON, nivel info.
func New(opts Options) (*zap.Logger, error) {
	var encoderConfig zapcore.EncoderConfig
	defaultLevel := zapcore.DebugLevel

	if opts.Production {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		defaultLevel = zapcore.InfoLevel
	} else {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.999")
	}
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	level := defaultLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	var encoder zapcore.Encoder
	if opts.Production {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}

	if opts.File != "" {
		// El archivo siempre va en JSON para poder procesarlo
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    100, // MB
			MaxBackups: 5,
			MaxAge:     30, // días
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), fileWriter, level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}
