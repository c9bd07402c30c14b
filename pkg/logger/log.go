package logger

import "go.uber.org/zap"

// NewLogger создаёт логгер с выводом одновременно в stdout и файл.
func NewLogger() *zap.Logger {
	dualConfig := zap.Config{
		Encoding:         "console",
		Level:            zap.NewAtomicLevelAt(zap.DebugLevel),
		OutputPaths:      []string{"stdout", "./logs/app.log"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewProductionEncoderConfig(),
	}

	dualLogger, err := dualConfig.Build()
	if err != nil {
		panic(err)
	}

	return dualLogger
}

// Named возвращает дочерний логгер для подсистемы (auth, equipment и т.д.).
func Named(base *zap.Logger, name string) *zap.Logger {
	return base.Named(name)
}
