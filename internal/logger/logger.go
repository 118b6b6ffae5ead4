package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type Option func(*logrus.Logger)

// WithFields добавляет поля к каждой записи. Поля, явно переданные в запись, имеют приоритет.
func WithFields(fields logrus.Fields) Option {
	return func(l *logrus.Logger) {
		l.AddHook(defaultFieldsHook{fields: fields})
	}
}

// WithLevel перекрывает уровень, выбранный по окружению.
func WithLevel(level logrus.Level) Option {
	return func(l *logrus.Logger) {
		l.SetLevel(level)
	}
}

// New инициализирует логгер. В release окружении (GIN_MODE=release) пишет json с уровня info,
// в остальных окружениях текст с уровня debug.
func New(output io.Writer, opts ...Option) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(output)
	l.SetFormatter(new(logrus.JSONFormatter))
	l.SetLevel(logrus.InfoLevel)

	if os.Getenv("GIN_MODE") != "release" {
		l.SetLevel(logrus.DebugLevel)
		l.SetFormatter(new(logrus.TextFormatter))
	}

	for _, opt := range opts {
		opt(l)
	}
	return l
}

type defaultFieldsHook struct {
	fields logrus.Fields
}

func (h defaultFieldsHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h defaultFieldsHook) Fire(e *logrus.Entry) error {
	for k, v := range h.fields {
		if _, ok := e.Data[k]; !ok {
			e.Data[k] = v
		}
	}
	return nil
}
