package main

import (
	"context"
	"errors"
	"os"

	"github.com/fsdevblog/luffy-streaming/internal/app"
	"github.com/fsdevblog/luffy-streaming/internal/config"
	"github.com/fsdevblog/luffy-streaming/internal/logger"
	"github.com/sirupsen/logrus"
)

// version подставляется при сборке через -ldflags "-X main.version=...".
var version = "dev"

func main() {
	conf := config.MustLoadConfig()
	l := logger.New(os.Stdout, logger.WithFields(logrus.Fields{"service": "luffy", "version": version}))

	a := app.New(conf, l)
	a.Version = version

	if err := a.Run(); err != nil {
		if errors.Is(err, context.Canceled) {
			l.Info("graceful shutdown")
			os.Exit(0)
		}
		l.WithError(err).Fatal("app stopped")
	}
}
