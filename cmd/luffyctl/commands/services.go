package commands

import (
	"context"
	"fmt"

	"github.com/fsdevblog/luffy-streaming/internal/repository/pgrepo"
	"github.com/fsdevblog/luffy-streaming/internal/service"
	"github.com/fsdevblog/luffy-streaming/internal/service/psswd"
)

// withServices подключается к базе без накатывания миграций и отдает fn собранный сервисный слой.
// Redis, kafka и уведомления утилите не нужны.
func withServices(ctx context.Context, opts *globalOptions, fn func(*service.AppServices) error) error {
	if err := opts.requireDB(); err != nil {
		return err
	}

	conn, connErr := pgrepo.Connect(ctx, "", opts.dbURL, opts.log)
	if connErr != nil {
		return fmt.Errorf("connect: %w", connErr)
	}
	defer conn.Close()

	unitOfWork, uowErr := pgrepo.NewUnitOfWork(conn)
	if uowErr != nil {
		return fmt.Errorf("unit of work: %w", uowErr)
	}

	services, sErr := service.Factory(service.FactoryArgs{
		UOW: unitOfWork,
		Auth: service.AuthOptions{
			Secret: []byte(opts.conf.JWTSecret),
			TTL:    opts.conf.JWTTTL,
		},
		Hasher: psswd.PasswordHash(0),
		Logger: opts.log,
	})
	if sErr != nil {
		return fmt.Errorf("services: %w", sErr)
	}
	return fn(services)
}
