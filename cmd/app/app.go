package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/lagerschema/lagerschema/internal/api"
	"github.com/lagerschema/lagerschema/internal/config"
	"github.com/lagerschema/lagerschema/internal/logger"
	"github.com/lagerschema/lagerschema/internal/repository/github"
	"github.com/lagerschema/lagerschema/internal/schedule"
)

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	store, err := github.NewStore(github.Config{
		Owner: conf.GitHub.Owner,
		Repo:  conf.GitHub.Repo,
		Token: conf.GitHub.Token,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize content store -> %w", err)
	}

	view := schedule.NewService(
		store,
		conf.Schedule.RegistryPath,
		conf.GitHub.BaseBranch,
		schedule.Environment(conf.Schedule.Environment),
		conf.Schedule.CacheTTL,
		nil,
	)

	s := api.NewServer(conf, store, view)

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}
