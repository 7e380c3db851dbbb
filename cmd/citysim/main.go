package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/fleetsim/citysim/config"
	"github.com/fleetsim/citysim/internal/cli"
	"github.com/fleetsim/citysim/internal/domain/types"
	"github.com/fleetsim/citysim/pkg/logger"
)

var configPath = flag.String("config-path", "config.yaml", "Path to the config yaml file")

func main() {
	flag.Parse()
	ctx := context.Background()

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to configure application:", err)
		config.PrintHelp()
		os.Exit(1)
	}

	log := logger.InitLogger("citysim", cfg.LogLevel)

	root := cli.NewRootCommand(cfg, log)
	root.SetContext(ctx)

	if err := root.Execute(); err != nil {
		var iv *types.InvariantViolation
		if errors.As(err, &iv) {
			log.Error(ctx, "command failed", err, "stack", fmt.Sprintf("%+v", iv.Unwrap()))
			os.Exit(1)
		}
		log.Error(ctx, "command failed", err)
		os.Exit(1)
	}
}
