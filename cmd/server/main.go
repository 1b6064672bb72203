package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/learnpoke/internal/server"
	"github.com/dmitrijs2005/learnpoke/internal/server/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "learnpoke: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		return err
	}

	return app.Run(ctx)
}
