// Command aula-ui serves the school management web console.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aulaplus/aula-ui/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting aula-ui",
		"dev", cfg.IsDev,
		"session_backend", cfg.Sessions.Backend,
		"api_url", cfg.API.URL,
	)

	return bootstrap.Run(ctx, &cfg, logger)
}
