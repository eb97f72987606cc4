package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"timeoff-login/internal/apiclient"
	"timeoff-login/internal/config"
	"timeoff-login/internal/domain"
	"timeoff-login/internal/login"
	"timeoff-login/internal/resource"
	"timeoff-login/internal/session"
	"timeoff-login/internal/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		logrus.Fatalf("setup logger: %v", err)
	}
	logger.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdin, os.Stdout, logger); err != nil {
		logger.Fatalf("%v", err)
	}
}

// run drives the login screen and, once authenticated, the principal screen
// until input is exhausted.
func run(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer, logger *logrus.Logger) error {
	client, err := apiclient.New(apiclient.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("setup api client: %w", err)
	}

	term := ui.NewTerminal(in, out)
	router := ui.NewRouter(ui.RouteIndex)
	auth := session.NewContext()
	users := resource.New[domain.User](client, cfg.API.Resource, logger)

	screen := login.NewScreen(login.Deps{
		Users:     users,
		Auth:      auth,
		Navigator: router,
		Alerter:   term,
		Logger:    logger,
	})
	screen.Mount(ctx)

	for ctx.Err() == nil {
		switch router.Current() {
		case login.RoutePrincipal:
			current, ok := auth.Current()
			if !ok {
				router.Back()
				continue
			}
			term.RenderPrincipal(current)
			if _, err := term.Prompt("Enter para sair"); err != nil {
				return ignoreEOF(err)
			}
			auth.Logout()
			router.Back()
		default:
			term.RenderLogin(screen.View())
			username, err := term.Prompt("Nome de usuário")
			if err != nil {
				return ignoreEOF(err)
			}
			password, err := term.Prompt("Senha")
			if err != nil {
				return ignoreEOF(err)
			}
			screen.Submit(ctx, username, password)
		}
	}
	return nil
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
