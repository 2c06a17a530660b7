// Command signup is a terminal front end for lesson registration. It lists the
// upcoming lessons and submits registrations to the notifier endpoint.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/uncodesociety/signup-api/internal/catalog"
	"github.com/uncodesociety/signup-api/internal/registration"
	"github.com/uncodesociety/signup-api/internal/schedule"
	"github.com/uncodesociety/signup-api/pkg/config"
	"github.com/uncodesociety/signup-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	notifierURL := flag.String("url", cfg.Signup.NotifierURL, "registration endpoint")
	locale := flag.String("locale", cfg.Catalog.Locale, "display locale (nl or en)")
	logLevel := flag.String("log-level", "", "log level for diagnostics on stderr")
	flag.Parse()

	logr, err := logger.NewConsole(*logLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	templates := catalog.Templates()
	if err := catalog.Validate(templates); err != nil {
		logr.Fatal("invalid lesson catalog", zap.Error(err))
	}

	loc := schedule.ParseLocale(*locale)
	today := schedule.Today(time.Now(), cfg.Catalog.Location())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := newSession(sessionConfig{
		in:           os.Stdin,
		out:          os.Stdout,
		interactive:  term.IsTerminal(int(os.Stdin.Fd())),
		locale:       loc,
		lessons:      catalog.Build(templates, today, loc),
		notifier:     registration.NewHTTPNotifier(*notifierURL, cfg.Signup.Timeout, logr),
		successDelay: cfg.Signup.SuccessDelay,
		logger:       logr,
	})

	if err := s.run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logr.Fatal("sign-up session failed", zap.Error(err))
	}
}
