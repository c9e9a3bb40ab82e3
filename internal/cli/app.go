// Package cli renders the product's pages as terminal subcommands: the
// dashboard listing, the guide reader, the public preview with its paywall,
// the checkout wait, and the login/register forms.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/lamar02/guides-cli/internal/checkout"
	"github.com/lamar02/guides-cli/internal/i18n"
	"github.com/lamar02/guides-cli/internal/services/auth"
	"github.com/lamar02/guides-cli/internal/services/files"
	"github.com/lamar02/guides-cli/internal/services/guides"
	"github.com/lamar02/guides-cli/internal/services/payments"
	"github.com/lamar02/guides-cli/internal/services/public"
	"github.com/lamar02/guides-cli/internal/services/questionnaire"
	"github.com/lamar02/guides-cli/internal/session"
	"github.com/lamar02/guides-cli/internal/store"
	"github.com/lamar02/guides-cli/pkg/api"
	"github.com/lamar02/guides-cli/pkg/config"
)

type App struct {
	cfg   *config.Config
	store *store.Store
	tr    *i18n.Translator
	sess  *session.Session

	auth      *auth.Service
	guides    *guides.Service
	payments  *payments.Service
	files     *files.Service
	public    *public.Service
	questions *questionnaire.Service
	unlock    *checkout.Flow

	in  *bufio.Reader
	out io.Writer
}

func NewApp(cfg *config.Config, in io.Reader, out io.Writer) (*App, error) {
	statePath := cfg.State.Path
	if statePath == "" {
		var err error
		statePath, err = store.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	st, err := store.Open(statePath)
	if err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.API.BaseURL, st,
		api.WithTimeout(cfg.API.Timeout),
		api.WithRateLimit(cfg.API.RateLimit, cfg.API.RateBurst),
	)

	authSvc := auth.NewService(client)
	publicSvc := public.NewService(client)
	paymentsSvc := payments.NewService(client)

	app := &App{
		cfg:       cfg,
		store:     st,
		tr:        i18n.New(resolveLocale(st)),
		sess:      session.New(authSvc, st),
		auth:      authSvc,
		guides:    guides.NewService(client),
		payments:  paymentsSvc,
		files:     files.NewService(client),
		public:    publicSvc,
		questions: questionnaire.NewService(client),
		unlock:    checkout.NewFlow(publicSvc, paymentsSvc, st),
		in:        bufio.NewReader(in),
		out:       out,
	}
	return app, nil
}

// resolveLocale prefers the stored choice, then the environment, then the
// default. A fresh detection is persisted so it sticks.
func resolveLocale(st *store.Store) i18n.Locale {
	if stored := st.Locale(); stored != "" {
		if locale, ok := i18n.Parse(stored); ok {
			return locale
		}
	}
	detected := i18n.Detect(os.Getenv)
	_ = st.SetLocale(string(detected))
	return detected
}

// reloadTranslator switches the active language so output after an explicit
// change is already in the new locale.
func (a *App) reloadTranslator(locale i18n.Locale) {
	a.tr = i18n.New(locale)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
