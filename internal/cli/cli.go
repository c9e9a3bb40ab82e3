package cli

import (
	"context"
	"io"

	"github.com/lamar02/guides-cli/pkg/config"
	"github.com/lamar02/guides-cli/pkg/logger"
)

const usageText = `Usage: guides <command> [arguments]

Account:
  login [-email E] [-password P]   sign in and store the API key
  register [-email E] [-password P]  create an account
  logout                           drop the stored API key
  whoami                           show the current identity
  rotate-key                       replace the stored API key

Guides:
  list                             your guides
  show <guide-id> [-list]          read a guide (carousel by default)
  generate <file.pdf|url> [flags]  upload a manual and generate a guide
  buy <guide-id>                   unlock an owned guide
  rate <guide-id> <1-5> [feedback] rate a guide
  share <guide-id>                 print a shareable link

Previews:
  analyze <pdf-url> [-title T] [-lang en|fr]  anonymous document analysis
  preview <preview-id>             view a preview
  unlock <preview-id>              claim a preview and pay

Other:
  questionnaire [category]         show the generation questionnaire
  lang [en|fr]                     show or set the language
`

// Run wires the app from the environment and dispatches one command.
// Exit codes: 0 success, 1 failure, 2 usage.
func Run(args []string, in io.Reader, out io.Writer) int {
	cfg := config.Load()

	app, err := NewApp(cfg, in, out)
	if err != nil {
		logger.Error("startup failed", "error", err)
		return 1
	}
	return app.Dispatch(context.Background(), args)
}

func (a *App) Dispatch(ctx context.Context, args []string) int {
	if len(args) == 0 {
		a.printf("%s", usageText)
		return 2
	}

	cmd, rest := args[0], args[1:]
	ctx = context.WithValue(ctx, logger.CommandKey, cmd)

	switch cmd {
	case "login":
		return a.cmdLogin(ctx, rest)
	case "register":
		return a.cmdRegister(ctx, rest)
	case "logout":
		return a.cmdLogout(ctx)
	case "whoami":
		return a.cmdWhoami(ctx)
	case "rotate-key":
		return a.cmdRotateKey(ctx)
	case "list":
		return a.cmdList(ctx)
	case "show":
		return a.cmdShow(ctx, rest)
	case "generate":
		return a.cmdGenerate(ctx, rest)
	case "buy":
		return a.cmdBuy(ctx, rest)
	case "rate":
		return a.cmdRate(ctx, rest)
	case "share":
		return a.cmdShare(ctx, rest)
	case "analyze":
		return a.cmdAnalyze(ctx, rest)
	case "preview":
		return a.cmdPreview(ctx, rest)
	case "unlock":
		return a.cmdUnlock(ctx, rest)
	case "questionnaire":
		return a.cmdQuestionnaire(ctx, rest)
	case "lang":
		return a.cmdLang(ctx, rest)
	case "help", "-h", "--help":
		a.printf("%s", usageText)
		return 0
	default:
		a.printf("unknown command: %s\n\n%s", cmd, usageText)
		return 2
	}
}

// requireAuth resolves the session and reports whether service calls may
// proceed. A stored credential that could not be verified (transient check
// failure) still proceeds; the call itself will fail if the key is dead.
func (a *App) requireAuth(ctx context.Context) bool {
	if err := a.sess.Init(ctx); err != nil {
		logger.ErrorContext(ctx, "session init failed", "error", err)
	}
	if a.sess.IsAuthenticated() {
		return true
	}
	if a.sess.HasCredential() {
		a.println(a.tr.T("auth.sessionUnknown", nil))
		return true
	}
	a.println(a.tr.T("auth.loginRequired", nil))
	return false
}
