package cli

import (
	"context"
	"flag"
	"strconv"
	"strings"

	"github.com/lamar02/guides-cli/internal/domain"
	"github.com/lamar02/guides-cli/internal/utils"
	"github.com/lamar02/guides-cli/pkg/logger"
)

func (a *App) cmdLogin(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(a.out)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	creds, ok := a.readCredentials(*email, *password)
	if !ok {
		return 1
	}

	user, err := a.sess.Login(ctx, domain.LoginCredentials(creds))
	if err != nil {
		a.println(err.Error())
		return 1
	}
	a.println(a.tr.T("auth.loginSuccess", map[string]string{"email": user.Email}))

	return a.resumePendingUnlock(ctx)
}

func (a *App) cmdRegister(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(a.out)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	creds, ok := a.readCredentials(*email, *password)
	if !ok {
		return 1
	}

	user, err := a.sess.Register(ctx, creds)
	if err != nil {
		a.println(err.Error())
		return 1
	}
	a.println(a.tr.T("auth.registerSuccess", map[string]string{"email": user.Email}))

	return a.resumePendingUnlock(ctx)
}

// readCredentials fills in missing flags from prompts and validates inline,
// before any request is made.
func (a *App) readCredentials(email, password string) (domain.RegisterCredentials, bool) {
	if email == "" {
		email = a.prompt(a.tr.T("auth.email", nil) + ": ")
	}
	email = utils.NormalizeEmail(email)
	if !utils.IsValidEmail(email) {
		a.println(a.tr.T("auth.invalidEmail", nil))
		return domain.RegisterCredentials{}, false
	}

	if password == "" {
		password = a.prompt(a.tr.T("auth.password", nil) + ": ")
	}
	if !utils.IsValidPassword(password) {
		a.println(a.tr.T("auth.passwordTooShort", map[string]string{
			"min": strconv.Itoa(utils.MinPasswordLength),
		}))
		return domain.RegisterCredentials{}, false
	}

	return domain.RegisterCredentials{Email: email, Password: password}, true
}

func (a *App) prompt(label string) string {
	a.printf("%s", label)
	line, _ := a.in.ReadString('\n')
	return strings.TrimSpace(line)
}

// resumePendingUnlock continues an unlock that was parked when the visitor
// hit the paywall while signed out.
func (a *App) resumePendingUnlock(ctx context.Context) int {
	if a.store.PendingPreviewID() == "" {
		return 0
	}

	cb, cleanup, ok := a.startCallback(ctx)
	if !ok {
		return 1
	}
	defer cleanup()

	a.println(a.tr.T("preview.redirecting", nil))
	session, guideID, resumed, err := a.unlock.Resume(ctx, cb.ReturnURL)
	if err != nil {
		a.println(a.tr.T("preview.paymentError", nil))
		a.println(err.Error())
		return 1
	}
	if !resumed {
		return 0
	}
	logger.InfoContext(ctx, "resumed pending unlock", "guide_id", guideID)
	return a.awaitPayment(ctx, cb, session, guideID)
}

func (a *App) cmdLogout(_ context.Context) int {
	if err := a.sess.Logout(); err != nil {
		a.println(err.Error())
		return 1
	}
	a.println(a.tr.T("auth.logoutSuccess", nil))
	return 0
}

func (a *App) cmdWhoami(ctx context.Context) int {
	if err := a.sess.Init(ctx); err != nil {
		logger.ErrorContext(ctx, "session init failed", "error", err)
	}

	if user := a.sess.User(); user != nil {
		a.printf("%s (%s, %s)\n", user.Email, user.ID, user.Role)
		return 0
	}
	if a.sess.HasCredential() {
		a.println(a.tr.T("auth.sessionUnknown", nil))
		return 0
	}
	a.println(a.tr.T("auth.loginRequired", nil))
	return 1
}

func (a *App) cmdRotateKey(ctx context.Context) int {
	if !a.requireAuth(ctx) {
		return 1
	}
	if _, err := a.sess.RotateKey(ctx); err != nil {
		a.println(err.Error())
		return 1
	}
	a.println(a.tr.T("auth.keyRotated", nil))
	return 0
}
