package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/lamar02/guides-cli/internal/domain"
	"github.com/lamar02/guides-cli/internal/i18n"
	"github.com/lamar02/guides-cli/internal/reader"
	"github.com/lamar02/guides-cli/pkg/api"
	"github.com/lamar02/guides-cli/pkg/logger"
)

func (a *App) cmdList(ctx context.Context) int {
	if !a.requireAuth(ctx) {
		return 1
	}

	list, err := a.guides.List(ctx)
	if err != nil {
		a.println(err.Error())
		return 1
	}

	a.println(a.tr.T("dashboard.title", nil))
	if len(list) == 0 {
		a.println(a.tr.T("dashboard.empty", nil))
		return 0
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPRODUCT\tSTATUS\tCREATED")
	for _, g := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			g.ID, g.Title, g.ProductName, a.statusLabel(g), g.CreatedAt.Format("2006-01-02"))
	}
	tw.Flush()
	return 0
}

func (a *App) statusLabel(g domain.Guide) string {
	switch g.Status {
	case domain.GuideStatusGenerating:
		return a.tr.T("dashboard.generating", nil)
	case domain.GuideStatusError:
		return a.tr.T("dashboard.error", nil)
	default:
		if g.HasFullAccess {
			return a.tr.T("dashboard.complete", nil)
		}
		return a.tr.T("dashboard.preview", nil)
	}
}

func (a *App) cmdShow(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(a.out)
	flat := fs.Bool("list", false, "render all steps as a flat list")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		a.println("usage: guides show <guide-id> [-list]")
		return 2
	}

	if !a.requireAuth(ctx) {
		return 1
	}

	guide, err := a.guides.Get(ctx, fs.Arg(0))
	if err != nil {
		if api.IsNotFound(err) {
			a.println(a.tr.T("guide.notFound", nil))
		} else {
			a.println(err.Error())
		}
		return 1
	}

	rd, err := reader.New(guide)
	if err != nil {
		a.renderGuideHeader(guide)
		a.println(a.tr.T("guide.contentNotAvailable", nil))
		return 0
	}
	if *flat {
		rd.SetMode(reader.ViewList)
	}

	a.renderGuideHeader(guide)
	if rd.Mode() == reader.ViewList {
		for _, step := range rd.Steps() {
			a.renderStep(step)
		}
	} else {
		a.runCarousel(rd)
	}

	a.renderFullSections(ctx, rd)
	return 0
}

// runCarousel walks the stepper interactively. Navigation past either edge
// is a no-op; the hints only advertise moves that exist.
func (a *App) runCarousel(rd *reader.Reader) {
	for {
		a.println(a.tr.T("guide.stepOf", map[string]string{
			"current": strconv.Itoa(rd.Index() + 1),
			"total":   strconv.Itoa(len(rd.Steps())),
		}))
		a.renderStep(rd.Current())

		var hints []string
		if rd.CanPrev() {
			hints = append(hints, "[p] "+a.tr.T("guide.previous", nil))
		}
		if rd.CanNext() {
			hints = append(hints, "[n] "+a.tr.T("guide.next", nil))
		}
		hints = append(hints, "[q] quit")

		input := a.prompt(strings.Join(hints, "  ") + " > ")
		switch input {
		case "n":
			rd.Next()
		case "p":
			rd.Prev()
		case "q", "":
			return
		}
	}
}

// renderFullSections shows the paid tail of the guide, or the paywall call
// to action in its place. Gating lives in the reader; an inaccessible guide
// never reaches the troubleshooting or conclusion branches here.
func (a *App) renderFullSections(ctx context.Context, rd *reader.Reader) {
	if !rd.ShowFullContent() {
		a.println()
		a.println(a.tr.T("guide.unlockComplete", nil))
		a.println(a.tr.T("guide.allStepsPlus", nil))
		a.printf("%s: guides buy %s\n", a.tr.T("guide.buyNow", nil), rd.Guide().ID)
		return
	}

	if ts := rd.Troubleshooting(); len(ts) > 0 {
		a.println()
		a.println(a.tr.T("guide.troubleshooting", nil))
		for _, item := range ts {
			a.printf("  %s: %s\n", a.tr.T("guide.problem", nil), item.Problem)
			a.printf("  %s: %s\n", a.tr.T("guide.solution", nil), item.Solution)
		}
	}

	if conclusion := rd.Conclusion(); conclusion != "" {
		a.println()
		a.println(a.tr.T("guide.congratulations", nil))
		a.println(conclusion)
	}

	a.promptRating(ctx, rd.Guide().ID)
}

// promptRating asks for a 1-5 rating. Submission failures are logged and
// swallowed; feedback must never block the reading flow.
func (a *App) promptRating(ctx context.Context, guideID string) {
	a.println()
	input := a.prompt(a.tr.T("guide.ratingQuestion", nil) + " [1-5, enter to skip] ")
	rating, err := strconv.Atoi(input)
	if err != nil || rating < 1 || rating > 5 {
		return
	}

	if err := a.guides.Rate(ctx, domain.GuideRating{GuideID: guideID, Rating: rating}); err != nil {
		logger.DebugContext(ctx, "rating submission failed", "error", err)
	}
	a.println(a.tr.T("guide.ratingSuccess", nil))
}

func (a *App) cmdGenerate(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(a.out)
	name := fs.String("name", "", "product name")
	category := fs.String("category", "general", "product category")
	title := fs.String("title", "", "guide title")
	userContext := contextFlag{}
	fs.Var(&userContext, "context", "extra context as key=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		a.println("usage: guides generate <file.pdf|url> [-name N] [-category C] [-title T] [-context k=v]")
		return 2
	}

	if !a.requireAuth(ctx) {
		return 1
	}

	source := fs.Arg(0)
	var fileURL string
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		a.println(a.tr.T("generate.uploading", map[string]string{"file": source}))
		uploaded, err := a.files.UploadFromURL(ctx, source)
		if err != nil {
			a.println(a.tr.T("generate.failed", nil))
			a.println(err.Error())
			return 1
		}
		fileURL = uploaded.FileURL
	} else {
		uploaded, code := a.uploadLocalPDF(ctx, source)
		if code != 0 {
			return code
		}
		fileURL = uploaded
	}

	params := domain.GenerateGuideParams{
		FileURL:         fileURL,
		ProductName:     *name,
		ProductCategory: *category,
		Title:           *title,
	}
	if params.ProductName == "" {
		params.ProductName = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	}
	if len(userContext) > 0 {
		params.UserContext = userContext
	}

	a.println(a.tr.T("generate.generating", nil))
	guide, err := a.guides.Generate(ctx, params)
	if err != nil {
		a.println(a.tr.T("generate.failed", nil))
		a.println(err.Error())
		return 1
	}

	a.println(a.tr.T("generate.complete", map[string]string{"title": guide.Title}))
	a.printf("guides show %s\n", guide.ID)
	return 0
}

func (a *App) uploadLocalPDF(ctx context.Context, path string) (string, int) {
	info, err := os.Stat(path)
	if err != nil {
		a.println(err.Error())
		return "", 1
	}
	if info.Size() > a.cfg.API.UploadLimit {
		a.printf("file exceeds the upload limit of %d bytes\n", a.cfg.API.UploadLimit)
		return "", 1
	}

	f, err := os.Open(path)
	if err != nil {
		a.println(err.Error())
		return "", 1
	}
	defer f.Close()

	a.println(a.tr.T("generate.uploading", map[string]string{"file": filepath.Base(path)}))
	uploaded, err := a.files.UploadPDF(ctx, filepath.Base(path), f)
	if err != nil {
		a.println(a.tr.T("generate.failed", nil))
		a.println(err.Error())
		return "", 1
	}
	return uploaded.FileURL, 0
}

func (a *App) cmdRate(ctx context.Context, args []string) int {
	if len(args) < 2 {
		a.println("usage: guides rate <guide-id> <1-5> [feedback]")
		return 2
	}
	rating, err := strconv.Atoi(args[1])
	if err != nil || rating < 1 || rating > 5 {
		a.println("rating must be between 1 and 5")
		return 2
	}

	if !a.requireAuth(ctx) {
		return 1
	}

	submission := domain.GuideRating{
		GuideID:  args[0],
		Rating:   rating,
		Feedback: strings.Join(args[2:], " "),
	}
	if err := a.guides.Rate(ctx, submission); err != nil {
		logger.DebugContext(ctx, "rating submission failed", "error", err)
	}
	a.println(a.tr.T("guide.ratingSuccess", nil))
	return 0
}

// cmdShare prints the shareable web link. There is no native share surface
// in a terminal, so this is the clipboard fallback path.
func (a *App) cmdShare(_ context.Context, args []string) int {
	if len(args) != 1 {
		a.println("usage: guides share <guide-id>")
		return 2
	}
	a.printf("%s/guides/%s\n", a.cfg.Web.BaseURL, args[0])
	a.println(a.tr.T("guide.linkCopied", nil))
	return 0
}

func (a *App) cmdQuestionnaire(ctx context.Context, args []string) int {
	category := ""
	if len(args) > 0 {
		category = args[0]
	}

	q, err := a.questions.Get(ctx, category)
	if err != nil {
		a.println(err.Error())
		return 1
	}

	a.println(a.tr.T("questionnaire.category", map[string]string{"category": q.Category}))
	if q.Description != "" {
		a.println(q.Description)
	}
	for i, question := range q.Questions {
		required := ""
		if question.Required {
			required = " (" + a.tr.T("questionnaire.required", nil) + ")"
		}
		a.printf("%d. %s%s\n", i+1, question.Question, required)
		if len(question.Options) > 0 {
			a.printf("   %s\n", strings.Join(question.Options, " / "))
		}
	}
	if len(q.AvailableCategories) > 0 {
		a.printf("%s: %s\n", a.tr.T("questionnaire.categories", nil), strings.Join(q.AvailableCategories, ", "))
	}
	return 0
}

func (a *App) cmdLang(_ context.Context, args []string) int {
	if len(args) == 0 {
		a.println(string(a.tr.Locale()))
		return 0
	}

	locale, ok := i18n.Parse(args[0])
	if !ok {
		a.println("usage: guides lang [en|fr]")
		return 2
	}
	if err := a.store.SetLocale(string(locale)); err != nil {
		a.println(err.Error())
		return 1
	}
	a.reloadTranslator(locale)
	a.println(a.tr.T("language.changed", map[string]string{"locale": string(locale)}))
	return 0
}

// contextFlag collects repeated key=value pairs.
type contextFlag map[string]string

func (c contextFlag) String() string {
	pairs := make([]string, 0, len(c))
	for k, v := range c {
		pairs = append(pairs, k+"="+v)
	}
	return strings.Join(pairs, ",")
}

func (c contextFlag) Set(value string) error {
	key, val, found := strings.Cut(value, "=")
	if !found || key == "" {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	c[key] = val
	return nil
}
