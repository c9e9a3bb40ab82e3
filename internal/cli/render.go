package cli

import (
	"github.com/lamar02/guides-cli/internal/domain"
)

func (a *App) renderGuideHeader(guide *domain.Guide) {
	a.printf("%s (%s)\n", guide.Title, guide.ProductName)
	if guide.HasFullAccess {
		a.println(a.tr.T("dashboard.complete", nil))
	}
	if guide.Content != nil && guide.Content.Introduction != "" {
		a.println(guide.Content.Introduction)
	}
	a.println()
}

func (a *App) renderStep(step domain.GuideStep) {
	a.printf("%d. %s\n", step.Number, step.Title)
	a.printf("   %s\n", step.Description)

	if len(step.Tips) > 0 {
		a.printf("   %s:\n", a.tr.T("guide.tips", nil))
		for _, tip := range step.Tips {
			a.printf("   - %s\n", tip)
		}
	}
	if len(step.Warnings) > 0 {
		a.printf("   %s:\n", a.tr.T("guide.warning", nil))
		for _, warning := range step.Warnings {
			a.printf("   ! %s\n", warning)
		}
	}
	a.println()
}
