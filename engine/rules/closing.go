package rules

import (
	"fmt"
	"time"

	"github.com/mlagarde/ledgerlens/engine/alert"
)

// Calendar cutoffs for the periodic reminders. French CA3 VAT returns are
// due between the 15th and the 24th of the month, hence the 20 cutoff.
const (
	monthEndReminderDay = 25
	yearEndReminderDay  = 15
	vatDeadlineDay      = 20
)

// closingReminders emits the periodic bookkeeping reminders derived from the
// analysis date alone.
func closingReminders(ctx Context) []alert.Alert {
	var alerts []alert.Alert
	now := ctx.Now

	if now.Day() > monthEndReminderDay {
		alerts = append(alerts, alert.New(
			alert.TypeMonthEndClosing,
			alert.PriorityHigh,
			"Clôture mensuelle",
			fmt.Sprintf("La clôture de %s approche: vérifier les rapprochements avant la fin du mois.",
				frenchMonth(now.Month())),
			ctx.Now,
		))
	}
	if now.Month() == time.December && now.Day() > yearEndReminderDay {
		alerts = append(alerts, alert.New(
			alert.TypeYearEndClosing,
			alert.PriorityHigh,
			"Clôture annuelle",
			fmt.Sprintf("La clôture de l'exercice %d approche: préparer les écritures d'inventaire.", now.Year()),
			ctx.Now,
		))
	}
	if now.Day() < vatDeadlineDay {
		alerts = append(alerts, alert.New(
			alert.TypeVATDeadline,
			alert.PriorityMedium,
			"Échéance TVA",
			fmt.Sprintf("La déclaration de TVA du mois est attendue avant le %d %s.",
				vatDeadlineDay, frenchMonth(now.Month())),
			ctx.Now,
		))
	}

	return alerts
}

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

func frenchMonth(m time.Month) string {
	if m < time.January || m > time.December {
		return m.String()
	}
	return frenchMonths[m-1]
}
