package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"sportsbook/models"
)

// FormatBalance formats an amount with thousand separators
func FormatBalance(balance uint64) string {
	str := strconv.FormatUint(balance, 10)

	n := len(str)
	if n <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// FormatOdds renders decimal odds with two places
func FormatOdds(odds float64) string {
	return strconv.FormatFloat(odds, 'f', 2, 64)
}

// FormatAccount describes an account and its balance
func FormatAccount(account *models.Account) string {
	return fmt.Sprintf("**%s** (account #%d) has **%s** available across %d bet(s)",
		account.Username, account.ID, FormatBalance(account.Balance), len(account.BetHistory))
}

// FormatWager describes a single wager on one line
func FormatWager(wager *models.Wager) string {
	line := fmt.Sprintf("Bet #%d on event #%d: **%s** at %s (%s), pays %s",
		wager.ID, wager.EventID, FormatBalance(wager.Amount), FormatOdds(wager.Odds),
		wager.Status, FormatBalance(wager.PotentialPayout()))
	if wager.UpdatedAt != nil {
		line += ", updated " + FormatDiscordTimestamp(*wager.UpdatedAt, "R")
	}
	return line
}

// FormatWagerList renders one wager per line
func FormatWagerList(wagers []*models.Wager) string {
	if len(wagers) == 0 {
		return "No bets placed yet."
	}
	lines := make([]string, 0, len(wagers))
	for _, wager := range wagers {
		lines = append(lines, "• "+FormatWager(wager))
	}
	return strings.Join(lines, "\n")
}

// FormatEvent lists an event's participants with their odds
func FormatEvent(event *models.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** (event #%d) is %s", event.Name, event.ID, event.Status)
	for i, participant := range event.Participants {
		odds := "n/a"
		if i < len(event.Odds) {
			odds = FormatOdds(event.Odds[i])
		}
		fmt.Fprintf(&b, "\n• %s: %s", participant, odds)
	}
	return b.String()
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}
