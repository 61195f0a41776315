package accounts

import (
	"context"
	"fmt"
	"strings"

	"sportsbook/bot/common"
	"sportsbook/models"
)

// Reply runs one /account subcommand. caller names the account when no username is given.
func (f *Feature) Reply(ctx context.Context, sub string, opts common.Options, caller string) (string, error) {
	switch sub {
	case "create":
		username := strings.TrimSpace(opts.String("username"))
		if username == "" {
			username = caller
		}
		balance, err := opts.Amount("balance")
		if err != nil {
			return "", err
		}
		account, err := f.accountService.CreateAccount(ctx, models.AccountPayload{Username: username, Balance: balance})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Opened account #%d for **%s** with **%s**",
			account.ID, account.Username, common.FormatBalance(account.Balance)), nil

	case "show":
		id, err := opts.ID("id")
		if err != nil {
			return "", err
		}
		account, err := f.accountService.GetAccount(ctx, id)
		if err != nil {
			return "", err
		}
		return common.FormatAccount(account), nil

	case "deposit", "withdraw":
		id, err := opts.ID("id")
		if err != nil {
			return "", err
		}
		amount, err := opts.Amount("amount")
		if err != nil {
			return "", err
		}

		var account *models.Account
		verb := "Deposited"
		if sub == "deposit" {
			account, err = f.accountService.Deposit(ctx, id, amount)
		} else {
			verb = "Withdrew"
			account, err = f.accountService.Withdraw(ctx, id, amount)
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s **%s**. New balance: **%s**",
			verb, common.FormatBalance(amount), common.FormatBalance(account.Balance)), nil
	}

	return "", models.InvalidInput("Unknown subcommand %q", sub)
}
