package common

import (
	"errors"

	"sportsbook/models"

	"github.com/bwmarrin/discordgo"
)

// Options indexes command options by name
type Options map[string]*discordgo.ApplicationCommandInteractionDataOption

// Subcommand returns the invoked subcommand name and its options
func Subcommand(data discordgo.ApplicationCommandInteractionData) (string, Options) {
	if len(data.Options) == 0 {
		return "", Options{}
	}
	sub := data.Options[0]
	return sub.Name, OptionsOf(sub.Options)
}

// OptionsOf indexes a list of options
func OptionsOf(options []*discordgo.ApplicationCommandInteractionDataOption) Options {
	indexed := make(Options, len(options))
	for _, opt := range options {
		indexed[opt.Name] = opt
	}
	return indexed
}

// ID reads a required positive integer option
func (o Options) ID(name string) (uint64, error) {
	opt, ok := o[name]
	if !ok {
		return 0, models.InvalidInput("Missing option %s", name)
	}
	v := opt.IntValue()
	if v <= 0 {
		return 0, models.InvalidInput("Option %s must be positive", name)
	}
	return uint64(v), nil
}

// Amount reads an optional non-negative integer option, defaulting to zero
func (o Options) Amount(name string) (uint64, error) {
	opt, ok := o[name]
	if !ok {
		return 0, nil
	}
	v := opt.IntValue()
	if v < 0 {
		return 0, models.InvalidInput("Option %s must not be negative", name)
	}
	return uint64(v), nil
}

// String reads an optional string option
func (o Options) String(name string) string {
	if opt, ok := o[name]; ok {
		return opt.StringValue()
	}
	return ""
}

// Float reads an optional number option
func (o Options) Float(name string) float64 {
	if opt, ok := o[name]; ok {
		return opt.FloatValue()
	}
	return 0
}

// UserMessage turns an error into text safe to show in a channel
func UserMessage(err error) string {
	var domainErr *models.Error
	if errors.As(err, &domainErr) && domainErr.Msg != "" {
		return domainErr.Msg
	}
	return "Unable to process request. Please try again."
}
