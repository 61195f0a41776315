package common

import (
	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Respond sends plain content as an interaction response
func Respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) {
	data := &discordgo.InteractionResponseData{
		Content: content,
	}

	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		log.Errorf("Error responding to interaction: %v", err)
	}
}

// RespondWithError sends an ephemeral error message
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	Respond(s, i, "❌ "+message, true)
}

// RespondWithResult answers with content, or with the user-facing form of err
func RespondWithResult(s *discordgo.Session, i *discordgo.InteractionCreate, content string, err error) {
	if err != nil {
		log.WithFields(log.Fields{
			"command": i.ApplicationCommandData().Name,
			"error":   err,
		}).Warn("Command failed")
		RespondWithError(s, i, UserMessage(err))
		return
	}
	Respond(s, i, content, false)
}
