// Package notifier announces new registrations to the organisers.
package notifier

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/gdg-garage/conference-registration-api/internal/models"
)

type Notifier interface {
	NotifyRegistration(reg models.Registration) error
}

// messageSender is the part of *discordgo.Session the notifier uses.
type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type DiscordNotifier struct {
	session   messageSender
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	n := &DiscordNotifier{channelID: channelID}
	if session != nil {
		n.session = session
	}
	return n
}

func (n *DiscordNotifier) NotifyRegistration(reg models.Registration) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}
	if _, err := n.session.ChannelMessageSend(n.channelID, registrationMessage(reg)); err != nil {
		return fmt.Errorf("send discord message: %w", err)
	}
	return nil
}

func registrationMessage(reg models.Registration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎉 **New Registration**\n**Attendee:** %s (%s)\n**Referred by:** %s",
		reg.AttendeeName, reg.AttendeeEmail, reg.ReferrerEmail)
	if region := reg.RegionName(); region != "" {
		fmt.Fprintf(&b, "\n**Region:** %s", region)
	}
	if ministry := reg.MinistryName(); ministry != "" {
		fmt.Fprintf(&b, "\n**Ministry:** %s", ministry)
	}
	fmt.Fprintf(&b, "\n**Age Group:** %s", reg.AgeGroupMinistry)
	return b.String()
}

// Nop drops every notification. Used when no Discord bot is configured.
type Nop struct{}

func (Nop) NotifyRegistration(models.Registration) error { return nil }
