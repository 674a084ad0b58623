// Package notify delivers review notifications to a Discord channel webhook.
package notify

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

const (
	colorApproved = 0x2ECC71
	colorDenied   = 0xE74C3C
	colorNeutral  = 0x3498DB

	deliveryTimeout = 10 * time.Second
)

// WebhookExecutor is the part of *discordgo.Session the notifier uses
type WebhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordWebhookNotifier posts one embed per notification. Delivery runs on
// its own goroutine behind a token bucket; failures are logged and dropped.
type DiscordWebhookNotifier struct {
	exec      WebhookExecutor
	webhookID string
	token     string
	limiter   *rate.Limiter
	logger    *log.Logger
	wg        sync.WaitGroup
}

// NewDiscordWebhookNotifier creates a notifier over a tokenless discordgo session
func NewDiscordWebhookNotifier(webhookID, token string, perSecond float64, burst int, logger *log.Logger) (*DiscordWebhookNotifier, error) {
	session, err := discordgo.New("")
	if err != nil {
		return nil, err
	}
	session.Client.Timeout = deliveryTimeout
	return NewDiscordWebhookNotifierWithExecutor(session, webhookID, token, rate.NewLimiter(rate.Limit(perSecond), burst), logger), nil
}

// NewDiscordWebhookNotifierWithExecutor is used by tests to replace the Discord session
func NewDiscordWebhookNotifierWithExecutor(exec WebhookExecutor, webhookID, token string, limiter *rate.Limiter, logger *log.Logger) *DiscordWebhookNotifier {
	if logger == nil {
		logger = log.Default()
	}
	return &DiscordWebhookNotifier{
		exec:      exec,
		webhookID: webhookID,
		token:     token,
		limiter:   limiter,
		logger:    logger,
	}
}

// Notify schedules delivery and returns immediately
func (n *DiscordWebhookNotifier) Notify(ctx context.Context, notification shared.Notification) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		// Delivery outlives the request that triggered it
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deliveryTimeout)
		defer cancel()

		if err := n.limiter.Wait(sendCtx); err != nil {
			n.logger.Printf("[notify] dropped %s: %v", notification.Kind, err)
			return
		}
		params := &discordgo.WebhookParams{
			Embeds: []*discordgo.MessageEmbed{toEmbed(notification)},
		}
		if _, err := n.exec.WebhookExecute(n.webhookID, n.token, false, params, discordgo.WithContext(sendCtx)); err != nil {
			n.logger.Printf("[notify] delivery of %s failed: %v", notification.Kind, err)
		}
	}()
}

// Close waits for in-flight deliveries
func (n *DiscordWebhookNotifier) Close() {
	n.wg.Wait()
}

func toEmbed(notification shared.Notification) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       notification.Title,
		Description: notification.Body,
		Color:       colorFor(notification.Kind),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Footer:      &discordgo.MessageEmbedFooter{Text: "Port Battles"},
	}

	keys := make([]string, 0, len(notification.Fields))
	for k := range notification.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   k,
			Value:  notification.Fields[k],
			Inline: true,
		})
	}
	if notification.BattleID != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Battle", Value: notification.BattleID})
	}
	return embed
}

func colorFor(kind shared.NotificationKind) int {
	switch kind {
	case shared.NotificationSignupApproved, shared.NotificationScreeningSignupApproved:
		return colorApproved
	case shared.NotificationSignupDenied, shared.NotificationScreeningSignupDenied:
		return colorDenied
	}
	return colorNeutral
}
