package notify

import (
	"bytes"
	"context"
	"errors"
	"log"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

type recordingExecutor struct {
	mu     sync.Mutex
	calls  []*discordgo.WebhookParams
	failed bool
}

func (r *recordingExecutor) WebhookExecute(_, _ string, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, data)
	if r.failed {
		return nil, errors.New("discord down")
	}
	return &discordgo.Message{}, nil
}

func TestDiscordWebhookNotifier_SendsEmbedWithSortedFields(t *testing.T) {
	// Arrange
	exec := &recordingExecutor{}
	n := NewDiscordWebhookNotifierWithExecutor(exec, "id", "token", rate.NewLimiter(rate.Inf, 1), nil)

	// Act
	n.Notify(context.Background(), shared.Notification{
		Kind:     shared.NotificationSignupApproved,
		BattleID: "battle-1",
		Title:    "Signup approved",
		Fields:   map[string]string{"Ship": "Victory", "Captain": "Hood"},
	})
	n.Close()

	// Assert
	require.Len(t, exec.calls, 1)
	embed := exec.calls[0].Embeds[0]
	assert.Equal(t, "Signup approved", embed.Title)
	assert.Equal(t, colorApproved, embed.Color)
	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "Captain", embed.Fields[0].Name)
	assert.Equal(t, "Ship", embed.Fields[1].Name)
	assert.Equal(t, "battle-1", embed.Fields[2].Value)
}

func TestDiscordWebhookNotifier_FailureIsLoggedNotReturned(t *testing.T) {
	var buf bytes.Buffer
	exec := &recordingExecutor{failed: true}
	n := NewDiscordWebhookNotifierWithExecutor(exec, "id", "token", rate.NewLimiter(rate.Inf, 1), log.New(&buf, "", 0))

	n.Notify(context.Background(), shared.Notification{Kind: shared.NotificationSignupDenied})
	n.Close()

	assert.Contains(t, buf.String(), "delivery of SIGNUP_DENIED failed")
}

func TestDiscordWebhookNotifier_CancelledCallerStillDelivers(t *testing.T) {
	exec := &recordingExecutor{}
	n := NewDiscordWebhookNotifierWithExecutor(exec, "id", "token", rate.NewLimiter(rate.Inf, 1), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n.Notify(ctx, shared.Notification{Kind: shared.NotificationApplicationReviewed})
	n.Close()

	assert.Len(t, exec.calls, 1)
	assert.Equal(t, colorNeutral, exec.calls[0].Embeds[0].Color)
}
