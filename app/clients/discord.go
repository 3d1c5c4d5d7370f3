package clients

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/lalomorales22/ditto/app/runtime"
)

var _ Interface = &DiscordClient{}

// DiscordClient posts a short outcome message to a channel whenever a
// build run reaches a terminal status.
type DiscordClient struct {
	Client
	session   *discordgo.Session
	channelID string
}

func NewDiscordClientFromConfig(cfg map[string]string) (*DiscordClient, error) {
	token := cfg["token"]
	if token == "" {
		token = os.Getenv("DISCORD_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("discord token not configured")
	}

	channelID := cfg["channel_id"]
	if channelID == "" {
		channelID = os.Getenv("DISCORD_CHANNEL_ID")
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	return &DiscordClient{session: session, channelID: channelID}, nil
}

func (c *DiscordClient) Subscribe(rt *runtime.Runtime) {
	c.runtime = rt
	rt.AddListener(c.notifyRun)

	if err := c.session.Open(); err != nil {
		log.Printf("⚠️ Error opening Discord session: %v", err)
		return
	}
	log.Println("✅ Discord client connected")
}

func (c *DiscordClient) notifyRun(run *runtime.Run) {
	progress := run.Snapshot()
	task := run.Task()

	var sb strings.Builder
	switch progress.Status {
	case runtime.StatusCompleted:
		sb.WriteString("🎉 Build completed")
	case runtime.StatusExhausted:
		sb.WriteString("🚧 Build stopped after exhausting its round budget")
	default:
		sb.WriteString("❌ Build failed")
	}
	sb.WriteString(fmt.Sprintf(" | project %d, round %d/%d\n", task.ProjectID, progress.Round, progress.MaxRounds))
	sb.WriteString(tail(progress.Narrative, 500))

	if err := c.SendMessage(c.channelID, sb.String()); err != nil {
		log.Printf("⚠️ Error sending Discord notification: %v", err)
	}
}

func (c *DiscordClient) SendMessage(channelID, message string) error {
	if channelID == "" {
		return fmt.Errorf("discord channel not configured")
	}
	_, err := c.session.ChannelMessageSend(channelID, message)
	return err
}

func (c *DiscordClient) Close() error {
	return c.session.Close()
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "…" + s[len(s)-n:]
}
