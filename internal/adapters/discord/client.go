package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"portalsync/internal/domain"
)

const defaultBaseURL = "https://discord.com/api/v10"

// Values Discord expects for externally hosted scheduled events.
const (
	privacyLevelGuildOnly = 2
	entityTypeExternal    = 3
)

// Client calls the Discord REST API for scheduled events and channel
// messages. It implements domain.Calendar and domain.Announcer.
type Client struct {
	client    *http.Client
	baseURL   string
	token     string
	guildID   string
	channelID string
}

// NewClient returns a Discord REST client authenticated with a bot token.
// channelID is the announcements channel messages are posted to.
func NewClient(client *http.Client, token, guildID, channelID string) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		client:    client,
		baseURL:   defaultBaseURL,
		token:     token,
		guildID:   guildID,
		channelID: channelID,
	}
}

type entityMetadata struct {
	Location string `json:"location"`
}

type scheduledEventPayload struct {
	Name               string         `json:"name"`
	Description        string         `json:"description,omitempty"`
	ScheduledStartTime time.Time      `json:"scheduled_start_time"`
	ScheduledEndTime   time.Time      `json:"scheduled_end_time"`
	PrivacyLevel       int            `json:"privacy_level"`
	EntityType         int            `json:"entity_type"`
	EntityMetadata     entityMetadata `json:"entity_metadata"`
}

func payloadFrom(ev domain.ScheduledEvent) scheduledEventPayload {
	return scheduledEventPayload{
		Name:               ev.Name,
		Description:        ev.Description,
		ScheduledStartTime: ev.Start,
		ScheduledEndTime:   ev.End,
		PrivacyLevel:       privacyLevelGuildOnly,
		EntityType:         entityTypeExternal,
		EntityMetadata:     entityMetadata{Location: ev.Location},
	}
}

func (c *Client) CreateScheduledEvent(ctx context.Context, ev domain.ScheduledEvent) (string, error) {
	var created struct {
		ID string `json:"id"`
	}
	path := fmt.Sprintf("/guilds/%s/scheduled-events", c.guildID)
	if err := c.do(ctx, http.MethodPost, path, payloadFrom(ev), &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

func (c *Client) EditScheduledEvent(ctx context.Context, id string, ev domain.ScheduledEvent) error {
	path := fmt.Sprintf("/guilds/%s/scheduled-events/%s", c.guildID, id)
	return c.do(ctx, http.MethodPatch, path, payloadFrom(ev), nil)
}

func (c *Client) DeleteScheduledEvent(ctx context.Context, id string) error {
	path := fmt.Sprintf("/guilds/%s/scheduled-events/%s", c.guildID, id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

type messagePayload struct {
	Content         string          `json:"content"`
	AllowedMentions allowedMentions `json:"allowed_mentions"`
}

type allowedMentions struct {
	Parse []string `json:"parse"`
}

func (c *Client) Announce(ctx context.Context, content string) error {
	payload := messagePayload{
		Content:         content,
		AllowedMentions: allowedMentions{Parse: []string{"everyone"}},
	}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/channels/%s/messages", c.channelID), payload, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call discord: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &domain.CalendarError{
			Operation:  method + " " + path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode discord response: %w", err)
		}
	}
	return nil
}
