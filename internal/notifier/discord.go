package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"StockWatch/internal/models"

	"github.com/rs/zerolog"
)

const (
	colorGreen = 0x2ECC71
	colorRed   = 0xE74C3C
	colorBlue  = 0x3498DB
	colorGray  = 0x95A5A6
)

// DiscordNotifier delivers change notifications to a Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     zerolog.Logger
	now        func() time.Time
}

// NewDiscordNotifier creates a notifier for the given webhook URL.
func NewDiscordNotifier(webhookURL string, timeout time.Duration, logger zerolog.Logger) *DiscordNotifier {
	return &DiscordNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With().Str("module", "DiscordNotifier").Logger(),
		now:        time.Now,
	}
}

// NotifyChanges renders the change list into embeds and posts them to the
// webhook, one message per batch of 10. The first delivery failure is
// returned; earlier batches that already went out stay out.
func (dn *DiscordNotifier) NotifyChanges(ctx context.Context, runID string, changes []models.Change) error {
	if len(changes) == 0 {
		return nil
	}

	embeds := make([]Embed, 0, len(changes))
	for _, c := range changes {
		embeds = append(embeds, dn.buildEmbed(runID, c))
	}

	for _, batch := range chunkEmbeds(embeds) {
		if err := dn.send(ctx, MessagePayload{Embeds: batch}); err != nil {
			return err
		}
	}

	dn.logger.Info().Int("changes", len(changes)).Msg("Discord notification sent")
	return nil
}

func (dn *DiscordNotifier) buildEmbed(runID string, c models.Change) Embed {
	var headline string
	color := colorGray
	switch c.Kind {
	case models.ChangeRestocked:
		headline, color = "🟢 Restocked", colorGreen
	case models.ChangeSoldOut:
		headline, color = "🔴 Sold out", colorRed
	case models.ChangeNewListing:
		headline, color = "🔵 New listing", colorBlue
	case models.ChangeDelisted:
		headline = "⚪ Delisted"
	}

	title, url := c.Key.Product, ""
	if c.To != nil {
		title, url = c.To.ProductTitle, c.To.ProductURL
	} else if c.From != nil {
		title, url = c.From.ProductTitle, c.From.ProductURL
	}

	return Embed{
		Title:     fmt.Sprintf("%s · %s", headline, title),
		URL:       url,
		Color:     color,
		Timestamp: dn.now().UTC().Format(time.RFC3339),
		Footer:    &EmbedFooter{Text: "run " + runID},
		Fields: []EmbedField{
			{Name: "Color", Value: orDash(c.Key.Color), Inline: true},
			{Name: "Size", Value: orDash(c.Key.Size), Inline: true},
			{Name: "Change", Value: transitionText(c), Inline: false},
		},
	}
}

func (dn *DiscordNotifier) send(ctx context.Context, payload MessagePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, dn.webhookURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := dn.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func transitionText(c models.Change) string {
	switch c.Kind {
	case models.ChangeRestocked:
		return "sold out → in stock"
	case models.ChangeSoldOut:
		return "in stock → sold out"
	case models.ChangeNewListing:
		if c.To != nil && !c.To.Orderable {
			return "newly listed (sold out)"
		}
		return "newly listed (in stock)"
	case models.ChangeDelisted:
		return "no longer listed"
	}
	return string(c.Kind)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
