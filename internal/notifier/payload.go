package notifier

// Embed is a Discord embed object.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"` // ISO8601
	Color       int          `json:"color,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
}

// EmbedFooter is the footer of an embed.
type EmbedFooter struct {
	Text string `json:"text"`
}

// EmbedField is one name/value pair inside an embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// MessagePayload is the body POSTed to a Discord webhook.
type MessagePayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

// Discord rejects messages with more than 10 embeds, so larger change lists
// are split across several webhook calls.
const maxEmbedsPerMessage = 10

// chunkEmbeds splits embeds into webhook-sized batches, preserving order.
func chunkEmbeds(embeds []Embed) [][]Embed {
	var batches [][]Embed
	for len(embeds) > 0 {
		n := len(embeds)
		if n > maxEmbedsPerMessage {
			n = maxEmbedsPerMessage
		}
		batches = append(batches, embeds[:n])
		embeds = embeds[n:]
	}
	return batches
}
