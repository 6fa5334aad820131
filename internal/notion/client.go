// Package notion persists pipeline content to a Notion database via the
// REST API. Content is flattened to plain text and written as chunked
// paragraph blocks.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	createPageURL = "https://api.notion.com/v1/pages"
	apiVersion    = "2022-06-28"

	// Notion caps page creation at 100 children blocks per request.
	maxBlocksPerPage = 100
)

// Client talks to the Notion API.
type Client struct {
	APIKey     string
	DatabaseID string
	HTTPClient *http.Client
}

// NewClient creates a Notion client for one database.
func NewClient(apiKey, databaseID string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("notion api key missing; provide credentials.notion_api_key or NOTION_API_KEY")
	}
	if databaseID == "" {
		return nil, errors.New("notion database id missing; provide credentials.notion_database_id or NOTION_DATABASE_ID")
	}
	return &Client{APIKey: apiKey, DatabaseID: databaseID, HTTPClient: http.DefaultClient}, nil
}

type richText struct {
	Type string `json:"type"`
	Text struct {
		Content string `json:"content"`
	} `json:"text"`
}

type paragraphBlock struct {
	Object    string `json:"object"`
	Type      string `json:"type"`
	Paragraph struct {
		RichText []richText `json:"rich_text"`
	} `json:"paragraph"`
}

type selectProp struct {
	Select struct {
		Name string `json:"name"`
	} `json:"select"`
}

type titleProp struct {
	Title []richText `json:"title"`
}

type createPagePayload struct {
	Parent struct {
		DatabaseID string `json:"database_id"`
	} `json:"parent"`
	Properties struct {
		Title    titleProp  `json:"Title"`
		Platform selectProp `json:"Platform"`
		Status   selectProp `json:"Status"`
	} `json:"properties"`
	Children []paragraphBlock `json:"children"`
}

type createPageResponse struct {
	ID string `json:"id"`
}

// SavePage creates one page holding the content, titled and tagged with the
// platform, and returns the page URL. Markdown formatting is stripped before
// chunking.
func (c *Client) SavePage(ctx context.Context, title, platform, content string) (string, error) {
	plain := FlattenMarkdown(content)

	var payload createPagePayload
	payload.Parent.DatabaseID = c.DatabaseID
	payload.Properties.Title.Title = []richText{newRichText(truncateRunes(title, 200))}
	payload.Properties.Platform.Select.Name = platform
	payload.Properties.Status.Select.Name = "Draft"

	chunks := ChunkContent(plain)
	if len(chunks) > maxBlocksPerPage {
		chunks = chunks[:maxBlocksPerPage]
	}
	for _, chunk := range chunks {
		var block paragraphBlock
		block.Object = "block"
		block.Type = "paragraph"
		block.Paragraph.RichText = []richText{newRichText(chunk)}
		payload.Children = append(payload.Children, block)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode page payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, createPageURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build page request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", apiVersion)

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("notion request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read notion response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("notion returned %d: %s", resp.StatusCode, truncateRunes(string(respBody), 200))
	}

	var page createPageResponse
	if err := json.Unmarshal(respBody, &page); err != nil {
		return "", fmt.Errorf("failed to decode notion response: %w", err)
	}

	return "https://www.notion.so/" + strings.ReplaceAll(page.ID, "-", ""), nil
}

func newRichText(content string) richText {
	var rt richText
	rt.Type = "text"
	rt.Text.Content = content
	return rt
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
