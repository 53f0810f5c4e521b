package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the Slack Web API root.
const DefaultBaseURL = "https://slack.com/api"

// Config holds Slack Web API client configuration.
type Config struct {
	BotToken string
	BaseURL  string // defaults to DefaultBaseURL
	Timeout  time.Duration
}

// Client is a minimal Slack Web API client covering the calls the
// reconciliation engine needs: catalog listing, channel invites and
// direct messages.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new Slack Web API client.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// Channel is one entry of the conversations catalog.
type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ConversationsPage is one page of the conversations catalog. An empty
// NextCursor means the catalog is exhausted.
type ConversationsPage struct {
	Channels   []Channel
	NextCursor string
}

// ListConversationsParams holds parameters for ListConversations.
type ListConversationsParams struct {
	Types  string
	Limit  int
	Cursor string
}

type listConversationsResponse struct {
	apiResponse
	Channels         []Channel `json:"channels"`
	ResponseMetadata struct {
		NextCursor string `json:"next_cursor"`
	} `json:"response_metadata"`
}

// ListConversations returns one page of the channels visible to the bot.
func (c *Client) ListConversations(ctx context.Context, params ListConversationsParams) (ConversationsPage, error) {
	form := url.Values{}
	if params.Types != "" {
		form.Set("types", params.Types)
	}
	if params.Limit > 0 {
		form.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Cursor != "" {
		form.Set("cursor", params.Cursor)
	}

	var resp listConversationsResponse
	if err := c.call(ctx, "conversations.list", form, &resp); err != nil {
		return ConversationsPage{}, err
	}
	return ConversationsPage{
		Channels:   resp.Channels,
		NextCursor: resp.ResponseMetadata.NextCursor,
	}, nil
}

// InviteToConversation adds a user to a channel.
func (c *Client) InviteToConversation(ctx context.Context, channelID, userID string) error {
	form := url.Values{
		"channel": {channelID},
		"users":   {userID},
	}
	var resp apiResponse
	return c.call(ctx, "conversations.invite", form, &resp)
}

type openConversationResponse struct {
	apiResponse
	Channel struct {
		ID string `json:"id"`
	} `json:"channel"`
}

// OpenConversation opens (or resumes) a direct message with a user and
// returns the conversation id.
func (c *Client) OpenConversation(ctx context.Context, userID string) (string, error) {
	form := url.Values{
		"users": {userID},
	}
	var resp openConversationResponse
	if err := c.call(ctx, "conversations.open", form, &resp); err != nil {
		return "", err
	}
	return resp.Channel.ID, nil
}

// PostMessage sends a text message to a channel or direct conversation.
func (c *Client) PostMessage(ctx context.Context, channelID, text string) error {
	form := url.Values{
		"channel": {channelID},
		"text":    {text},
	}
	var resp apiResponse
	return c.call(ctx, "chat.postMessage", form, &resp)
}

// call posts a form-encoded Web API request and decodes the response
// envelope into out. An ok:false envelope becomes an *APIError carrying
// the Slack error code.
func (c *Client) call(ctx context.Context, method string, form url.Values, out apiResult) error {
	req, err := http.NewRequestWithContext(ctx, "POST", c.config.BaseURL+"/"+method, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.config.BotToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", method, resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", method, err)
	}
	if !out.ok() {
		return &APIError{Method: method, Code: out.errorCode()}
	}
	return nil
}

type apiResult interface {
	ok() bool
	errorCode() string
}

// apiResponse is the envelope every Web API response carries.
type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (r apiResponse) ok() bool          { return r.OK }
func (r apiResponse) errorCode() string { return r.Error }
