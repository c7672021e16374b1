package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"cmdpal/internal/domain"
)

// chatClient talks to the configured AI endpoint. The model integration
// itself lives behind that endpoint; the palette only sends text and
// renders whatever comes back.
type chatClient struct {
	endpoint string
	client   *http.Client
}

func newChatClient(endpoint string) *chatClient {
	return &chatClient{
		endpoint: endpoint,
		client:   &http.Client{}, // timeouts come from the dispatch context
	}
}

type chatRequest struct {
	Prompt string `json:"prompt"`
}

type chatResponse struct {
	Message           string `json:"message"`
	Error             string `json:"error,omitempty"`
	NeedsConfirmation bool   `json:"needs_confirmation,omitempty"`
	PendingID         string `json:"pending_id,omitempty"`
}

// InvokeChat sends the prompt to the chat endpoint and normalizes the reply.
func (s *Service) InvokeChat(ctx context.Context, text string) (domain.ChatReply, error) {
	if s.chat.endpoint == "" {
		return domain.ChatReply{}, fmt.Errorf("no chat endpoint configured")
	}

	body, err := json.Marshal(chatRequest{Prompt: text})
	if err != nil {
		return domain.ChatReply{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.chat.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.ChatReply{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.chat.client.Do(req)
	if err != nil {
		return domain.ChatReply{}, err
	}
	defer resp.Body.Close()

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.ChatReply{}, fmt.Errorf("invalid chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if out.Error != "" {
			return domain.ChatReply{}, fmt.Errorf("chat endpoint: %s", out.Error)
		}
		return domain.ChatReply{}, fmt.Errorf("chat endpoint returned %s", resp.Status)
	}
	return domain.ChatReply{
		Message:           out.Message,
		NeedsConfirmation: out.NeedsConfirmation,
		PendingID:         out.PendingID,
	}, nil
}
