package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pushworks/wapush/internal/queue"
)

const (
	defaultTwilioBaseURL = "https://api.twilio.com"
	defaultSendTimeout   = 10 * time.Second

	// Twilio addresses WhatsApp recipients with a channel prefix.
	whatsappPrefix = "whatsapp:"
)

// TwilioProvider sends WhatsApp messages through the Twilio Messages API.
type TwilioProvider struct {
	client            *resty.Client
	accountSID        string
	statusCallbackURL string
}

type twilioMessageResponse struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func NewTwilioProvider(accountSID, authToken, statusCallbackURL string) (*TwilioProvider, error) {
	client := resty.New()
	client.SetBaseURL(defaultTwilioBaseURL)
	client.SetTimeout(defaultSendTimeout)
	client.SetRetryCount(0)

	return NewTwilioProviderWithClient(accountSID, authToken, statusCallbackURL, client)
}

func NewTwilioProviderWithClient(accountSID, authToken, statusCallbackURL string, client *resty.Client) (*TwilioProvider, error) {
	trimmedSID := strings.TrimSpace(accountSID)
	if trimmedSID == "" {
		return nil, fmt.Errorf("twilio account sid is required")
	}
	if strings.TrimSpace(authToken) == "" {
		return nil, fmt.Errorf("twilio auth token is required")
	}
	if client == nil {
		return nil, fmt.Errorf("resty client is required")
	}

	if client.GetClient().Timeout == 0 {
		client.SetTimeout(defaultSendTimeout)
	}
	client.SetRetryCount(0)
	client.SetBasicAuth(trimmedSID, authToken)

	return &TwilioProvider{
		client:            client,
		accountSID:        trimmedSID,
		statusCallbackURL: strings.TrimSpace(statusCallbackURL),
	}, nil
}

func (p *TwilioProvider) Send(ctx context.Context, dispatch queue.DispatchMessage) (*SendResult, error) {
	if p == nil || p.client == nil {
		return nil, fmt.Errorf("provider is not initialized")
	}
	if err := dispatch.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dispatch: %w", err)
	}

	form := map[string]string{
		"From": whatsappPrefix + dispatch.SentFrom,
		"To":   whatsappPrefix + dispatch.SentTo,
		"Body": dispatch.Message,
	}
	if p.statusCallbackURL != "" {
		form["StatusCallback"] = p.statusCallbackURL
	}

	response, err := p.client.R().
		SetContext(ctx).
		SetFormData(form).
		Post(fmt.Sprintf("/2010-04-01/Accounts/%s/Messages.json", p.accountSID))
	if err != nil {
		return nil, &ProviderError{
			Message:   "gateway request failed",
			Transient: !errors.Is(err, context.Canceled),
			Cause:     err,
		}
	}
	if response == nil {
		return nil, &ProviderError{
			Message:   "gateway returned empty response",
			Transient: true,
		}
	}

	statusCode := response.StatusCode()
	responseBody := strings.TrimSpace(response.String())

	if statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices {
		var parsed twilioMessageResponse
		if err := json.Unmarshal(response.Body(), &parsed); err != nil {
			return nil, &ProviderError{
				StatusCode: statusCode,
				Message:    "gateway returned unparseable body",
				Cause:      err,
			}
		}
		if strings.TrimSpace(parsed.SID) == "" {
			return nil, &ProviderError{
				StatusCode: statusCode,
				Message:    "gateway response missing message sid",
			}
		}

		return &SendResult{
			MessageSID: parsed.SID,
			Status:     parsed.Status,
			StatusCode: statusCode,
			Body:       responseBody,
		}, nil
	}

	return nil, &ProviderError{
		StatusCode: statusCode,
		Message:    gatewayErrorMessage(statusCode, responseBody),
		Transient:  isTransientHTTPStatus(statusCode),
	}
}

func isTransientHTTPStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || (statusCode >= http.StatusInternalServerError && statusCode <= 599)
}

func gatewayErrorMessage(statusCode int, body string) string {
	base := fmt.Sprintf("gateway returned status %d", statusCode)
	if body == "" {
		return base
	}
	return fmt.Sprintf("%s: %s", base, body)
}
