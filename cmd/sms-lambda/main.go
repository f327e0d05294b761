// Serverless deployment of the patient alert relay. Exposes the same
// send-sms / make-call contract as the API server for clinics running the
// relay behind API Gateway instead of a long-lived host.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	appconfig "github.com/ayursutra/panchakarma-platform/internal/config"
	"github.com/ayursutra/panchakarma-platform/internal/notifications"
	"github.com/ayursutra/panchakarma-platform/internal/telephony"
	"github.com/ayursutra/panchakarma-platform/pkg/logging"
)

type relayRequest struct {
	To      string `json:"to"`
	Body    string `json:"body"`
	Message string `json:"message"`
}

type handler struct {
	relay  *notifications.Service
	logger *logging.Logger
}

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	client, err := telephony.New(telephony.Config{
		BaseURL:    cfg.TwilioBaseURL,
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		FromNumber: cfg.TwilioFromNumber,
		Timeout:    10 * time.Second,
		Logger:     logger.Named("telephony").Logger,
	})
	if err != nil {
		logger.Error("telephony config invalid", "error", err)
		os.Exit(1)
	}

	// No audit store in the lambda path; API Gateway access logs cover it.
	relay := notifications.NewService(client, nil, nil,
		logger.Named("notifications"), cfg.PublicBaseURL, cfg.ReminderOffset)

	h := &handler{relay: relay, logger: logger}
	lambda.Start(h.handle)
}

func (h *handler) handle(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	path := strings.TrimSpace(evt.RawPath)
	if path == "" {
		path = strings.TrimSpace(evt.RequestContext.HTTP.Path)
	}
	if path == "/health" {
		return textResponse(http.StatusOK, "ok"), nil
	}

	method := strings.ToUpper(strings.TrimSpace(evt.RequestContext.HTTP.Method))
	if method != http.MethodPost {
		return textResponse(http.StatusMethodNotAllowed, "method not allowed"), nil
	}

	req, err := decodeRequest(evt)
	if err != nil {
		return textResponse(http.StatusBadRequest, "invalid body"), nil
	}
	if req.To == "" {
		return textResponse(http.StatusBadRequest, "to is required"), nil
	}

	var result notifications.DispatchResult
	switch path {
	case "/send-sms", "/api/send-sms":
		if req.Body == "" {
			return textResponse(http.StatusBadRequest, "body is required"), nil
		}
		result = h.relay.SendSMS(ctx, req.To, req.Body)
	case "/make-call", "/api/make-call":
		result = h.relay.MakeBotCall(ctx, req.To, req.Message)
	default:
		return textResponse(http.StatusNotFound, "not found"), nil
	}

	body, err := json.Marshal(result)
	if err != nil {
		return textResponse(http.StatusInternalServerError, "encode failed"), nil
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusOK,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}, nil
}

func decodeRequest(evt events.APIGatewayV2HTTPRequest) (relayRequest, error) {
	raw := []byte(evt.Body)
	if evt.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(evt.Body)
		if err != nil {
			return relayRequest{}, err
		}
		raw = decoded
	}
	var req relayRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return relayRequest{}, err
	}
	req.To = strings.TrimSpace(req.To)
	req.Body = strings.TrimSpace(req.Body)
	req.Message = strings.TrimSpace(req.Message)
	return req, nil
}

func textResponse(status int, body string) events.APIGatewayV2HTTPResponse {
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "text/plain"},
		Body:       body,
	}
}
