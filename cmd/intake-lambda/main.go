// The intake-lambda binary runs the submission pipeline as an AWS Lambda
// function behind API Gateway, matching the original serverless
// deployment of the booking form.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	appconfig "github.com/shafakhana/clinic-intake/internal/config"
	"github.com/shafakhana/clinic-intake/internal/intake"
	"github.com/shafakhana/clinic-intake/internal/notify"
	"github.com/shafakhana/clinic-intake/internal/observability/metrics"
	"github.com/shafakhana/clinic-intake/internal/sheets"
	"github.com/shafakhana/clinic-intake/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	var sink intake.Sink
	switch {
	case cfg.SinkProvider == "memory":
		sink = intake.NewMemorySink()
	case cfg.SinkConfigured():
		s, err := sheets.New(context.Background(), sheets.Config{
			SpreadsheetID:   cfg.SheetID,
			CredentialsJSON: []byte(cfg.CredentialsJSON),
			SheetTitle:      cfg.SheetTitle,
		})
		if err != nil {
			logger.Error("failed to initialize sheets sink", "error", err)
		} else {
			sink = s.WithLogger(logger)
		}
	default:
		logger.Error("sheets sink configuration missing")
	}

	var notifier intake.Notifier
	if sender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sender != nil {
		if n := notify.NewSubmissionNotifier(sender, cfg.NotifyEmail, logger); n != nil {
			notifier = n
		}
	}

	service := intake.NewService(intake.ServiceConfig{
		Sink:        sink,
		Mode:        intake.ParsePersistenceMode(cfg.PersistenceMode),
		Messages:    intake.DefaultMessages(),
		Location:    cfg.Location(),
		SinkTimeout: cfg.SinkTimeout,
		Logger:      logger,
		Metrics:     metrics.NewIntakeMetrics(nil),
		Notifier:    notifier,
	})

	lambda.Start(func(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return handle(ctx, service, logger, evt)
	})
}

func handle(ctx context.Context, service *intake.Service, logger *logging.Logger, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := strings.ToUpper(strings.TrimSpace(evt.RequestContext.HTTP.Method))
	path := strings.TrimSpace(evt.RawPath)
	if path == "" {
		path = strings.TrimSpace(evt.RequestContext.HTTP.Path)
	}
	msgs := service.Messages()

	if path == "/health" || path == "/_health" {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusOK, Body: "ok"}, nil
	}

	switch path {
	case "/submit-appointment", "/api/submit-appointment":
	default:
		return respond(http.StatusNotFound, intake.ErrorResponse{Message: msgs.InvalidBody}), nil
	}

	if method == http.MethodOptions {
		return respond(http.StatusOK, nil), nil
	}
	if method != http.MethodPost {
		return respond(http.StatusMethodNotAllowed, intake.ErrorResponse{Message: msgs.MethodNotAllowed}), nil
	}

	body, err := decodeBody(evt)
	if err != nil {
		return respond(http.StatusBadRequest, intake.ErrorResponse{Message: msgs.InvalidBody}), nil
	}

	var req intake.SubmissionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		logger.Error("failed to decode submission body", "error", err)
		return respond(http.StatusBadRequest, intake.ErrorResponse{Message: msgs.InvalidBody}), nil
	}

	receipt, err := service.Submit(ctx, &req, evt.RequestContext.HTTP.SourceIP)
	status, respBody := intake.Result(receipt, err, msgs)
	return respond(status, respBody), nil
}

func respond(status int, body interface{}) events.APIGatewayV2HTTPResponse {
	out := events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    intake.CORSHeaders(),
	}
	if body != nil {
		encoded, err := json.Marshal(body)
		if err == nil {
			out.Headers["Content-Type"] = "application/json"
			out.Body = string(encoded)
		}
	}
	return out
}

func decodeBody(evt events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if !evt.IsBase64Encoded {
		return []byte(evt.Body), nil
	}
	return base64.StdEncoding.DecodeString(evt.Body)
}
