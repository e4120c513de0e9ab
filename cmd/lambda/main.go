package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/tfcanvas/canvas/internal/config"
	"github.com/tfcanvas/canvas/internal/ctxlog"
	"github.com/tfcanvas/canvas/internal/diagram"
	"github.com/tfcanvas/canvas/internal/logger"
	"github.com/tfcanvas/canvas/internal/parser"
	"github.com/tfcanvas/canvas/internal/result"
	"github.com/tfcanvas/canvas/internal/schema"
)

// LambdaEvent is the invocation payload (e.g. from API Gateway).
type LambdaEvent struct {
	Body     string `json:"body"` // configuration text (raw or base64 if isBase64)
	IsBase64 bool   `json:"isBase64,omitempty"`
	Name     string `json:"name,omitempty"` // file name used in warnings
}

// LambdaResponse is returned to the client (API Gateway).
type LambdaResponse struct {
	StatusCode int              `json:"statusCode"`
	Success    bool             `json:"success"`
	Errors     []result.Error   `json:"errors,omitempty"`
	Warnings   []result.Warning `json:"warnings,omitempty"`
	Diagram    *diagram.Diagram `json:"diagram,omitempty"`
}

// APIGatewayResponse is the shape expected by API Gateway proxy integration (body = JSON string).
type APIGatewayResponse struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       string            `json:"body"`
}

type handler struct {
	catalog *schema.Catalog
	parser  *parser.ConfigParser
	log     *slog.Logger
}

func (h *handler) handle(ctx context.Context, event LambdaEvent) (APIGatewayResponse, error) {
	out := LambdaResponse{StatusCode: 200}

	body := event.Body
	if event.IsBase64 {
		dec, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			out.StatusCode = 400
			out.Errors = []result.Error{{Type: "invalid_input", Severity: result.SeverityError, Message: "invalid base64 body: " + err.Error()}}
			return wrap(ctx, out), nil
		}
		body = string(dec)
	}
	name := event.Name
	if name == "" {
		name = result.FileMain
	}

	res := h.parser.Parse(name, []byte(body))
	out.Warnings = res.Warnings
	if res.Empty() {
		out.StatusCode = 422
		out.Errors = []result.Error{{
			Type: "nothing_found", Severity: result.SeverityError,
			Message:    "no resources or variables found",
			Suggestion: "Send Terraform configuration with at least one resource or variable block",
		}}
		return wrap(ctx, out), nil
	}

	out.Success = true
	out.Diagram = diagram.FromParse(h.parser, res, diagram.Metadata{Name: name, SchemaVersion: h.catalog.Status().Version})
	h.log.Info("Parsed configuration.", "name", name, "resources", len(res.Resources), "variables", len(res.Variables), "warnings", len(res.Warnings))
	return wrap(ctx, out), nil
}

func wrap(ctx context.Context, out LambdaResponse) APIGatewayResponse {
	bodyBytes, err := json.Marshal(out)
	if err != nil {
		ctxlog.FromContext(ctx).Error("Failed to encode response.", "error", err)
	}
	return APIGatewayResponse{
		StatusCode: out.StatusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(bodyBytes),
	}
}

func main() {
	cfg, err := config.Load(os.Getenv("CANVAS_CONFIG"))
	if err != nil {
		logger.Default.Error("Invalid configuration.", "error", err)
		os.Exit(1)
	}
	log := logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	ctx := ctxlog.WithLogger(context.Background(), log)

	cat, err := cfg.Catalog(ctx)
	if err != nil {
		log.Error("Failed to open schema source.", "error", err)
		os.Exit(1)
	}
	opts := parser.DefaultOptions()
	opts.Columns = cfg.Graph.GridColumns
	h := &handler{catalog: cat, parser: parser.New(cat, opts), log: log}
	lambda.Start(h.handle)
}
