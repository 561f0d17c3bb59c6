package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/c4-modeller/engine/internal/exchange"
	"github.com/c4-modeller/engine/internal/logger"
	"github.com/c4-modeller/engine/internal/result"
)

// LambdaEvent is the invocation payload (e.g. from API Gateway).
type LambdaEvent struct {
	Body        string `json:"body"` // model JSON (raw or base64 if isBase64)
	IsBase64    bool   `json:"isBase64,omitempty"`
	Format      string `json:"format,omitempty"`      // output format, comma list or "all"; default json
	InputFormat string `json:"inputFormat,omitempty"` // auto (default), json or structurizr
	Level       string `json:"level,omitempty"`
	Strict      bool   `json:"strict,omitempty"`
}

// LambdaResponse is returned to the client (API Gateway).
type LambdaResponse struct {
	StatusCode int               `json:"statusCode"`
	Success    bool              `json:"success"`
	Errors     []string          `json:"errors,omitempty"`
	Warnings   []result.Warning  `json:"warnings,omitempty"`
	Files      map[string]string `json:"files,omitempty"` // filename -> content (base64)
}

// APIGatewayResponse is the shape expected by API Gateway proxy integration (body = JSON string).
type APIGatewayResponse struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       string            `json:"body"`
}

func formats(list string) []string {
	list = strings.TrimSpace(list)
	switch list {
	case "":
		return []string{exchange.FormatJSON}
	case "all":
		return exchange.Names()
	}
	var out []string
	for _, f := range strings.Split(list, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func handler(ctx context.Context, event LambdaEvent) (APIGatewayResponse, error) {
	out := LambdaResponse{StatusCode: 200}

	body := event.Body
	if event.IsBase64 {
		dec, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			out.StatusCode = 400
			out.Errors = []string{"invalid base64 body: " + err.Error()}
			return wrap(out), nil
		}
		body = string(dec)
	}

	names := formats(event.Format)
	for _, name := range names {
		if _, err := exchange.Lookup(name); err != nil {
			out.StatusCode = 422
			out.Errors = append(out.Errors, err.Error())
		}
	}
	if out.StatusCode != 200 {
		return wrap(out), nil
	}

	snap, err := exchange.ImportAs([]byte(body), event.InputFormat)
	if err != nil {
		out.StatusCode = 400
		if !errors.Is(err, diagram.ErrParse) {
			out.StatusCode = 422
		}
		out.Errors = []string{err.Error()}
		return wrap(out), nil
	}

	opts := exchange.DefaultOptions()
	if event.Level != "" {
		opts.Level = event.Level
	}
	opts.Strict = event.Strict
	res := exchange.Bundle(snap, names, opts)

	out.Success = res.Success
	out.Errors = res.Errors
	out.Warnings = res.Warnings
	if res.Success && len(res.Files) > 0 {
		out.Files = make(map[string]string, len(res.Files))
		for name, content := range res.Files {
			out.Files[name] = base64.StdEncoding.EncodeToString(content)
		}
	}
	if !res.Success {
		out.StatusCode = 422
	}
	logger.Default.Info("model converted", "formats", names, "success", res.Success, "entities", snap.Len())
	return wrap(out), nil
}

func wrap(out LambdaResponse) APIGatewayResponse {
	bodyBytes, _ := json.Marshal(out)
	return APIGatewayResponse{
		StatusCode: out.StatusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(bodyBytes),
	}
}

func main() {
	lambda.Start(handler)
}
