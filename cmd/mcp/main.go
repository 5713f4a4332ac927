package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"runtime"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/hirosato/giftaid-review/internal/api/mcp/resources"
	"github.com/hirosato/giftaid-review/internal/api/mcp/tools"
	"github.com/hirosato/giftaid-review/internal/api/middleware"
	"github.com/hirosato/giftaid-review/internal/api/response"
	envconfig "github.com/hirosato/giftaid-review/internal/common/config"
	applogger "github.com/hirosato/giftaid-review/internal/common/logger"
	"github.com/hirosato/giftaid-review/internal/domain/giftaid"
	"github.com/hirosato/giftaid-review/internal/domain/mcp"
	"github.com/hirosato/giftaid-review/internal/platform/backend"
)

type MCPRequestHandler struct {
	mcpService *mcp.Service
	config     *envconfig.Config
}

// NewMCPRequestHandler creates a new MCP request handler
func NewMCPRequestHandler(mcpService *mcp.Service, config *envconfig.Config) *MCPRequestHandler {
	return &MCPRequestHandler{
		mcpService: mcpService,
		config:     config,
	}
}

// HandleRequest serves JSON-RPC on POST /
func (h *MCPRequestHandler) HandleRequest(ctx context.Context, logger *zap.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	// Handle CORS preflight
	if request.HTTPMethod == http.MethodOptions {
		return response.NoContent(), nil
	}

	if !h.config.IsProd() {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		logger.Debug("mcp - Memory Status", zap.Uint64("MB", m.Alloc/1024/1024))
	}

	if request.Path != "/" {
		return response.NotFound("Endpoint not found", request.RequestContext.RequestID), nil
	}
	if request.HTTPMethod != http.MethodPost {
		return h.jsonRPCMethodNotAllowedError(), nil
	}

	var jsonRPCRequest mcp.JSONRPCRequest
	if err := json.Unmarshal([]byte(request.Body), &jsonRPCRequest); err != nil {
		logger.Warn("Failed to parse JSON-RPC request", zap.Error(err))
		return h.jsonRPCErrorResponse(mcp.ParseError, "Parse error", err.Error()), nil
	}

	httpResponse := h.mcpService.HandleRequest(ctx, jsonRPCRequest)

	resp := response.JSON(httpResponse.StatusCode, httpResponse.JSONRPCResponse)
	if resp.StatusCode == http.StatusInternalServerError {
		logger.Error("Failed to marshal JSON-RPC response", zap.String("method", jsonRPCRequest.Method))
		return h.jsonRPCErrorResponse(mcp.InternalError, "Internal error", "Failed to marshal response"), nil
	}
	return resp, nil
}

func (h *MCPRequestHandler) jsonRPCErrorResponse(code int, message string, data string) events.APIGatewayProxyResponse {
	// JSON-RPC errors still return 200
	return response.JSON(http.StatusOK, mcp.JSONRPCResponse{
		JSONRPC: "2.0",
		Error: &mcp.JSONRPCError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	})
}

func (h *MCPRequestHandler) jsonRPCMethodNotAllowedError() events.APIGatewayProxyResponse {
	resp := response.JSON(http.StatusMethodNotAllowed, mcp.JSONRPCResponse{
		JSONRPC: "2.0",
		Error: &mcp.JSONRPCError{
			Code:    mcp.MethodNotAllowed,
			Message: "Method Not Allowed",
		},
	})
	resp.Headers["Allow"] = http.MethodPost
	return resp
}

// newMCPService registers the review tools and resources on a fresh registry
func newMCPService(service *giftaid.Service, options giftaid.OptionsRepository, logger *zap.Logger) *mcp.Service {
	registry := mcp.NewHandlerRegistry()
	tools.RegisterAll(registry, service)
	registry.RegisterResource(resources.NewExportColumnsResource())
	registry.RegisterResource(resources.NewStatusOptionsResource(options))
	return mcp.NewService(logger, registry)
}

func run() error {
	config, err := envconfig.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger, err := applogger.New(config)
	if err != nil {
		return err
	}
	defer logger.Sync()

	b, err := backend.Open(context.Background(), config, logger)
	if err != nil {
		logger.Error("Failed to initialize storage backend", zap.Error(err))
		return err
	}
	defer b.Close()

	service := giftaid.NewService(b.Store, b.Store, b.Scopes, giftaid.Config{
		PageSize:         config.PageSize,
		DefaultStatus:    giftaid.GiftAidStatus(config.DefaultGiftAidStatus),
		ExportFilePrefix: config.ExportFilePrefix,
		SessionTTL:       config.SessionTTL,
	}, logger)

	handler := NewMCPRequestHandler(newMCPService(service, b.Store, logger), config)

	chain := middleware.Chain(handler.HandleRequest,
		middleware.NewLoggingMiddleware(!config.IsProd()),
		middleware.NewRecoveryMiddleware(),
		middleware.NewIdentityMiddleware(!config.IsProd()),
	)

	lambda.Start(middleware.Lambda(chain, logger))
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
