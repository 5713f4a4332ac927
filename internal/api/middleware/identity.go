package middleware

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/hirosato/giftaid-review/internal/common/utils"
	"github.com/hirosato/giftaid-review/internal/domain/caller"
)

// UserIDHeader names the caller outside production, when no authorizer is in front of the function
const UserIDHeader = "X-User-Id"

// IdentityMiddleware puts the calling user into the request context.
// Tokens are verified by the API Gateway authorizer; this middleware only reads them.
type IdentityMiddleware struct {
	allowHeader bool
}

// NewIdentityMiddleware creates a new identity middleware. allowHeader enables
// the X-User-Id fallback.
func NewIdentityMiddleware(allowHeader bool) IdentityMiddleware {
	return IdentityMiddleware{allowHeader: allowHeader}
}

// Handle handles the identity middleware
func (m IdentityMiddleware) Handle(next APIGatewayHandler) APIGatewayHandler {
	return func(ctx context.Context, logger *zap.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		if c, ok := m.resolve(request, logger); ok {
			ctx = caller.WithCaller(ctx, c)
			logger = logger.With(zap.String("userId", c.UserID), zap.String("identitySource", string(c.Source)))
		} else {
			logger.Debug("Anonymous request")
		}
		return next(ctx, logger, request)
	}
}

func (m IdentityMiddleware) resolve(request events.APIGatewayProxyRequest, logger *zap.Logger) (caller.Caller, bool) {
	if userID := authorizerSubject(request.RequestContext.Authorizer); userID != "" {
		return caller.Caller{UserID: userID, Source: caller.SourceAuthorizer}, true
	}

	if authHeader := header(request.Headers, "Authorization"); authHeader != "" {
		userID, err := utils.SubjectFromBearer(authHeader)
		if err == nil {
			return caller.Caller{UserID: userID, Source: caller.SourceBearer}, true
		}
		logger.Warn("Ignoring unreadable bearer token", zap.Error(err))
	}

	if m.allowHeader {
		if userID := header(request.Headers, UserIDHeader); userID != "" {
			return caller.Caller{UserID: userID, Source: caller.SourceHeader}, true
		}
	}
	return caller.Caller{}, false
}

// authorizerSubject reads the user from a Cognito user pool authorizer
// (claims map) or a Lambda authorizer (principalId).
func authorizerSubject(authorizer map[string]interface{}) string {
	if claims, ok := authorizer["claims"].(map[string]interface{}); ok {
		for _, key := range []string{"cognito:username", "username", "sub"} {
			if v, ok := claims[key].(string); ok && v != "" {
				return v
			}
		}
	}
	if v, ok := authorizer["principalId"].(string); ok {
		return v
	}
	return ""
}

func header(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if http.CanonicalHeaderKey(k) == http.CanonicalHeaderKey(name) {
			return v
		}
	}
	return ""
}
