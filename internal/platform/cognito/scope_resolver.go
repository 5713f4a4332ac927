package cognito

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"go.uber.org/zap"

	commonErrors "github.com/hirosato/giftaid-review/internal/domain/errors"
	"github.com/hirosato/giftaid-review/internal/domain/giftaid"
)

// User pool attributes holding the company of a user
const (
	AttributeCompanyID   = "custom:companyId"
	AttributeCompanyName = "custom:companyName"
)

// ScopeResolver reads the company of a user from its user pool attributes
type ScopeResolver struct {
	api        API
	userPoolID string
	logger     *zap.Logger
}

// NewScopeResolver creates a resolver for the given user pool
func NewScopeResolver(api API, userPoolID string, logger *zap.Logger) *ScopeResolver {
	return &ScopeResolver{
		api:        api,
		userPoolID: userPoolID,
		logger:     logger,
	}
}

// ResolveCurrentUserScope returns the user's company, or nil when the user
// is unknown or has no company attribute.
func (r *ScopeResolver) ResolveCurrentUserScope(ctx context.Context, userID string) (*giftaid.UserScope, error) {
	out, err := r.api.AdminGetUser(ctx, &cognitoidentityprovider.AdminGetUserInput{
		UserPoolId: aws.String(r.userPoolID),
		Username:   aws.String(userID),
	})
	if err != nil {
		var notFound *types.UserNotFoundException
		if errors.As(err, &notFound) {
			r.logger.Info("User not found in user pool", zap.String("userId", userID))
			return nil, nil
		}
		return nil, commonErrors.NewTransportError("failed to get user", err)
	}

	var scope giftaid.UserScope
	for _, attr := range out.UserAttributes {
		switch aws.ToString(attr.Name) {
		case AttributeCompanyID:
			scope.ScopeID = aws.ToString(attr.Value)
		case AttributeCompanyName:
			scope.ScopeLabel = aws.ToString(attr.Value)
		}
	}
	if scope.ScopeID == "" {
		return nil, nil
	}
	if scope.ScopeLabel == "" {
		scope.ScopeLabel = scope.ScopeID
	}
	return &scope, nil
}
