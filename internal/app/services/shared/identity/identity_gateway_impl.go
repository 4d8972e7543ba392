package identity

import (
	"context"
	"fmt"
	"sync"
	"telemed-service/internal/app/contracts"
	"telemed-service/internal/app/models"
	"telemed-service/internal/pkg/constvars"
	"telemed-service/internal/pkg/exceptions"
	"telemed-service/internal/pkg/utils"

	"github.com/supertokens/supertokens-golang/recipe/emailpassword"
	"github.com/supertokens/supertokens-golang/recipe/emailpassword/epmodels"
	"github.com/supertokens/supertokens-golang/recipe/userroles"
	"github.com/supertokens/supertokens-golang/recipe/userroles/userrolesmodels"
	"go.uber.org/zap"
)

var (
	identityGatewayInstance contracts.IdentityGateway
	onceIdentityGateway     sync.Once
)

// recipeFuncs holds the SuperTokens recipe calls so tests can replace them.
type recipeFuncs struct {
	getUserByEmail func(tenantID, email string) (*epmodels.User, error)
	signUp         func(tenantID, email, password string) (epmodels.SignUpResponse, error)
	updatePassword func(tenantID, userID, password string) (epmodels.UpdateEmailOrPasswordResponse, error)
	addRoleToUser  func(tenantID, userID, role string) (userrolesmodels.AddRoleToUserResponse, error)
	createRole     func(role string, permissions []string) (userrolesmodels.CreateNewRoleOrAddPermissionsResponse, error)
}

func supertokensRecipes() recipeFuncs {
	return recipeFuncs{
		getUserByEmail: func(tenantID, email string) (*epmodels.User, error) {
			return emailpassword.GetUserByEmail(tenantID, email)
		},
		signUp: func(tenantID, email, password string) (epmodels.SignUpResponse, error) {
			return emailpassword.SignUp(tenantID, email, password)
		},
		updatePassword: func(tenantID, userID, password string) (epmodels.UpdateEmailOrPasswordResponse, error) {
			applyPolicy := false
			return emailpassword.UpdateEmailOrPassword(userID, nil, &password, &applyPolicy, &tenantID)
		},
		addRoleToUser: func(tenantID, userID, role string) (userrolesmodels.AddRoleToUserResponse, error) {
			return userroles.AddRoleToUser(tenantID, userID, role, nil)
		},
		createRole: func(role string, permissions []string) (userrolesmodels.CreateNewRoleOrAddPermissionsResponse, error) {
			return userroles.CreateNewRoleOrAddPermissions(role, permissions, nil)
		},
	}
}

type identityGateway struct {
	TenantID string
	Recipes  recipeFuncs
	Log      *zap.Logger
}

func NewIdentityGateway(tenantID string, logger *zap.Logger) contracts.IdentityGateway {
	onceIdentityGateway.Do(func() {
		identityGatewayInstance = &identityGateway{
			TenantID: tenantID,
			Recipes:  supertokensRecipes(),
			Log:      logger,
		}
	})
	return identityGatewayInstance
}

func (g *identityGateway) FindUserByEmail(ctx context.Context, email string) (*models.IdentityUser, error) {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("identityGateway.FindUserByEmail called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEmailKey, email),
	)

	user, err := g.Recipes.getUserByEmail(g.TenantID, email)
	if err != nil {
		g.Log.Error("identityGateway.FindUserByEmail supertokens error get user by email",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrIdentityProvider(err)
	}
	if user == nil {
		return nil, nil
	}
	return &models.IdentityUser{ID: user.ID, Email: user.Email}, nil
}

func (g *identityGateway) CreateUser(ctx context.Context, email, password string) (*models.IdentityUser, bool, error) {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("identityGateway.CreateUser called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEmailKey, email),
	)

	response, err := g.Recipes.signUp(g.TenantID, email, password)
	if err != nil {
		g.Log.Error("identityGateway.CreateUser supertokens error sign up",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, false, exceptions.ErrIdentityProvider(err)
	}

	if response.EmailAlreadyExistsError != nil {
		g.Log.Info("identityGateway.CreateUser account already exists",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		existing, err := g.FindUserByEmail(ctx, email)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, exceptions.ErrIdentityProvider(fmt.Errorf("account for %s reported as existing but not found", email))
		}
		return existing, false, nil
	}

	if response.OK == nil {
		return nil, false, exceptions.ErrIdentityProvider(fmt.Errorf("unexpected sign up response"))
	}

	g.Log.Info("identityGateway.CreateUser succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingIdentityUserIDKey, response.OK.User.ID),
	)
	return &models.IdentityUser{ID: response.OK.User.ID, Email: response.OK.User.Email}, true, nil
}

func (g *identityGateway) SetPassword(ctx context.Context, userID, password string) error {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("identityGateway.SetPassword called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingIdentityUserIDKey, userID),
	)

	response, err := g.Recipes.updatePassword(g.TenantID, userID, password)
	if err != nil {
		g.Log.Error("identityGateway.SetPassword supertokens error update password",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrIdentityProvider(err)
	}
	if response.UnknownUserIdError != nil {
		return exceptions.ErrIdentityProvider(fmt.Errorf("unknown identity user %s", userID))
	}
	return nil
}

func (g *identityGateway) AssignRole(ctx context.Context, userID, role string) error {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("identityGateway.AssignRole called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingIdentityUserIDKey, userID),
		zap.String("role", role),
	)

	response, err := g.Recipes.addRoleToUser(g.TenantID, userID, role)
	if err != nil {
		g.Log.Error("identityGateway.AssignRole error userroles.AddRoleToUser",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrIdentityProvider(err)
	}

	if response.UnknownRoleError != nil {
		return exceptions.ErrIdentityProvider(fmt.Errorf("unknown role found when assigning role %s", role))
	}

	if response.OK != nil && response.OK.DidUserAlreadyHaveRole {
		g.Log.Info("identityGateway.AssignRole user already have role",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
	}
	return nil
}

func (g *identityGateway) EnsureRole(ctx context.Context, role string, permissions []string) error {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("identityGateway.EnsureRole called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("role", role),
	)

	response, err := g.Recipes.createRole(role, permissions)
	if err != nil {
		g.Log.Error("identityGateway.EnsureRole error userroles.CreateNewRoleOrAddPermissions",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrIdentityProvider(err)
	}

	if response.OK != nil && !response.OK.CreatedNewRole {
		g.Log.Info("identityGateway.EnsureRole role already exists",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String("role", role),
		)
	}
	return nil
}
