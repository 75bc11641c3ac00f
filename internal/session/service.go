package session

import (
	"context"
	"time"

	"github.com/angelmondragon/marketplace-backend/internal/guard"
	"github.com/angelmondragon/marketplace-backend/internal/users"
	"github.com/angelmondragon/marketplace-backend/pkg/auth"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/metrics"
	"github.com/google/uuid"
)

// Accounts is the user directory surface used by login and registration.
type Accounts interface {
	Authenticate(ctx context.Context, email, password string) (users.User, error)
	Create(ctx context.Context, input users.CreateUserInput) (users.User, error)
}

// ServiceParams groups dependencies for the session service.
type ServiceParams struct {
	Store    Store
	Accounts Accounts
	JWT      config.JWTConfig
	Latency  time.Duration
	Metrics  *metrics.DomainMetrics
	Logger   *logger.Logger
	Clock    func() time.Time
	wait     waitFunc
}

// Service drives the session lifecycle.
type Service interface {
	Anonymous(ctx context.Context) (Issued, error)
	Resolve(ctx context.Context, token string) (State, error)
	Login(ctx context.Context, sessionID string, input LoginInput) (LoginResult, error)
	Register(ctx context.Context, input RegisterInput) (RegisterResult, error)
	Logout(ctx context.Context, sessionID string) error
	RememberReturnTo(ctx context.Context, sessionID, path string) error
}

type service struct {
	store    Store
	accounts Accounts
	jwtCfg   config.JWTConfig
	latency  time.Duration
	metrics  *metrics.DomainMetrics
	logg     *logger.Logger
	clock    func() time.Time
	wait     waitFunc
}

// NewService builds a session service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session store is required")
	}
	if params.Accounts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "accounts are required")
	}
	if params.JWT.Secret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "jwt secret is required")
	}
	svc := &service{
		store:    params.Store,
		accounts: params.Accounts,
		jwtCfg:   params.JWT,
		latency:  params.Latency,
		metrics:  params.Metrics,
		logg:     params.Logger,
		clock:    params.Clock,
		wait:     params.wait,
	}
	if svc.logg == nil {
		svc.logg = logger.Nop()
	}
	if svc.clock == nil {
		svc.clock = func() time.Time { return time.Now().UTC() }
	}
	if svc.wait == nil {
		svc.wait = sleepCtx
	}
	return svc, nil
}

// Anonymous opens an unauthenticated session.
func (s *service) Anonymous(ctx context.Context) (Issued, error) {
	state := State{ID: uuid.NewString()}
	if err := s.save(ctx, &state); err != nil {
		return Issued{}, err
	}
	return s.issue(state)
}

// Resolve validates a session token and loads the snapshot it points to.
func (s *service) Resolve(ctx context.Context, token string) (State, error) {
	claims, err := auth.ParseSessionToken(s.jwtCfg, token)
	if err != nil {
		return State{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session token")
	}
	state, ok, err := s.store.Get(ctx, claims.SessionID())
	if err != nil {
		return State{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	if !ok {
		return State{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
	}
	return state, nil
}

// Login runs loginStart, the simulated round trip, then loginSuccess or
// loginFailure. When ctx ends during the round trip the outcome is discarded
// and the session is left unauthenticated and idle.
func (s *service) Login(ctx context.Context, sessionID string, input LoginInput) (LoginResult, error) {
	state, err := s.loadOrNew(ctx, sessionID)
	if err != nil {
		return LoginResult{}, err
	}
	claimed, err := s.store.ClaimLogin(ctx, state.ID, s.latency+loginClaimGrace)
	if err != nil {
		return LoginResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim login")
	}
	if !claimed {
		return LoginResult{}, pkgerrors.New(pkgerrors.CodeSessionLoading, "login already in progress").
			WithDetails(map[string]string{"sessionId": state.ID})
	}
	claimID := state.ID
	defer s.releaseLogin(ctx, claimID)
	if state.Loading {
		// No live claim: the login that set loading never finished.
		s.logg.Warn(s.logg.WithSessionID(ctx, state.ID), "recovering stale login")
	}

	state = state.LoginStart()
	if err := s.save(ctx, &state); err != nil {
		return LoginResult{}, err
	}

	ctx = s.logg.WithSessionID(ctx, state.ID)
	if err := s.wait(ctx, s.latency); err != nil {
		s.abandon(ctx, state)
		return LoginResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "login abandoned")
	}

	user, err := s.accounts.Authenticate(ctx, input.Email, input.Password)
	if err != nil {
		if pkgerrors.CodeOf(err) != pkgerrors.CodeUnauthorized {
			s.abandon(ctx, state)
			return LoginResult{}, err
		}
		state = state.LoginFailure(MsgInvalidCredentials)
		if saveErr := s.save(ctx, &state); saveErr != nil {
			return LoginResult{}, saveErr
		}
		s.metrics.Record("login", metrics.OutcomeFailure)
		s.logg.Warn(ctx, "login failed")
		return LoginResult{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, MsgInvalidCredentials)
	}

	// A fresh id on privilege change; the old one stops resolving.
	previousID := state.ID
	state, redirect := state.LoginSuccess(user.Profile()).ConsumeReturnTo(guard.SafeReturnPath(input.From))
	state.ID = uuid.NewString()
	if err := s.save(ctx, &state); err != nil {
		return LoginResult{}, err
	}
	if err := s.store.Delete(ctx, previousID); err != nil {
		s.logg.Error(ctx, "failed to delete pre-login session", err)
	}

	issued, err := s.issue(state)
	if err != nil {
		return LoginResult{}, err
	}
	s.metrics.Record("login", metrics.OutcomeSuccess)
	s.logg.Info(s.logg.WithUserID(ctx, user.ID), "login succeeded")
	return LoginResult{Issued: issued, Redirect: redirect}, nil
}

// Register creates the account after the simulated round trip and sends the
// caller to the login page. Authentication is not changed.
func (s *service) Register(ctx context.Context, input RegisterInput) (RegisterResult, error) {
	role, err := enums.ParseRole(input.Role)
	if err != nil {
		return RegisterResult{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role").
			WithDetails(map[string]string{"role": "must be one of buyer vendor"})
	}
	if input.Password != input.ConfirmPassword {
		return RegisterResult{}, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"confirmPassword": "passwords must match"})
	}

	if err := s.wait(ctx, s.latency); err != nil {
		s.metrics.Record("register", metrics.OutcomeCanceled)
		return RegisterResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "registration abandoned")
	}

	user, err := s.accounts.Create(ctx, users.CreateUserInput{
		FullName:    input.FullName,
		Email:       input.Email,
		CompanyName: input.CompanyName,
		Role:        role,
		Password:    input.Password,
	})
	if err != nil {
		s.metrics.Record("register", metrics.OutcomeFailure)
		return RegisterResult{}, err
	}
	s.metrics.Record("register", metrics.OutcomeSuccess)
	s.logg.Info(s.logg.WithUserID(ctx, user.ID), "user registered")
	return RegisterResult{User: user.Profile(), Redirect: guard.PathLogin}, nil
}

// Logout clears and forgets the session. Unknown sessions are ignored.
func (s *service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete session")
	}
	s.metrics.Record("logout", metrics.OutcomeSuccess)
	return nil
}

// RememberReturnTo stores the path an unauthenticated visitor tried to open.
func (s *service) RememberReturnTo(ctx context.Context, sessionID, path string) error {
	state, ok, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	if !ok || state.Authenticated {
		return nil
	}
	path = guard.SafeReturnPath(path)
	if path == "" {
		return nil
	}
	state = state.RememberReturnTo(path)
	return s.save(ctx, &state)
}

func (s *service) loadOrNew(ctx context.Context, sessionID string) (State, error) {
	if sessionID != "" {
		state, ok, err := s.store.Get(ctx, sessionID)
		if err != nil {
			return State{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
		}
		if ok {
			return state, nil
		}
	}
	return State{ID: uuid.NewString()}, nil
}

func (s *service) releaseLogin(ctx context.Context, sessionID string) {
	if err := s.store.ReleaseLogin(context.WithoutCancel(ctx), sessionID); err != nil {
		s.logg.Error(ctx, "failed to release login claim", err)
	}
}

// abandon resets an in-flight login. The write must survive ctx cancellation.
func (s *service) abandon(ctx context.Context, state State) {
	s.metrics.Record("login", metrics.OutcomeCanceled)
	state = state.Abandon()
	if err := s.save(context.WithoutCancel(ctx), &state); err != nil {
		s.logg.Error(ctx, "failed to reset abandoned login", err)
		return
	}
	s.logg.Warn(ctx, "login abandoned before completion")
}

func (s *service) save(ctx context.Context, state *State) error {
	state.UpdatedAt = s.clock()
	if err := s.store.Save(ctx, *state); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save session")
	}
	return nil
}

func (s *service) issue(state State) (Issued, error) {
	token, err := auth.MintSessionToken(s.jwtCfg, s.clock(), state.ID, state.UserID())
	if err != nil {
		return Issued{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token")
	}
	return Issued{Token: token, Session: state}, nil
}
