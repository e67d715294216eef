package services

import (
	"context"
	"strings"
	"time"

	"github.com/techjobs/backend/internal/config"
	"github.com/techjobs/backend/internal/entities"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
)

// AuthService is the mock authentication of the prototype: any credentials
// are accepted and a fresh user identity is minted on every login or
// registration. Sessions live in a TTL cache; logging out removes the
// session, never the user record. Every minted user is also appended to the
// persisted user directory so conversation counterpart roles can be
// resolved from record rather than inferred.
type AuthService struct {
	users    *collection[entities.User]
	sessions *gocache.Cache
	validate *validator.Validate
	cfg      config.StoreConfig
	newID    idGenerator
	now      clock
}

func NewAuthService(ctx context.Context, store collectionStore, cfg config.StoreConfig, sessionTTL time.Duration) (*AuthService, error) {

	users, err := loadCollection[entities.User](ctx, store, usersCollection, cfg.PersistEmpty)
	if err != nil {
		return nil, err
	}

	return &AuthService{
		users:    users,
		sessions: gocache.New(sessionTTL, 10*time.Minute),
		validate: validator.New(),
		cfg:      cfg,
		newID:    uuid.NewString,
		now:      time.Now,
	}, nil
}

// Login accepts any credentials. The display name is the local part of the
// email address. Returns the user and an opaque session id.
func (s *AuthService) Login(ctx context.Context, email, password string, userType entities.UserType) (*entities.User, string, error) {

	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, "", errors.Wrap(err, "invalid email")
	}
	if password == "" {
		return nil, "", errors.New("password must not be empty")
	}

	name := strings.Split(email, "@")[0]
	return s.startSession(ctx, email, name, userType)
}

func (s *AuthService) Register(ctx context.Context, email, password, name string, userType entities.UserType) (*entities.User, string, error) {

	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, "", errors.Wrap(err, "invalid email")
	}
	if password == "" {
		return nil, "", errors.New("password must not be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, "", errors.New("name must not be empty")
	}

	return s.startSession(ctx, email, strings.TrimSpace(name), userType)
}

func (s *AuthService) startSession(ctx context.Context, email, name string, userType entities.UserType) (*entities.User, string, error) {

	if !userType.Valid() {
		return nil, "", ErrInvalidUserType
	}

	defer observeOperation("login")()
	simulate(s.cfg.WriteLatency)

	user := entities.User{
		ID:        s.newID(),
		Email:     email,
		Name:      name,
		Type:      userType,
		CreatedAt: s.now(),
	}

	err := s.users.update(ctx, func(users []entities.User) ([]entities.User, bool) {
		return append(users, user), true
	})
	if err != nil {
		return nil, "", err
	}

	sessionID := s.newID()
	s.sessions.Set(sessionID, user, gocache.DefaultExpiration)
	return &user, sessionID, nil
}

// SessionUser resolves a session id to the logged-in user, the current-user
// provider the other services depend on.
func (s *AuthService) SessionUser(sessionID string) (*entities.User, bool) {
	value, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, false
	}
	user := value.(entities.User)
	return &user, true
}

func (s *AuthService) Logout(sessionID string) {
	s.sessions.Delete(sessionID)
}

// FindByID looks the user up in the persisted directory.
func (s *AuthService) FindByID(id string) (*entities.User, bool) {
	for _, user := range s.users.snapshot() {
		if user.ID == id {
			return &user, true
		}
	}
	return nil, false
}
