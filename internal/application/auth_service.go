package application

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/timewise-app/timewise-api/internal/domain/entity"
	repo "github.com/timewise-app/timewise-api/internal/domain/repository"
	"github.com/timewise-app/timewise-api/pkg/helpers"
	"github.com/timewise-app/timewise-api/pkg/mailer"
	mailtpl "github.com/timewise-app/timewise-api/pkg/mailer/templates"
)

var (
	// ErrInvalidCredentials covers both unknown username and wrong
	// password so responses cannot be used for username enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrDuplicateUser      = errors.New("username or email already exists")
	ErrUserNotFound       = errors.New("user not found")
)

// Service implements the authentication operations: register, login and
// profile fetch. Redis, RabbitMQ and Elasticsearch are optional side
// channels; a nil client disables the corresponding behavior without
// affecting correctness.
type Service struct {
	Repo         repo.UserRepository
	JWT          *helpers.JWTManager
	Redis        *redis.Client
	Logger       *logrus.Logger
	Pub          *helpers.RabbitPublisher
	ES           *elasticsearch.Client
	ESUsersIndex string
	AppName      string
	MailEnabled  bool
}

func NewService(userRepo repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, pub *helpers.RabbitPublisher, es *elasticsearch.Client, esUsersIndex, appName string, mailEnabled bool) *Service {
	return &Service{
		Repo:         userRepo,
		JWT:          jwt,
		Redis:        rdb,
		Logger:       logger,
		Pub:          pub,
		ES:           es,
		ESUsersIndex: esUsersIndex,
		AppName:      appName,
		MailEnabled:  mailEnabled,
	}
}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates the user and returns it together with a fresh token.
// Username/email collisions surface as ErrDuplicateUser whether they are
// caught by the pre-check or by the unique constraints on insert.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, string, error) {
	existing, err := s.Repo.FindByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return nil, "", err
	}
	if len(existing) > 0 {
		return nil, "", ErrDuplicateUser
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	u := &entity.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			// Lost the race against a concurrent register.
			return nil, "", ErrDuplicateUser
		}
		return nil, "", err
	}

	token, _, err := s.JWT.Generate(u.ID, u.Username, u.Email)
	if err != nil {
		return nil, "", err
	}

	s.cacheSession(ctx, u)
	s.indexUser(ctx, u)
	s.sendWelcome(ctx, u)
	return u, token, nil
}

// Login verifies the credentials and returns the user with a fresh token.
func (s *Service) Login(ctx context.Context, username, password string) (*entity.User, string, error) {
	u, err := s.Repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !u.IsActive {
		return nil, "", ErrAccountDisabled
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, _, err := s.JWT.Generate(u.ID, u.Username, u.Email)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		}
		return nil, "", err
	}

	s.cacheSession(ctx, u)
	return u, token, nil
}

// Profile fetches a user by id, trying the redis session cache first.
func (s *Service) Profile(ctx context.Context, userID string) (*entity.User, error) {
	if u := s.cachedSession(ctx, userID); u != nil {
		return u, nil
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	s.cacheSession(ctx, u)
	return u, nil
}

// cacheSession stores the profile as a redis hash with the token TTL.
// Failures are logged and ignored; redis is a cache, not the source of truth.
func (s *Service) cacheSession(ctx context.Context, u *entity.User) {
	if s.Redis == nil {
		return
	}
	key := helpers.SessionKey(u.ID)
	fields := map[string]any{
		"user_id":    u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"is_active":  strconv.FormatBool(u.IsActive),
		"created_at": u.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	pipe := s.Redis.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, s.JWT.TTL)
	if _, err := pipe.Exec(ctx); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("key", key).Warn("redis pipeline failed")
	}
}

func (s *Service) cachedSession(ctx context.Context, userID string) *entity.User {
	if s.Redis == nil {
		return nil
	}
	data, err := s.Redis.HGetAll(ctx, helpers.SessionKey(userID)).Result()
	if err != nil || len(data) == 0 || data["user_id"] != userID {
		return nil
	}
	active, err := strconv.ParseBool(data["is_active"])
	if err != nil {
		return nil
	}
	created, err := time.Parse(time.RFC3339Nano, data["created_at"])
	if err != nil {
		return nil
	}
	return &entity.User{
		ID:        userID,
		Username:  data["username"],
		Email:     data["email"],
		FirstName: data["first_name"],
		LastName:  data["last_name"],
		IsActive:  active,
		CreatedAt: created,
	}
}

// sendWelcome enqueues the welcome mail. Fire and forget.
func (s *Service) sendWelcome(ctx context.Context, u *entity.User) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.Welcome,
		Data: map[string]any{
			"AppName":   s.AppName,
			"Username":  u.Username,
			"FirstName": u.FirstName,
		},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome mail publish failed")
	}
}

func (s *Service) indexUser(ctx context.Context, u *entity.User) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
}

// SearchUsers performs a simple multi_match search on username, email and names.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"username^2", "email^2", "first_name", "last_name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESUsersIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
