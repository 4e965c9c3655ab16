package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/timewise-app/timewise-api/internal/domain/entity"
	"github.com/timewise-app/timewise-api/internal/domain/repository"
	"github.com/timewise-app/timewise-api/pkg/helpers"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *entity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) ([]*entity.User, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.User), args.Error(1)
}

type AuthServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	jwt      *helpers.JWTManager
	svc      *Service
	ctx      context.Context
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.mockRepo = &MockUserRepository{}
	s.mockRepo.Test(s.T())
	s.jwt = helpers.NewJWTManager("test-secret", 24*time.Hour)
	// redis, rabbit and elasticsearch are nil: the service must work without them
	s.svc = NewService(s.mockRepo, s.jwt, nil, nil, nil, nil, "", "timewise-api", false)
	s.ctx = context.Background()
}

func (s *AuthServiceTestSuite) TearDownTest() {
	s.mockRepo.AssertExpectations(s.T())
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func activeUser(s *AuthServiceTestSuite, password string) *entity.User {
	hash, err := helpers.HashPassword(password)
	assert.NoError(s.T(), err)
	return &entity.User{
		ID:           "user-1",
		Username:     "alice",
		Email:        "a@x.com",
		PasswordHash: hash,
		FirstName:    "Alice",
		LastName:     "A",
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
}

func (s *AuthServiceTestSuite) TestLogin_Success() {
	u := activeUser(s, "secret123")
	s.mockRepo.On("GetByUsername", s.ctx, "alice").Return(u, nil)

	got, token, err := s.svc.Login(s.ctx, "alice", "secret123")
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), u, got)
	assert.NotEmpty(s.T(), token)

	claims, err := s.jwt.Parse(token)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "user-1", claims.UserID)
	assert.Equal(s.T(), "alice", claims.Username)
	assert.Equal(s.T(), "a@x.com", claims.Email)
}

func (s *AuthServiceTestSuite) TestLogin_UnknownUser() {
	s.mockRepo.On("GetByUsername", s.ctx, "ghost").Return(nil, repository.ErrNotFound)

	got, token, err := s.svc.Login(s.ctx, "ghost", "whatever")
	assert.Nil(s.T(), got)
	assert.Empty(s.T(), token)
	// unknown user and wrong password are indistinguishable
	assert.ErrorIs(s.T(), err, ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestLogin_WrongPassword() {
	u := activeUser(s, "secret123")
	s.mockRepo.On("GetByUsername", s.ctx, "alice").Return(u, nil)

	_, _, err := s.svc.Login(s.ctx, "alice", "wrong")
	assert.ErrorIs(s.T(), err, ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestLogin_RepeatedFailuresNeverLockout() {
	u := activeUser(s, "secret123")
	s.mockRepo.On("GetByUsername", s.ctx, "alice").Return(u, nil)

	for i := 0; i < 5; i++ {
		_, _, err := s.svc.Login(s.ctx, "alice", "wrong")
		assert.ErrorIs(s.T(), err, ErrInvalidCredentials)
	}
	// still succeeds with the right password; there is no lockout policy
	_, token, err := s.svc.Login(s.ctx, "alice", "secret123")
	assert.NoError(s.T(), err)
	assert.NotEmpty(s.T(), token)
}

func (s *AuthServiceTestSuite) TestLogin_DisabledAccount() {
	u := activeUser(s, "secret123")
	u.IsActive = false
	s.mockRepo.On("GetByUsername", s.ctx, "alice").Return(u, nil)

	// correct password, disabled account
	_, _, err := s.svc.Login(s.ctx, "alice", "secret123")
	assert.ErrorIs(s.T(), err, ErrAccountDisabled)
}

func (s *AuthServiceTestSuite) TestRegister_Success() {
	s.mockRepo.On("FindByUsernameOrEmail", s.ctx, "bob", "b@x.com").Return([]*entity.User{}, nil)
	s.mockRepo.On("Create", s.ctx, mock.AnythingOfType("*entity.User")).Return(nil).Run(func(args mock.Arguments) {
		u := args.Get(1).(*entity.User)
		assert.Equal(s.T(), "bob", u.Username)
		assert.Equal(s.T(), "b@x.com", u.Email)
		assert.NotEqual(s.T(), "hunter22", u.PasswordHash)
		assert.True(s.T(), helpers.CompareHashAndPassword(u.PasswordHash, "hunter22"))
		cost, err := bcrypt.Cost([]byte(u.PasswordHash))
		assert.NoError(s.T(), err)
		assert.Equal(s.T(), helpers.BcryptCost, cost)
		u.ID = "user-2"
		u.IsActive = true
		u.CreatedAt = time.Now().UTC()
	})

	u, token, err := s.svc.Register(s.ctx, RegisterInput{
		Username: "bob", Email: "b@x.com", Password: "hunter22",
		FirstName: "Bob", LastName: "B",
	})
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "bob", u.Username)
	assert.True(s.T(), u.IsActive)
	assert.NotEmpty(s.T(), token)

	claims, err := s.jwt.Parse(token)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "user-2", claims.UserID)
}

func (s *AuthServiceTestSuite) TestRegister_DuplicatePrecheck() {
	existing := activeUser(s, "x")
	s.mockRepo.On("FindByUsernameOrEmail", s.ctx, "alice", "new@x.com").Return([]*entity.User{existing}, nil)

	u, token, err := s.svc.Register(s.ctx, RegisterInput{Username: "alice", Email: "new@x.com", Password: "pw"})
	assert.Nil(s.T(), u)
	assert.Empty(s.T(), token)
	assert.ErrorIs(s.T(), err, ErrDuplicateUser)
	s.mockRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestRegister_DuplicateRace() {
	s.mockRepo.On("FindByUsernameOrEmail", s.ctx, "bob", "b@x.com").Return([]*entity.User{}, nil)
	s.mockRepo.On("Create", s.ctx, mock.AnythingOfType("*entity.User")).Return(repository.ErrDuplicate)

	_, _, err := s.svc.Register(s.ctx, RegisterInput{Username: "bob", Email: "b@x.com", Password: "pw"})
	assert.ErrorIs(s.T(), err, ErrDuplicateUser)
}

func (s *AuthServiceTestSuite) TestProfile_Found() {
	u := activeUser(s, "secret123")
	s.mockRepo.On("GetByID", s.ctx, "user-1").Return(u, nil)

	got, err := s.svc.Profile(s.ctx, "user-1")
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), u, got)
}

func (s *AuthServiceTestSuite) TestProfile_NotFound() {
	s.mockRepo.On("GetByID", s.ctx, "gone").Return(nil, repository.ErrNotFound)

	got, err := s.svc.Profile(s.ctx, "gone")
	assert.Nil(s.T(), got)
	assert.ErrorIs(s.T(), err, ErrUserNotFound)
}
