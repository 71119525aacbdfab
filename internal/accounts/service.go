package accounts

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"database/sql"
	"log"
	"strings"
	"time"
	"unicode"

	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"

	"SAC-backend/internal/platform/apperr"
	"SAC-backend/internal/platform/auth"
)

type IDGen interface {
	NewULID() string
}

type ulidGen struct{}

func (ulidGen) NewULID() string {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// emailFold is the case-insensitive email identity: fold once at write,
// fold again at lookup.
var emailFold = cases.Fold()

func foldEmail(s string) string {
	return emailFold.String(strings.TrimSpace(s))
}

type Service struct {
	db    *sql.DB
	store *Store
	id    IDGen
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, store: NewStore(db), id: ulidGen{}}
}

// checkPasswordPolicy: at least 8 chars, one upper, one lower, one digit.
func checkPasswordPolicy(pw string) error {
	if len(pw) < 8 {
		return apperr.Validation("password must be at least 8 characters")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return apperr.Validation("password must include an upper-case letter, a lower-case letter and a digit")
	}
	return nil
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (AccountResponse, error) {
	return s.create(ctx, CreateAccountRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      RoleStaff,
	})
}

// CreateAccount is the admin-issued path; role comes from the request.
func (s *Service) CreateAccount(ctx context.Context, req CreateAccountRequest) (AccountResponse, error) {
	if !ValidRole(req.Role) {
		return AccountResponse{}, apperr.Validation("role must be admin or staff")
	}
	return s.create(ctx, req)
}

func (s *Service) create(ctx context.Context, req CreateAccountRequest) (AccountResponse, error) {
	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	email := foldEmail(req.Email)
	if first == "" || last == "" || email == "" {
		return AccountResponse{}, apperr.Validation("first_name, last_name and email are required")
	}
	if err := checkPasswordPolicy(req.Password); err != nil {
		return AccountResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AccountResponse{}, apperr.Storage(err)
	}

	a := &Account{
		AccountID:    s.id.NewULID(),
		FirstName:    first,
		LastName:     last,
		Email:        email,
		PasswordHash: string(hash),
		Role:         req.Role,
	}
	if err := s.store.Insert(ctx, a); err != nil {
		return AccountResponse{}, err
	}
	return toResponse(a), nil
}

// Login verifies the credential and issues a session token. Failure stays
// generic regardless of cause.
func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	acct, err := s.store.GetByEmail(ctx, foldEmail(req.Email))
	if err != nil {
		if apperr.IsCode(err, apperr.CodeNotFound) {
			return LoginResponse{}, apperr.Auth()
		}
		return LoginResponse{}, err
	}

	if !s.credentialMatches(ctx, acct, req.Password) {
		return LoginResponse{}, apperr.Auth()
	}

	token, err := auth.IssueToken(acct.AccountID, acct.Role)
	if err != nil {
		return LoginResponse{}, apperr.Storage(err)
	}
	return LoginResponse{Token: token, Account: toResponse(acct)}, nil
}

// credentialMatches accepts the stored bcrypt hash or, for rows predating
// hashing, a plaintext equality match which is immediately upgraded to a
// hash. The plaintext branch goes away once every row is migrated.
func (s *Service) credentialMatches(ctx context.Context, acct *Account, password string) bool {
	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) == nil {
		return true
	}

	if subtle.ConstantTimeCompare([]byte(acct.PasswordHash), []byte(password)) == 1 {
		if hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost); err == nil {
			if err := s.store.UpdatePassword(ctx, acct.AccountID, string(hash)); err != nil {
				log.Printf("[WARN] failed to upgrade legacy credential for %s: %v", acct.AccountID, err)
			}
		}
		return true
	}

	return false
}

func (s *Service) GetAccount(ctx context.Context, id string) (AccountResponse, error) {
	acct, err := s.store.GetByID(ctx, id)
	if err != nil {
		return AccountResponse{}, err
	}
	return toResponse(acct), nil
}

func (s *Service) ListAccounts(ctx context.Context) ([]AccountResponse, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AccountResponse, 0, len(items))
	for i := range items {
		out = append(out, toResponse(&items[i]))
	}
	return out, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (AccountResponse, error) {
	if req.FirstName != nil && strings.TrimSpace(*req.FirstName) == "" {
		return AccountResponse{}, apperr.Validation("first_name must not be blank")
	}
	if req.LastName != nil && strings.TrimSpace(*req.LastName) == "" {
		return AccountResponse{}, apperr.Validation("last_name must not be blank")
	}
	if req.Email != nil {
		folded := foldEmail(*req.Email)
		if folded == "" {
			return AccountResponse{}, apperr.Validation("email must not be blank")
		}
		req.Email = &folded
	}

	if _, err := s.store.GetByID(ctx, id); err != nil {
		return AccountResponse{}, err
	}
	if err := s.store.UpdateProfile(ctx, id, req); err != nil {
		return AccountResponse{}, err
	}

	acct, err := s.store.GetByID(ctx, id)
	if err != nil {
		return AccountResponse{}, err
	}
	return toResponse(acct), nil
}

func (s *Service) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	acct, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !s.credentialMatches(ctx, acct, oldPassword) {
		return apperr.Auth()
	}
	if err := checkPasswordPolicy(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Storage(err)
	}
	return s.store.UpdatePassword(ctx, id, string(hash))
}

func (s *Service) SetRole(ctx context.Context, id, role string) error {
	if !ValidRole(role) {
		return apperr.Validation("role must be admin or staff")
	}
	return s.store.SetRoleGuarded(ctx, id, role)
}

func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	return s.store.DeleteGuarded(ctx, id)
}
