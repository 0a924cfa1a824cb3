package users

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesafood/mesafood-backend/pkg/config"
	"github.com/mesafood/mesafood-backend/pkg/db/models"
	"github.com/mesafood/mesafood-backend/pkg/enums"
	pkgerrors "github.com/mesafood/mesafood-backend/pkg/errors"
	"github.com/mesafood/mesafood-backend/pkg/security"
	"github.com/mesafood/mesafood-backend/pkg/types"
)

var testJWTCfg = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "mesafood",
	ExpirationMinutes: 60,
}

// Low cost keeps the bcrypt-heavy tests fast.
var testPasswordCfg = config.PasswordConfig{BcryptCost: 4}

type stubUserRepo struct {
	user      *models.User
	findErr   error
	createErr error
	saveErr   error
	deleteErr error

	created *models.User
	saved   *models.User
	deleted []uuid.UUID
}

func (s *stubUserRepo) Create(_ context.Context, user *models.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	user.ID = uuid.New()
	s.created = user
	return nil
}

func (s *stubUserRepo) FindActiveByEmail(context.Context, string) (*models.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.user, nil
}

func (s *stubUserRepo) FindActiveByID(context.Context, uuid.UUID) (*models.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.user, nil
}

func (s *stubUserRepo) Save(_ context.Context, user *models.User) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = user
	return nil
}

func (s *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, id)
	return nil
}

type stubBlobStore struct {
	uploadErr  error
	resolveErr error

	uploaded []string
	deleted  []string
}

func (s *stubBlobStore) Upload(_ context.Context, key, _ string, _ []byte) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.uploaded = append(s.uploaded, key)
	return key, nil
}

func (s *stubBlobStore) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *stubBlobStore) ResolveURL(_ context.Context, key string) (string, error) {
	if s.resolveErr != nil {
		return "", s.resolveErr
	}
	return "https://cdn.example.com/" + key, nil
}

func newTestService(t *testing.T, repo *stubUserRepo, blobs *stubBlobStore) Service {
	t.Helper()
	svc, err := NewService(repo, blobs, testJWTCfg, testPasswordCfg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func baseUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordCfg)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		ID:           uuid.New(),
		Name:         "ada",
		Email:        "ada@example.com",
		PasswordHash: hash,
	}
}

func TestSignupNormalizesAndMintsToken(t *testing.T) {
	repo := &stubUserRepo{}
	blobs := &stubBlobStore{}
	svc := newTestService(t, repo, blobs)

	result, err := svc.Signup(context.Background(), SignupInput{
		Name:     "  Ada Lovelace ",
		Email:    " Ada@Example.COM ",
		Password: "s3cret",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if repo.created.Name != "ada lovelace" {
		t.Fatalf("name not normalized: %q", repo.created.Name)
	}
	if repo.created.Email != "ada@example.com" {
		t.Fatalf("email not normalized: %q", repo.created.Email)
	}
	if repo.created.PasswordHash == "s3cret" || repo.created.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}
	if result.Token == "" {
		t.Fatal("expected a minted token")
	}
	if result.User.ProfileImageURL != nil {
		t.Fatal("no image uploaded, url must be nil")
	}
}

func TestSignupUploadsProfileImage(t *testing.T) {
	repo := &stubUserRepo{}
	blobs := &stubBlobStore{}
	svc := newTestService(t, repo, blobs)

	result, err := svc.Signup(context.Background(), SignupInput{
		Name:     "ada",
		Email:    "ada@example.com",
		Password: "s3cret",
		ProfileImage: &types.Upload{
			FileName:    "me.png",
			ContentType: "image/png",
			Data:        []byte("png-bytes"),
		},
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if len(blobs.uploaded) != 1 || !strings.HasPrefix(blobs.uploaded[0], "users/") {
		t.Fatalf("expected one upload under users/, got %v", blobs.uploaded)
	}
	if result.User.ProfileImageURL == nil || !strings.Contains(*result.User.ProfileImageURL, blobs.uploaded[0]) {
		t.Fatalf("expected resolved url for uploaded key, got %v", result.User.ProfileImageURL)
	}
	if repo.created.ProfileImageKey == nil || *repo.created.ProfileImageKey != blobs.uploaded[0] {
		t.Fatal("stored key must match the uploaded key")
	}
}

func TestSignupCleansUpBlobWhenCreateFails(t *testing.T) {
	repo := &stubUserRepo{createErr: errors.New("insert failed")}
	blobs := &stubBlobStore{}
	svc := newTestService(t, repo, blobs)

	_, err := svc.Signup(context.Background(), SignupInput{
		Name:     "ada",
		Email:    "ada@example.com",
		Password: "s3cret",
		ProfileImage: &types.Upload{
			FileName: "me.png",
			Data:     []byte("png-bytes"),
		},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(blobs.deleted) != 1 || blobs.deleted[0] != blobs.uploaded[0] {
		t.Fatalf("uploaded blob must be deleted on failure, got %v", blobs.deleted)
	}
}

func TestSignupRejectsInvalidInput(t *testing.T) {
	svc := newTestService(t, &stubUserRepo{}, &stubBlobStore{})

	badRole := enums.UserRole("chef")
	cases := []SignupInput{
		{Name: "", Email: "a@b.com", Password: "x"},
		{Name: "ada", Email: "not-an-email", Password: "x"},
		{Name: "ada", Email: "a@b.com", Password: "x", Role: &badRole},
	}
	for _, input := range cases {
		_, err := svc.Signup(context.Background(), input)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %+v, got %v", input, err)
		}
	}
}

func TestLoginUnknownEmailIsNotFound(t *testing.T) {
	repo := &stubUserRepo{findErr: gorm.ErrRecordNotFound}
	svc := newTestService(t, repo, &stubBlobStore{})

	_, err := svc.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "x"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLoginWrongPasswordIsUnauthorized(t *testing.T) {
	repo := &stubUserRepo{user: baseUser(t, "right-password")}
	svc := newTestService(t, repo, &stubBlobStore{})

	_, err := svc.Login(context.Background(), LoginInput{Email: "ada@example.com", Password: "wrong"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginSuccessReturnsTokenAndUser(t *testing.T) {
	user := baseUser(t, "right-password")
	repo := &stubUserRepo{user: user}
	svc := newTestService(t, repo, &stubBlobStore{})

	result, err := svc.Login(context.Background(), LoginInput{Email: "ada@example.com", Password: "right-password"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected token")
	}
	if result.User.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, result.User.ID)
	}
}

func TestUpdateRejectsForeignAccount(t *testing.T) {
	svc := newTestService(t, &stubUserRepo{}, &stubBlobStore{})

	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), UpdateInput{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestUpdateEqualPasswordsFailBeforeHashCompare(t *testing.T) {
	user := baseUser(t, "current")
	repo := &stubUserRepo{user: user}
	svc := newTestService(t, repo, &stubBlobStore{})

	// The stored hash does not match "same", so reaching the hash comparison
	// would produce Unauthorized instead of Validation.
	_, err := svc.Update(context.Background(), user.ID, user.ID, UpdateInput{
		NewPassword:     "same",
		CurrentPassword: "same",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateWrongCurrentPasswordIsUnauthorized(t *testing.T) {
	user := baseUser(t, "current")
	repo := &stubUserRepo{user: user}
	svc := newTestService(t, repo, &stubBlobStore{})

	_, err := svc.Update(context.Background(), user.ID, user.ID, UpdateInput{
		NewPassword:     "fresh",
		CurrentPassword: "wrong",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestUpdateChangesPasswordAndName(t *testing.T) {
	user := baseUser(t, "current")
	oldHash := user.PasswordHash
	repo := &stubUserRepo{user: user}
	svc := newTestService(t, repo, &stubBlobStore{})

	newName := " Ada Byron "
	dto, err := svc.Update(context.Background(), user.ID, user.ID, UpdateInput{
		Name:            &newName,
		NewPassword:     "fresh",
		CurrentPassword: "current",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Name != "ada byron" {
		t.Fatalf("name not normalized: %q", dto.Name)
	}
	if repo.saved.PasswordHash == oldHash {
		t.Fatal("password hash must change")
	}
	if ok, _ := security.VerifyPassword("fresh", repo.saved.PasswordHash); !ok {
		t.Fatal("new password must verify against stored hash")
	}
}

func TestUpdateReplacesProfileImage(t *testing.T) {
	user := baseUser(t, "current")
	oldKey := "users/1-old.png"
	user.ProfileImageKey = &oldKey
	repo := &stubUserRepo{user: user}
	blobs := &stubBlobStore{}
	svc := newTestService(t, repo, blobs)

	dto, err := svc.Update(context.Background(), user.ID, user.ID, UpdateInput{
		ProfileImage: &types.Upload{FileName: "new.png", Data: []byte("x")},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(blobs.uploaded) != 1 {
		t.Fatalf("expected one upload, got %v", blobs.uploaded)
	}
	if len(blobs.deleted) != 1 || blobs.deleted[0] != oldKey {
		t.Fatalf("previous image must be deleted, got %v", blobs.deleted)
	}
	if dto.ProfileImageURL == nil || !strings.Contains(*dto.ProfileImageURL, blobs.uploaded[0]) {
		t.Fatalf("expected new resolved url, got %v", dto.ProfileImageURL)
	}
}

func TestSoftDeleteOwnerOnly(t *testing.T) {
	repo := &stubUserRepo{}
	svc := newTestService(t, repo, &stubBlobStore{})

	if err := svc.SoftDelete(context.Background(), uuid.New(), uuid.New()); err == nil {
		t.Fatal("expected forbidden")
	}

	id := uuid.New()
	if err := svc.SoftDelete(context.Background(), id, id); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != id {
		t.Fatalf("expected soft delete of %s, got %v", id, repo.deleted)
	}
}

func TestSoftDeleteMissingUserIsNotFound(t *testing.T) {
	repo := &stubUserRepo{deleteErr: gorm.ErrRecordNotFound}
	svc := newTestService(t, repo, &stubBlobStore{})

	id := uuid.New()
	err := svc.SoftDelete(context.Background(), id, id)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
