package users

import (
	"context"
	"sync"

	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/google/uuid"
)

// PasswordHasher is satisfied by security.Hasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// Directory is the in-memory account store.
type Directory struct {
	mu      sync.RWMutex
	hasher  PasswordHasher
	byID    map[string]User
	byEmail map[string]string
}

// NewDirectory builds an empty directory that hashes credentials with hasher.
func NewDirectory(hasher PasswordHasher) (*Directory, error) {
	if hasher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password hasher is required")
	}
	return &Directory{
		hasher:  hasher,
		byID:    map[string]User{},
		byEmail: map[string]string{},
	}, nil
}

// Seed inserts a pre-built user, hashing its plain password. Seed ids are kept as-is.
func (d *Directory) Seed(user User, password string) error {
	hash, err := d.hasher.Hash(password)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash seed password")
	}
	user.PasswordHash = hash
	return d.insert(user)
}

// Create registers a new account. Duplicate emails are rejected with CONFLICT.
func (d *Directory) Create(_ context.Context, input CreateUserInput) (User, error) {
	if !input.Role.IsValid() {
		return User{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	if normalizeEmail(input.Email) == "" {
		return User{}, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	hash, err := d.hasher.Hash(input.Password)
	if err != nil {
		return User{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	user := User{
		ID:           uuid.NewString(),
		FullName:     input.FullName,
		Email:        normalizeEmail(input.Email),
		CompanyName:  input.CompanyName,
		Role:         input.Role,
		PasswordHash: hash,
	}
	if err := d.insert(user); err != nil {
		return User{}, err
	}
	return user, nil
}

func (d *Directory) insert(user User) error {
	email := normalizeEmail(user.Email)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.byEmail[email]; exists {
		return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	}
	user.Email = email
	d.byID[user.ID] = user
	d.byEmail[email] = user.ID
	return nil
}

// FindByEmail looks up an account by email, case-insensitively.
func (d *Directory) FindByEmail(_ context.Context, email string) (User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	id, ok := d.byEmail[normalizeEmail(email)]
	if !ok {
		return User{}, false
	}
	return d.byID[id], true
}

// FindByID looks up an account by id.
func (d *Directory) FindByID(_ context.Context, id string) (User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	user, ok := d.byID[id]
	return user, ok
}

// Authenticate compares credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (d *Directory) Authenticate(ctx context.Context, email, password string) (User, error) {
	user, ok := d.FindByEmail(ctx, email)
	if !ok {
		return User{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	match, err := d.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return User{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !match {
		return User{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	return user, nil
}

// Count returns the number of registered accounts.
func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byID)
}
