package repository

import (
	"context"
	"sync"
	"time"

	"github.com/harentsoaR/hospital-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryUserRepository keeps users in process. It enforces the same unique
// email rule as the MongoDB index and is meant for tests and local runs.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users []models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{}
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string, withPassword bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return project(u, withPassword), nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.ID == oid {
			return project(u, false), nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepository) FindByRole(_ context.Context, role models.Role) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]models.User, 0)
	for _, u := range r.users {
		if u.Role == role {
			users = append(users, *project(u, false))
		}
	}
	return users, nil
}

func (r *MemoryUserRepository) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	r.users = append(r.users, *u)
	return nil
}

func (r *MemoryUserRepository) Ping(context.Context) error {
	return nil
}

// Len reports how many users are stored.
func (r *MemoryUserRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

func project(u models.User, withPassword bool) *models.User {
	if !withPassword {
		u.Password = ""
	}
	if u.DocAvatar != nil {
		avatar := *u.DocAvatar
		u.DocAvatar = &avatar
	}
	return &u
}
