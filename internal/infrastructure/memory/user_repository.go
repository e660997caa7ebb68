package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Flota-api/internal/domain"
	"github.com/jhoicas/Flota-api/internal/domain/entity"
	"github.com/jhoicas/Flota-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct {
	a access
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	return r.a.write("usuario", user.ID, func(st *state) error {
		if _, exists := st.users[user.ID]; exists {
			return domain.ErrDuplicate
		}
		for _, u := range st.users {
			if u.Email == user.Email {
				return fmt.Errorf("%w: email %s", domain.ErrDuplicate, user.Email)
			}
		}
		st.users[user.ID] = *user
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.a.read(func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.a.read(func(st *state) error {
		for _, u := range st.users {
			if u.Email == email {
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	return r.a.write("usuario", user.ID, func(st *state) error {
		current, ok := st.users[user.ID]
		if !ok {
			return domain.ErrNotFound
		}
		u := *user
		u.Email = current.Email
		st.users[u.ID] = u
		return nil
	})
}

func (r *UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	err := r.a.read(func(st *state) error {
		byEmail := make(map[string]entity.User, len(st.users))
		for _, u := range st.users {
			byEmail[u.Email] = u
		}
		for _, email := range page(sortedKeys(byEmail), limit, offset) {
			u := byEmail[email]
			out = append(out, &u)
		}
		return nil
	})
	return out, err
}
