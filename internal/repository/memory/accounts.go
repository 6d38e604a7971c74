package memory

import (
	"context"
	"strings"
	"time"

	"adminhub/internal/domain"
	"adminhub/internal/repository"
)

type userRepo struct {
	a   access
	now func() time.Time
}

func (st *state) emailTaken(email string, except uint64) bool {
	for id, u := range st.users {
		if id != except && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (r *userRepo) Create(_ context.Context, u *domain.User) error {
	return r.a(func(st *state) error {
		if st.emailTaken(u.Email, 0) {
			return repository.ErrDuplicate
		}
		u.ID = st.nextID("users")
		stamp(&u.CreatedAt, &u.UpdatedAt, r.now())
		st.users[u.ID] = *u
		return nil
	})
}

func (r *userRepo) Update(_ context.Context, u *domain.User) error {
	return r.a(func(st *state) error {
		cur, ok := st.users[u.ID]
		if !ok {
			return repository.ErrNotFound
		}
		if st.emailTaken(u.Email, u.ID) {
			return repository.ErrDuplicate
		}
		u.CreatedAt = cur.CreatedAt
		u.UpdatedAt = r.now()
		st.users[u.ID] = *u
		return nil
	})
}

func (r *userRepo) Delete(_ context.Context, id uint64) error {
	return r.a(func(st *state) error {
		if _, ok := st.users[id]; !ok {
			return repository.ErrNotFound
		}
		delete(st.users, id)
		return nil
	})
}

func (r *userRepo) FindByID(_ context.Context, id uint64) (*domain.User, error) {
	var out domain.User
	err := r.a(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	var out *domain.User
	err := r.a(func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
				u := u
				out = &u
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *userRepo) List(_ context.Context, f domain.UserFilter) ([]domain.User, error) {
	var out []domain.User
	err := r.a(func(st *state) error {
		for _, u := range st.users {
			if f.Department != "" && u.Department != f.Department {
				continue
			}
			if f.Search != "" && !contains(u.Name, f.Search) && !contains(u.Email, f.Search) && !contains(u.Position, f.Search) {
				continue
			}
			out = append(out, u)
		}
		newestFirst(out, func(u domain.User) time.Time { return u.CreatedAt }, func(u domain.User) uint64 { return u.ID })
		return nil
	})
	return out, err
}

func (r *userRepo) CountByRole(_ context.Context, role domain.Role) (int64, error) {
	var n int64
	err := r.a(func(st *state) error {
		for _, u := range st.users {
			if u.Role == role {
				n++
			}
		}
		return nil
	})
	return n, err
}

type notificationRepo struct {
	a   access
	now func() time.Time
}

func (r *notificationRepo) Create(_ context.Context, n *domain.Notification) error {
	return r.a(func(st *state) error {
		n.ID = st.nextID("notifications")
		stamp(&n.CreatedAt, &n.UpdatedAt, r.now())
		st.notifications[n.ID] = *n
		return nil
	})
}

func (r *notificationRepo) Update(_ context.Context, n *domain.Notification) error {
	return r.a(func(st *state) error {
		if _, ok := st.notifications[n.ID]; !ok {
			return repository.ErrNotFound
		}
		n.UpdatedAt = r.now()
		st.notifications[n.ID] = *n
		return nil
	})
}

func (r *notificationRepo) Delete(_ context.Context, id uint64) error {
	return r.a(func(st *state) error {
		if _, ok := st.notifications[id]; !ok {
			return repository.ErrNotFound
		}
		delete(st.notifications, id)
		return nil
	})
}

func (r *notificationRepo) FindByID(_ context.Context, id uint64) (*domain.Notification, error) {
	var out domain.Notification
	err := r.a(func(st *state) error {
		n, ok := st.notifications[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *notificationRepo) ListByUser(_ context.Context, userID uint64, limit int) ([]domain.Notification, error) {
	var out []domain.Notification
	err := r.a(func(st *state) error {
		for _, n := range st.notifications {
			if n.UserID == userID {
				out = append(out, n)
			}
		}
		newestFirst(out, func(n domain.Notification) time.Time { return n.CreatedAt }, func(n domain.Notification) uint64 { return n.ID })
		if len(out) > limit {
			out = out[:limit]
		}
		return nil
	})
	return out, err
}

type settingsRepo struct {
	a   access
	now func() time.Time
}

func (r *settingsRepo) Get(_ context.Context) (*domain.Settings, error) {
	var out domain.Settings
	err := r.a(func(st *state) error {
		if st.settings == nil {
			return repository.ErrNotFound
		}
		out = *st.settings
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *settingsRepo) Save(_ context.Context, s *domain.Settings) error {
	return r.a(func(st *state) error {
		if s.ID == 0 {
			s.ID = 1
		}
		stamp(&s.CreatedAt, &s.UpdatedAt, r.now())
		stored := *s
		st.settings = &stored
		return nil
	})
}
