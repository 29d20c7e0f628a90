package testutil

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/loreycode/cms-api/internal/mail"
	"github.com/loreycode/cms-api/internal/store"
	"github.com/loreycode/cms-api/types"
)

// Users is an in-memory services.UserRepository.
type Users struct {
	mu    sync.Mutex
	users map[string]types.User
}

func NewUsers(users ...types.User) *Users {
	u := &Users{users: map[string]types.User{}}
	for _, user := range users {
		u.users[user.ID] = user
	}
	return u
}

func (u *Users) GetByID(_ context.Context, id string) (types.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (u *Users) GetByEmail(_ context.Context, email string) (types.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, user := range u.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (u *Users) Create(_ context.Context, user types.User) (types.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, existing := range u.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return types.User{}, store.ErrConflict
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	u.users[user.ID] = user
	return user, nil
}

// Settings is an in-memory services.SettingRepository with upsert semantics
// matching the SQL implementation.
type Settings struct {
	mu       sync.Mutex
	settings map[string]types.SiteSetting
	now      func() time.Time
}

func NewSettings() *Settings {
	return &Settings{settings: map[string]types.SiteSetting{}, now: time.Now}
}

func (s *Settings) List(_ context.Context, byKey bool) ([]types.SiteSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]types.SiteSetting, 0, len(s.settings))
	for _, v := range s.settings {
		items = append(items, v)
	}
	sort.Slice(items, func(i, j int) bool {
		if !byKey && !items[i].UpdatedAt.Equal(items[j].UpdatedAt) {
			return items[i].UpdatedAt.After(items[j].UpdatedAt)
		}
		return items[i].Key < items[j].Key
	})
	return items, nil
}

func (s *Settings) Get(_ context.Context, key string) (types.SiteSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.settings[key]
	if !ok {
		return types.SiteSetting{}, store.ErrNotFound
	}
	return v, nil
}

func (s *Settings) Upsert(_ context.Context, key, value string, typ, description *string) (types.SiteSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, exists := s.settings[key]
	if !exists {
		current = types.SiteSetting{Key: key, Type: types.DefaultSettingType}
	}
	current.Value = value
	if typ != nil {
		current.Type = *typ
	}
	if description != nil {
		d := *description
		current.Description = &d
	}
	current.UpdatedAt = s.now().UTC()
	s.settings[key] = current
	return current, nil
}

// Mailer records sent messages and fails when Err is set.
type Mailer struct {
	mu   sync.Mutex
	Sent []mail.Message
	Err  error
	// FailAfter makes every send after the first n fail with Err. Zero fails all.
	FailAfter int
}

var ErrMailDown = errors.New("smtp unavailable")

func (m *Mailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil && len(m.Sent) >= m.FailAfter {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

// Publisher records published payloads by channel.
type Publisher struct {
	mu       sync.Mutex
	Messages map[string][][]byte
}

func NewPublisher() *Publisher {
	return &Publisher{Messages: map[string][][]byte{}}
}

func (p *Publisher) Publish(_ context.Context, channel string, data []byte, _ map[string]string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Messages[channel] = append(p.Messages[channel], data)
	return uuid.NewString(), nil
}

func (p *Publisher) Count(channel string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Messages[channel])
}
