package session

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"storefront/internal/schema"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, in schema.Login) (schema.User, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(schema.User), args.Error(1)
}

func (m *MockAuthenticator) Signup(ctx context.Context, in schema.Signup) (schema.User, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(schema.User), args.Error(1)
}

// failingPersister fails every operation named in failOn.
type failingPersister struct {
	*MemoryPersister
	failOn map[string]bool
}

var errDisk = errors.New("disk full")

func (p *failingPersister) Load(key string) ([]byte, bool, error) {
	if p.failOn["load"] {
		return nil, false, errDisk
	}
	return p.MemoryPersister.Load(key)
}

func (p *failingPersister) Save(key string, value []byte) error {
	if p.failOn["save"] {
		return errDisk
	}
	return p.MemoryPersister.Save(key, value)
}

func (p *failingPersister) Remove(key string) error {
	if p.failOn["remove"] {
		return errDisk
	}
	return p.MemoryPersister.Remove(key)
}

var testUser = schema.User{ID: "u1", Username: "jo", Email: "jo@example.com", Token: "opaque-token"}

func savedUser(t *testing.T, p Persister, u schema.User) {
	t.Helper()
	raw, err := json.Marshal(u)
	require.NoError(t, err)
	require.NoError(t, p.Save(StorageKey, raw))
}

func jwtWithExpiry(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "u1",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return s
}

func TestReduce(t *testing.T) {
	u := testUser
	authed := State{Status: Authenticated, User: &u}

	cases := []struct {
		name  string
		from  State
		event Event
		want  Status
		user  bool
	}{
		{"LoginStartedFromAnonymous", State{}, LoginStarted{}, Loading, false},
		{"LoginStartedFromAuthenticated", authed, LoginStarted{}, Loading, false},
		{"LoginSucceeded", State{Status: Loading}, LoginSucceeded{User: testUser}, Authenticated, true},
		{"LoginFailed", State{Status: Loading}, LoginFailed{}, Anonymous, false},
		{"LoggedOut", authed, LoggedOut{}, Anonymous, false},
		{"LoggedOutTwice", State{}, LoggedOut{}, Anonymous, false},
		{"UserLoaded", Initial(), UserLoaded{User: testUser}, Authenticated, true},
		{"LoadFailed", Initial(), LoadFailed{}, Anonymous, false},
		{"UnknownEvent", authed, nil, Authenticated, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Reduce(tc.from, tc.event)
			assert.Equal(t, tc.want, got.Status)
			assert.Equal(t, tc.user, got.User != nil)
			assert.Equal(t, got.Status == Authenticated, got.IsAuthenticated())
		})
	}

	t.Run("DoesNotMutateInput", func(t *testing.T) {
		before := authed
		_ = Reduce(authed, LoggedOut{})
		assert.Equal(t, before, authed)
	})
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "anonymous", Anonymous.String())
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "authenticated", Authenticated.String())
	assert.Equal(t, "unknown", Status(9).String())
}

func TestNewStore_Restore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := WithClock(func() time.Time { return now })

	t.Run("NoSavedSession", func(t *testing.T) {
		s := NewStore(ctx, new(MockAuthenticator), NewMemoryPersister(), clock)
		assert.Equal(t, Anonymous, s.State().Status)
		assert.Nil(t, s.State().User)
	})

	t.Run("SavedSession", func(t *testing.T) {
		p := NewMemoryPersister()
		savedUser(t, p, testUser)

		s := NewStore(ctx, new(MockAuthenticator), p, clock)
		assert.True(t, s.IsAuthenticated())
		assert.Equal(t, "opaque-token", s.Token())
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		p := NewMemoryPersister()
		require.NoError(t, p.Save(StorageKey, []byte(`{"_id":`)))

		s := NewStore(ctx, new(MockAuthenticator), p, clock)
		assert.Equal(t, Anonymous, s.State().Status)
	})

	t.Run("MissingToken", func(t *testing.T) {
		p := NewMemoryPersister()
		require.NoError(t, p.Save(StorageKey, []byte(`{"_id":"u1"}`)))

		s := NewStore(ctx, new(MockAuthenticator), p, clock)
		assert.False(t, s.IsAuthenticated())
	})

	t.Run("ExpiredJWT", func(t *testing.T) {
		p := NewMemoryPersister()
		u := testUser
		u.Token = jwtWithExpiry(t, now.Add(-time.Minute))
		savedUser(t, p, u)

		s := NewStore(ctx, new(MockAuthenticator), p, clock)
		assert.False(t, s.IsAuthenticated())
	})

	t.Run("LiveJWT", func(t *testing.T) {
		p := NewMemoryPersister()
		u := testUser
		u.Token = jwtWithExpiry(t, now.Add(time.Hour))
		savedUser(t, p, u)

		s := NewStore(ctx, new(MockAuthenticator), p, clock)
		assert.True(t, s.IsAuthenticated())
	})

	t.Run("LoadError", func(t *testing.T) {
		p := &failingPersister{MemoryPersister: NewMemoryPersister(), failOn: map[string]bool{"load": true}}

		s := NewStore(ctx, new(MockAuthenticator), p, clock)
		assert.Equal(t, Anonymous, s.State().Status)
	})
}

func TestStore_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		api := new(MockAuthenticator)
		p := NewMemoryPersister()
		api.On("Login", ctx, schema.Login{Email: "jo@example.com", Password: "pw"}).Return(testUser, nil)

		s := NewStore(ctx, api, p)
		require.NoError(t, s.Login(ctx, "jo@example.com", "pw"))

		assert.True(t, s.IsAuthenticated())
		u, ok := s.User()
		assert.True(t, ok)
		assert.Equal(t, testUser, u)

		raw, ok, err := p.Load(StorageKey)
		require.NoError(t, err)
		require.True(t, ok)
		saved, err := schema.ParseUser(raw)
		require.NoError(t, err)
		assert.Equal(t, testUser, saved)
		api.AssertExpectations(t)
	})

	t.Run("FailureLeavesStorageUntouched", func(t *testing.T) {
		api := new(MockAuthenticator)
		p := NewMemoryPersister()
		wantErr := errors.New("incorrect email or password")
		api.On("Login", ctx, mock.Anything).Return(schema.User{}, wantErr)

		s := NewStore(ctx, api, p)
		err := s.Login(ctx, "jo@example.com", "bad")

		assert.Equal(t, wantErr, err)
		assert.Equal(t, Anonymous, s.State().Status)
		_, ok, _ := p.Load(StorageKey)
		assert.False(t, ok)
	})

	t.Run("FailureAfterPreviousSessionKeepsOldEntry", func(t *testing.T) {
		api := new(MockAuthenticator)
		p := NewMemoryPersister()
		savedUser(t, p, testUser)
		api.On("Login", ctx, mock.Anything).Return(schema.User{}, errors.New("nope"))

		s := NewStore(ctx, api, p)
		require.True(t, s.IsAuthenticated())

		assert.Error(t, s.Login(ctx, "other@example.com", "pw"))
		assert.False(t, s.IsAuthenticated())
		_, ok, _ := p.Load(StorageKey)
		assert.True(t, ok)
	})

	t.Run("PersistFailure", func(t *testing.T) {
		api := new(MockAuthenticator)
		p := &failingPersister{MemoryPersister: NewMemoryPersister(), failOn: map[string]bool{"save": true}}
		api.On("Login", ctx, mock.Anything).Return(testUser, nil)

		s := NewStore(ctx, api, p)
		err := s.Login(ctx, "jo@example.com", "pw")

		assert.ErrorIs(t, err, errDisk)
		assert.False(t, s.IsAuthenticated())
	})
}

func TestStore_Signup(t *testing.T) {
	ctx := context.Background()
	api := new(MockAuthenticator)
	p := NewMemoryPersister()
	admin := testUser
	admin.Admin = true
	api.On("Signup", ctx, schema.Signup{Username: "jo", Email: "jo@example.com", Password: "12345678"}).Return(admin, nil)

	s := NewStore(ctx, api, p)
	require.NoError(t, s.Signup(ctx, "jo", "jo@example.com", "12345678"))

	assert.True(t, s.IsAuthenticated())
	assert.True(t, s.IsAdmin())
	api.AssertExpectations(t)
}

func TestStore_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("Idempotent", func(t *testing.T) {
		p := NewMemoryPersister()
		savedUser(t, p, testUser)
		s := NewStore(ctx, new(MockAuthenticator), p)
		require.True(t, s.IsAuthenticated())

		s.Logout()
		assert.Equal(t, Anonymous, s.State().Status)
		assert.Equal(t, "", s.Token())
		s.Logout()
		assert.Equal(t, Anonymous, s.State().Status)

		_, ok, _ := p.Load(StorageKey)
		assert.False(t, ok)
	})

	t.Run("StorageErrorIgnored", func(t *testing.T) {
		p := &failingPersister{MemoryPersister: NewMemoryPersister(), failOn: map[string]bool{"remove": true}}
		s := NewStore(ctx, new(MockAuthenticator), p)

		assert.NotPanics(t, s.Logout)
		assert.False(t, s.IsAuthenticated())
		assert.False(t, s.IsAdmin())
	})
}

func TestStore_StateIsACopy(t *testing.T) {
	p := NewMemoryPersister()
	savedUser(t, p, testUser)
	s := NewStore(context.Background(), new(MockAuthenticator), p)

	st := s.State()
	st.User.Token = "tampered"

	assert.Equal(t, "opaque-token", s.Token())
}

func TestFilePersister(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	p := NewFilePersister(dir)

	_, ok, err := p.Load(StorageKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, p.Save(StorageKey, []byte(`{"a":1}`)))
	require.NoError(t, p.Save(StorageKey, []byte(`{"a":2}`)))

	v, ok, err := p.Load(StorageKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"a":2}`, string(v))

	info, err := os.Stat(filepath.Join(dir, StorageKey+".json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, p.Remove(StorageKey))
	require.NoError(t, p.Remove(StorageKey))
	_, ok, err = p.Load(StorageKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()

	assert.False(t, tokenExpired("opaque", now))
	assert.False(t, tokenExpired(jwtWithExpiry(t, now.Add(time.Hour)), now))
	assert.True(t, tokenExpired(jwtWithExpiry(t, now.Add(-time.Hour)), now))

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": "u1"}).SignedString([]byte("k"))
	require.NoError(t, err)
	assert.False(t, tokenExpired(noExp, now))
}
