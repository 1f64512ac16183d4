package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/dailysplit/internal/metrics"
	"github.com/mmynk/dailysplit/internal/state"
	"github.com/mmynk/dailysplit/internal/storage"
	"github.com/mmynk/dailysplit/internal/storage/memory"
)

// Wednesday.
var testNow = time.Date(2024, time.June, 12, 9, 30, 0, 0, time.UTC)

var errStoreDown = errors.New("store unavailable")

// flakyStore wraps a memory store and fails every write while down is set.
type flakyStore struct {
	*memory.Store
	mu   sync.Mutex
	down bool
}

func (f *flakyStore) setDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = down
}

func (f *flakyStore) isDown() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.down
}

func (f *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	if f.isDown() {
		return errStoreDown
	}
	return f.Store.Set(ctx, key, value)
}

func (f *flakyStore) SetMany(ctx context.Context, entries []storage.Entry) error {
	if f.isDown() {
		return errStoreDown
	}
	return f.Store.SetMany(ctx, entries)
}

func (f *flakyStore) Remove(ctx context.Context, key string) error {
	if f.isDown() {
		return errStoreDown
	}
	return f.Store.Remove(ctx, key)
}

// sequentialCodes hands out the given codes in order, then fails.
func sequentialCodes(codes ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		if i >= len(codes) {
			return "", fmt.Errorf("no more codes")
		}
		code := codes[i]
		i++
		return code, nil
	}
}

type testEnv struct {
	session *Session
	store   *flakyStore
	metrics *metrics.Metrics
}

func setupTestSession(t *testing.T, opts ...Option) *testEnv {
	t.Helper()

	store := &flakyStore{Store: memory.New()}
	m := metrics.New(prometheus.NewRegistry())

	defaults := []Option{
		WithClock(func() time.Time { return testNow }),
		WithMetrics(m),
		WithAccessCodeGenerator(sequentialCodes("DORM4B", "TRIP24", "FLAT01")),
	}
	session, err := NewSession(context.Background(), state.NewRepository(store), append(defaults, opts...)...)
	require.NoError(t, err)

	return &testEnv{session: session, store: store, metrics: m}
}

// reload opens a second session over the same store.
func (e *testEnv) reload(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(context.Background(), state.NewRepository(e.store),
		WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	return s
}

// seedGroup registers Alice as the bootstrap admin, creates "Dorm 4B" and joins Bob
// and Carol with its access code. Alice is logged back in at the end.
func seedGroup(t *testing.T, s *Session) (alice, bob, carol string) {
	t.Helper()
	ctx := context.Background()

	a, err := s.Register(ctx, RegisterRequest{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)
	g, err := s.CreateGroup(ctx, CreateGroupRequest{Name: "Dorm 4B"})
	require.NoError(t, err)

	b, err := s.Register(ctx, RegisterRequest{Name: "Bob", Email: "bob@example.com", AccessCode: g.AccessCode})
	require.NoError(t, err)
	c, err := s.Register(ctx, RegisterRequest{Name: "Carol", Email: "carol@example.com", AccessCode: g.AccessCode})
	require.NoError(t, err)

	_, err = s.Login(ctx, "Alice", "alice@example.com")
	require.NoError(t, err)

	return a.ID, b.ID, c.ID
}

func TestNewSession_DropsDanglingCurrentGroup(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Set(ctx, state.KeyCurrentGroupID, []byte(`"gone"`)))

	s, err := NewSession(ctx, state.NewRepository(store))
	require.NoError(t, err)

	_, err = s.ActiveGroup()
	require.ErrorIs(t, err, ErrNoActiveGroup)
}

func TestSession_StateSurvivesReload(t *testing.T) {
	env := setupTestSession(t)
	alice, bob, _ := seedGroup(t, env.session)

	reloaded := env.reload(t)

	require.NotNil(t, reloaded.CurrentUser())
	require.Equal(t, alice, reloaded.CurrentUser().ID)

	g, err := reloaded.ActiveGroup()
	require.NoError(t, err)
	require.Equal(t, "Dorm 4B", g.Name)
	require.Len(t, g.Users, 3)
	require.True(t, g.HasMember(bob))
}

func TestKind(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		kind     string
		userFail bool
	}{
		{"nil", nil, "", false},
		{"validation", invalid("name", "is required"), "validation", true},
		{"wrapped access code", fmt.Errorf("register: %w", ErrInvalidAccessCode), "invalid_access_code", true},
		{"permission", ErrPermissionDenied, "permission_denied", true},
		{"not found", ErrExpenseNotFound, "not_found", true},
		{"persistence", &PersistenceError{Op: "add_expense", Err: errStoreDown}, "persistence", false},
		{"report", fmt.Errorf("%w: boom", ErrReportGeneration), "report", false},
		{"unknown", errors.New("boom"), "internal", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.kind, Kind(tt.err))
			require.Equal(t, tt.userFail, IsUserError(tt.err))
		})
	}
}

func TestPersistenceError_Unwraps(t *testing.T) {
	err := error(&PersistenceError{Op: "login", Err: errStoreDown})

	require.ErrorIs(t, err, ErrPersistence)
	require.ErrorIs(t, err, errStoreDown)

	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "login", pe.Op)
}
