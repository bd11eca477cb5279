package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/AlekseevAleksey/testAuth/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubTokenRepo struct {
	mu      sync.Mutex
	bySer   map[string]domain.LoginToken
	ctErr   error // if set, CreateToken returns this error once
	rotErr  error // if set, RotateToken returns this error
	lookErr error // if set, LookupBySeries returns this error
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{bySer: make(map[string]domain.LoginToken)}
}

func (r *stubTokenRepo) CreateToken(_ context.Context, token *domain.LoginToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ctErr != nil {
		err := r.ctErr
		r.ctErr = nil
		return err
	}
	if _, exists := r.bySer[token.Series]; exists {
		return domain.ErrSeriesExists
	}
	r.bySer[token.Series] = *token
	return nil
}

func (r *stubTokenRepo) LookupBySeries(_ context.Context, series string) (*domain.LoginToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lookErr != nil {
		return nil, r.lookErr
	}
	lt, ok := r.bySer[series]
	if !ok {
		return nil, domain.ErrTokenNotFound
	}
	clone := lt
	return &clone, nil
}

func (r *stubTokenRepo) RotateToken(_ context.Context, series, newToken string, lastUsed time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rotErr != nil {
		return r.rotErr
	}
	lt, ok := r.bySer[series]
	if !ok {
		return domain.ErrTokenNotFound
	}
	lt.Token = newToken
	lt.LastUsed = lastUsed
	r.bySer[series] = lt
	return nil
}

func (r *stubTokenRepo) InvalidateAllForUser(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for s, lt := range r.bySer {
		if lt.Username == username {
			delete(r.bySer, s)
		}
	}
	return nil
}

func (r *stubTokenRepo) rowsFor(username string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, lt := range r.bySer {
		if lt.Username == username {
			n++
		}
	}
	return n
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// seqKeyGenerator hands out a fixed sequence of values, then fails.
type seqKeyGenerator struct {
	mu     sync.Mutex
	values []string
	next   int
}

func (g *seqKeyGenerator) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.next >= len(g.values) {
		return "", errors.New("generator exhausted")
	}
	v := g.values[g.next]
	g.next++
	return v, nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var testClock = fixedClock{now: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)}

func newService(repo *stubTokenRepo, gen *seqKeyGenerator) *RememberMeService {
	return NewRememberMeService(repo, gen, testClock, zerolog.Nop())
}

// counterKeyGenerator never runs out; used by concurrency tests.
type counterKeyGenerator struct {
	mu sync.Mutex
	n  int
}

func (g *counterKeyGenerator) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("key-%04d", g.n), nil
}

// ---------------------------------------------------------------------------
// OnLoginSuccess tests
// ---------------------------------------------------------------------------

func TestRememberMe_LoginSuccess_CreatesLineage(t *testing.T) {
	repo := newStubTokenRepo()
	svc := newService(repo, &seqKeyGenerator{values: []string{"s1", "t1"}})

	lt, err := svc.OnLoginSuccess(context.Background(), "alice")
	if err != nil {
		t.Fatalf("OnLoginSuccess returned error: %v", err)
	}
	if lt.Series != "s1" || lt.Token != "t1" || lt.Username != "alice" {
		t.Fatalf("unexpected token: %+v", lt)
	}
	if !lt.LastUsed.Equal(testClock.now) {
		t.Fatalf("expected last used %v, got %v", testClock.now, lt.LastUsed)
	}
	if repo.rowsFor("alice") != 1 {
		t.Fatalf("expected one stored row, got %d", repo.rowsFor("alice"))
	}
}

func TestRememberMe_LoginSuccess_SeriesConflictRetriesOnce(t *testing.T) {
	repo := newStubTokenRepo()
	repo.bySer["s1"] = domain.LoginToken{Series: "s1", Token: "old", Username: "bob"}
	svc := newService(repo, &seqKeyGenerator{values: []string{"s1", "t1", "s2", "t2"}})

	lt, err := svc.OnLoginSuccess(context.Background(), "alice")
	if err != nil {
		t.Fatalf("OnLoginSuccess returned error: %v", err)
	}
	if lt.Series != "s2" || lt.Token != "t2" {
		t.Fatalf("expected regenerated pair, got %+v", lt)
	}
}

func TestRememberMe_LoginSuccess_RepeatedConflictEscalates(t *testing.T) {
	repo := newStubTokenRepo()
	repo.bySer["s1"] = domain.LoginToken{Series: "s1", Username: "bob"}
	repo.bySer["s2"] = domain.LoginToken{Series: "s2", Username: "bob"}
	svc := newService(repo, &seqKeyGenerator{values: []string{"s1", "t1", "s2", "t2"}})

	_, err := svc.OnLoginSuccess(context.Background(), "alice")
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// OnRememberedRequest tests
// ---------------------------------------------------------------------------

func TestRememberMe_Remembered_RotatesAndReplayIsRejected(t *testing.T) {
	repo := newStubTokenRepo()
	svc := newService(repo, &seqKeyGenerator{values: []string{"s1", "t1", "t2"}})
	ctx := context.Background()

	lt, err := svc.OnLoginSuccess(ctx, "alice")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	res, err := svc.OnRememberedRequest(ctx, lt.Series, lt.Token)
	if err != nil {
		t.Fatalf("remembered request failed: %v", err)
	}
	if !res.Renewed {
		t.Fatalf("expected renewal, got %+v", res)
	}
	if res.NewToken == lt.Token {
		t.Fatalf("expected a fresh token, got the presented one")
	}
	if res.Username != "alice" {
		t.Fatalf("unexpected username %q", res.Username)
	}

	// Replaying the superseded token is a theft signal: every lineage for the
	// user is destroyed.
	res, err = svc.OnRememberedRequest(ctx, lt.Series, lt.Token)
	if err != nil {
		t.Fatalf("replay request errored: %v", err)
	}
	if res.Renewed {
		t.Fatalf("expected rejection for replayed token")
	}
	if repo.rowsFor("alice") != 0 {
		t.Fatalf("expected zero rows after theft, got %d", repo.rowsFor("alice"))
	}

	// Neither the stale nor the rotated token works afterwards.
	res, err = svc.OnRememberedRequest(ctx, lt.Series, "t2")
	if err != nil {
		t.Fatalf("post-theft request errored: %v", err)
	}
	if res.Renewed {
		t.Fatalf("expected rejection after invalidation")
	}
}

func TestRememberMe_Remembered_UnknownSeriesIsNotAnError(t *testing.T) {
	repo := newStubTokenRepo()
	svc := newService(repo, &seqKeyGenerator{})

	res, err := svc.OnRememberedRequest(context.Background(), "missing", "whatever")
	if err != nil {
		t.Fatalf("unknown series should not error: %v", err)
	}
	if res.Renewed {
		t.Fatalf("expected rejection for unknown series")
	}
	if res.Username != "" {
		t.Fatalf("unknown series must not leak a username, got %q", res.Username)
	}
}

func TestRememberMe_Remembered_TheftInvalidatesAllSeriesOfUser(t *testing.T) {
	repo := newStubTokenRepo()
	svc := newService(repo, &seqKeyGenerator{values: []string{"s1", "t1", "s2", "t2"}})
	ctx := context.Background()

	// Two independent lineages (two browsers) for the same user.
	first, _ := svc.OnLoginSuccess(ctx, "alice")
	if _, err := svc.OnLoginSuccess(ctx, "alice"); err != nil {
		t.Fatalf("second login failed: %v", err)
	}

	res, err := svc.OnRememberedRequest(ctx, first.Series, "stolen")
	if err != nil {
		t.Fatalf("theft request errored: %v", err)
	}
	if res.Renewed {
		t.Fatalf("expected rejection for mismatched token")
	}
	if repo.rowsFor("alice") != 0 {
		t.Fatalf("theft must invalidate every lineage, %d rows remain", repo.rowsFor("alice"))
	}
}

func TestRememberMe_Remembered_RotationChainIsStrict(t *testing.T) {
	repo := newStubTokenRepo()
	gen := &counterKeyGenerator{}
	svc := NewRememberMeService(repo, gen, testClock, zerolog.Nop())
	ctx := context.Background()

	lt, err := svc.OnLoginSuccess(ctx, "alice")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	token := lt.Token
	for i := 0; i < 20; i++ {
		res, err := svc.OnRememberedRequest(ctx, lt.Series, token)
		if err != nil {
			t.Fatalf("rotation %d errored: %v", i, err)
		}
		if !res.Renewed {
			t.Fatalf("rotation %d rejected", i)
		}
		token = res.NewToken
	}

	stored, err := repo.LookupBySeries(ctx, lt.Series)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if stored.Token != token {
		t.Fatalf("stored token %q does not match last issued %q", stored.Token, token)
	}
}

func TestRememberMe_Remembered_ConcurrentPresentersExactlyOneWins(t *testing.T) {
	repo := newStubTokenRepo()
	gen := &counterKeyGenerator{}
	svc := NewRememberMeService(repo, gen, testClock, zerolog.Nop())
	ctx := context.Background()

	lt, err := svc.OnLoginSuccess(ctx, "alice")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// Both racers present the same token. Rotations on one series are
	// serialized, so whichever runs second sees a rotated token and trips the
	// theft response.
	const racers = 2
	results := make([]bool, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.OnRememberedRequest(ctx, lt.Series, lt.Token)
			if err != nil {
				t.Errorf("racer %d errored: %v", i, err)
				return
			}
			results[i] = res.Renewed
		}(i)
	}
	wg.Wait()

	renewed := 0
	for _, ok := range results {
		if ok {
			renewed++
		}
	}
	if renewed != 1 {
		t.Fatalf("expected exactly one renewal, got %d", renewed)
	}
	if repo.rowsFor("alice") != 0 {
		t.Fatalf("loser must have invalidated the lineage, %d rows remain", repo.rowsFor("alice"))
	}
}

func TestRememberMe_Remembered_StorageErrorSurfaces(t *testing.T) {
	repo := newStubTokenRepo()
	repo.lookErr = errors.New("connection reset")
	svc := newService(repo, &seqKeyGenerator{})

	if _, err := svc.OnRememberedRequest(context.Background(), "s1", "t1"); err == nil {
		t.Fatalf("expected storage error to surface")
	}
}

// ---------------------------------------------------------------------------
// OnLogout tests
// ---------------------------------------------------------------------------

func TestRememberMe_Logout_RemovesAllRows(t *testing.T) {
	repo := newStubTokenRepo()
	svc := newService(repo, &seqKeyGenerator{values: []string{"s1", "t1", "s2", "t2"}})
	ctx := context.Background()

	_, _ = svc.OnLoginSuccess(ctx, "alice")
	_, _ = svc.OnLoginSuccess(ctx, "alice")

	if err := svc.OnLogout(ctx, "alice"); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if repo.rowsFor("alice") != 0 {
		t.Fatalf("expected zero rows after logout, got %d", repo.rowsFor("alice"))
	}

	// Logging out again is a no-op.
	if err := svc.OnLogout(ctx, "alice"); err != nil {
		t.Fatalf("repeated logout errored: %v", err)
	}
}
