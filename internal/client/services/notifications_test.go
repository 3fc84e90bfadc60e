package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/hirehub/internal/client/client"
	"github.com/dmitrijs2005/hirehub/internal/client/models"
	"github.com/dmitrijs2005/hirehub/internal/client/notify"
	"github.com/dmitrijs2005/hirehub/internal/client/session"
	"github.com/dmitrijs2005/hirehub/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

func sampleNotifications() []models.Notification {
	return []models.Notification{
		{ID: models.StringID("n1"), Message: "Application viewed"},
		{ID: models.StringID("n2"), Message: "Welcome", Read: true},
		{ID: models.StringID("n3"), Message: "New job match"},
	}
}

func newPanel(api *fakeAPI) (*NotificationPanel, *notify.Recorder) {
	rec := &notify.Recorder{}
	return NewNotificationPanel(api, rec, logging.Nop()), rec
}

type pendingFetch chan []models.Notification

// gatedFetch makes every Notifications call block until the test answers
// it. Each call announces itself on the returned channel with its own
// reply channel.
func gatedFetch(api *fakeAPI) chan pendingFetch {
	calls := make(chan pendingFetch, 8)
	api.NotificationsHook = func(ctx context.Context) ([]models.Notification, error) {
		reply := make(pendingFetch, 1)
		calls <- reply
		select {
		case list := <-reply:
			return list, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return calls
}

const wait = time.Second
const tick = 5 * time.Millisecond

// ---- Fetch / MarkRead ----

func TestPanel_StartsEmptyAndClosed(t *testing.T) {
	p, _ := newPanel(&fakeAPI{})
	assert.NotNil(t, p.Items())
	assert.Empty(t, p.Items())
	assert.False(t, p.Loading())
	assert.False(t, p.IsOpen())
	assert.Zero(t, p.UnreadCount())
}

func TestFetch_ReplacesList(t *testing.T) {
	api := &fakeAPI{NotificationsRet: sampleNotifications()}
	p, _ := newPanel(api)

	p.Fetch(context.Background())

	assert.Equal(t, sampleNotifications(), p.Items())
	assert.Equal(t, 2, p.UnreadCount())
	assert.False(t, p.Loading())

	api.setNotifications(sampleNotifications()[:1])
	p.Fetch(context.Background())
	assert.Len(t, p.Items(), 1)
}

func TestFetch_FailureYieldsEmptyListSilently(t *testing.T) {
	api := &fakeAPI{NotificationsRet: sampleNotifications()}
	p, rec := newPanel(api)
	p.Fetch(context.Background())
	require.Len(t, p.Items(), 3)

	api.mu.Lock()
	api.NotificationsErr = errors.New("boom")
	api.mu.Unlock()

	assert.NotPanics(t, func() { p.Fetch(context.Background()) })
	assert.Empty(t, p.Items())
	assert.False(t, p.Loading())
	assert.Empty(t, rec.Notices())
}

func TestFetch_LoadingWhileInFlight(t *testing.T) {
	api := &fakeAPI{}
	calls := gatedFetch(api)
	p, _ := newPanel(api)

	done := make(chan struct{})
	go func() { p.Fetch(context.Background()); close(done) }()

	reply := <-calls
	assert.True(t, p.Loading())
	reply <- sampleNotifications()
	<-done
	assert.False(t, p.Loading())
	assert.Len(t, p.Items(), 3)
}

func TestMarkRead_FlipsExactlyOne(t *testing.T) {
	api := &fakeAPI{NotificationsRet: sampleNotifications()}
	p, rec := newPanel(api)
	p.Fetch(context.Background())

	require.NoError(t, p.MarkRead(context.Background(), models.StringID("n3")))

	want := sampleNotifications()
	want[2].Read = true
	assert.Equal(t, want, p.Items())
	assert.Equal(t, 1, p.UnreadCount())
	assert.Equal(t, 1, api.Calls("notifications"), "no refetch after mark")
	assert.Equal(t, []models.ID{models.StringID("n3")}, api.Marked)
	assert.Empty(t, rec.Notices())
}

func TestMarkRead_MatchesNumericIDs(t *testing.T) {
	api := &fakeAPI{NotificationsRet: []models.Notification{{ID: models.NumericID(7)}, {ID: models.NumericID(8)}}}
	p, _ := newPanel(api)
	p.Fetch(context.Background())

	require.NoError(t, p.MarkRead(context.Background(), models.StringID("7")))

	assert.Equal(t, 1, p.UnreadCount())
	assert.True(t, p.Items()[0].Read)
}

func TestMarkRead_FailureLeavesStateAndNotifies(t *testing.T) {
	api := &fakeAPI{NotificationsRet: sampleNotifications(), MarkErr: &client.APIError{Status: 500}}
	p, rec := newPanel(api)
	p.Fetch(context.Background())

	err := p.MarkRead(context.Background(), models.StringID("n1"))

	require.Error(t, err)
	assert.Equal(t, sampleNotifications(), p.Items())
	assert.Equal(t, []notify.Notice{{Kind: notify.KindError, Message: MsgMarkReadFailed}}, rec.Notices())
}

func TestFetch_StaleAnswerDoesNotUndoMarkRead(t *testing.T) {
	api := &fakeAPI{NotificationsRet: sampleNotifications()}
	p, _ := newPanel(api)
	p.Fetch(context.Background())

	calls := gatedFetch(api)
	done := make(chan struct{})
	go func() { p.Fetch(context.Background()); close(done) }()
	reply := <-calls

	require.NoError(t, p.MarkRead(context.Background(), models.StringID("n1")))

	reply <- sampleNotifications() // n1 still unread in this snapshot
	<-done

	assert.True(t, p.Items()[0].Read)
	assert.Equal(t, 1, p.UnreadCount())
	assert.False(t, p.Loading())
}

func TestFetch_OlderAnswerLosesToNewer(t *testing.T) {
	for _, olderFirst := range []bool{true, false} {
		api := &fakeAPI{}
		calls := gatedFetch(api)
		p, _ := newPanel(api)

		first := make(chan struct{})
		go func() { p.Fetch(context.Background()); close(first) }()
		older := <-calls

		second := make(chan struct{})
		go func() { p.Fetch(context.Background()); close(second) }()
		newer := <-calls

		if olderFirst {
			older <- sampleNotifications()
			<-first
			assert.True(t, p.Loading(), "newer fetch still in flight")
			newer <- sampleNotifications()[:1]
			<-second
		} else {
			newer <- sampleNotifications()[:1]
			<-second
			older <- sampleNotifications()
			<-first
		}

		assert.Len(t, p.Items(), 1, "olderFirst=%v", olderFirst)
		assert.False(t, p.Loading())
	}
}

// ---- visibility ----

func TestPanel_Visibility(t *testing.T) {
	p, _ := newPanel(&fakeAPI{})

	assert.True(t, p.Toggle())
	assert.True(t, p.IsOpen())

	p.HandlePointer(true)
	assert.True(t, p.IsOpen())

	p.HandlePointer(false)
	assert.False(t, p.IsOpen())

	p.Open()
	assert.True(t, p.IsOpen())
	assert.False(t, p.Toggle())

	p.Close()
	p.HandlePointer(false)
	assert.False(t, p.IsOpen())
}

// ---- Attach / Poll / Detach ----

func newAttached(t *testing.T, api *fakeAPI) (*NotificationPanel, *AuthService, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	auth := NewAuthService(api, store, notify.Nop(), logging.Nop())
	p, _ := newPanel(api)
	p.Attach(context.Background(), auth)
	t.Cleanup(p.Detach)
	return p, auth, store
}

func TestAttach_FetchesAfterRestore(t *testing.T) {
	api := &fakeAPI{NotificationsRet: sampleNotifications()}
	p, auth, store := newAttached(t, api)
	require.NoError(t, store.Save(context.Background(), session.ScopeActive, "demo-token", userA))

	assert.Zero(t, api.Calls("notifications"))
	auth.Restore(context.Background())

	assert.Eventually(t, func() bool { return len(p.Items()) == 3 }, wait, tick)
	assert.Equal(t, 1, api.Calls("notifications"))
}

func TestAttach_WaitsForValidation(t *testing.T) {
	api := &fakeAPI{NotificationsRet: sampleNotifications()}
	release := make(chan struct{})
	api.ProfileHook = func(context.Context) (*models.User, error) {
		<-release
		return userA, nil
	}
	p, auth, store := newAttached(t, api)
	require.NoError(t, store.Save(context.Background(), session.ScopeActive, "t1", userA))

	done := make(chan struct{})
	go func() { auth.Restore(context.Background()); close(done) }()

	assert.Eventually(t, func() bool { return auth.State() == StateRestoring }, wait, tick)
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, api.Calls("notifications"))

	close(release)
	<-done
	assert.Eventually(t, func() bool { return len(p.Items()) == 3 }, wait, tick)
}

func TestAttach_NoFetchWhenRestoreRejects(t *testing.T) {
	api := &fakeAPI{NotificationsRet: sampleNotifications(), ProfileErr: &client.APIError{Status: 401}}
	p, auth, store := newAttached(t, api)
	require.NoError(t, store.Save(context.Background(), session.ScopeActive, "t1", userA))

	auth.Restore(context.Background())
	time.Sleep(20 * time.Millisecond)

	assert.Zero(t, api.Calls("notifications"))
	assert.Empty(t, p.Items())
}

func TestAttach_FollowsLoginAndLogout(t *testing.T) {
	api := &fakeAPI{
		NotificationsRet: sampleNotifications(),
		LoginRet:         &client.LoginResponse{Token: "t1", User: userA},
	}
	p, auth, _ := newAttached(t, api)
	auth.Restore(context.Background())
	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, api.Calls("notifications"))

	auth.Login(context.Background(), models.Credentials{})
	assert.Eventually(t, func() bool { return len(p.Items()) == 3 }, wait, tick)

	// a second publish for the same signed-in user does not refetch
	api.UpdateRet = userA
	auth.UpdateProfile(context.Background(), models.ProfileUpdate{})
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 1, api.Calls("notifications"))

	p.Open()
	auth.Logout(context.Background())
	assert.Empty(t, p.Items())
	assert.False(t, p.IsOpen())
}

func TestAttach_RefetchesWhenAnotherUserSignsIn(t *testing.T) {
	api := &fakeAPI{
		NotificationsRet: sampleNotifications(),
		LoginRet:         &client.LoginResponse{Token: "t1", User: userA},
	}
	p, auth, _ := newAttached(t, api)
	auth.Restore(context.Background())

	auth.Login(context.Background(), models.Credentials{Email: "a@example.com"})
	require.Eventually(t, func() bool { return len(p.Items()) == 3 }, wait, tick)

	userB := &models.User{ID: models.NumericID(2), Name: "B", Role: models.RoleEmployer}
	onlyB := []models.Notification{{ID: models.StringID("b1"), Message: "New applicant"}}
	api.LoginRet = &client.LoginResponse{Token: "t2", User: userB}
	api.setNotifications(onlyB)

	auth.Login(context.Background(), models.Credentials{Email: "b@example.com"})

	assert.Eventually(t, func() bool {
		items := p.Items()
		return len(items) == 1 && items[0].ID.String() == "b1"
	}, wait, tick)
	assert.Equal(t, 2, api.Calls("notifications"))
	assert.Equal(t, 1, p.UnreadCount())
}

func TestAttach_PreviousUsersAnswerIsDropped(t *testing.T) {
	api := &fakeAPI{LoginRet: &client.LoginResponse{Token: "t1", User: userA}}
	calls := gatedFetch(api)
	p, auth, _ := newAttached(t, api)
	auth.Restore(context.Background())

	auth.Login(context.Background(), models.Credentials{})
	forA := <-calls

	userB := &models.User{ID: models.NumericID(2), Name: "B"}
	api.LoginRet = &client.LoginResponse{Token: "t2", User: userB}
	auth.Login(context.Background(), models.Credentials{})
	forB := <-calls

	forA <- sampleNotifications()
	forB <- []models.Notification{{ID: models.StringID("b1"), Message: "Interview scheduled"}}

	assert.Eventually(t, func() bool {
		items := p.Items()
		return !p.Loading() && len(items) == 1 && items[0].ID.String() == "b1"
	}, wait, tick)
}

func TestFetch_SignedOutSkipsBackend(t *testing.T) {
	api := &fakeAPI{NotificationsRet: sampleNotifications()}
	p, auth, _ := newAttached(t, api)
	auth.Restore(context.Background())

	p.Fetch(context.Background())

	assert.Zero(t, api.Calls("notifications"))
	assert.Empty(t, p.Items())
}

func TestDetach_IgnoresLateAnswers(t *testing.T) {
	api := &fakeAPI{}
	calls := gatedFetch(api)
	p, _ := newPanel(api)

	done := make(chan struct{})
	go func() { p.Fetch(context.Background()); close(done) }()
	reply := <-calls

	p.Detach()
	reply <- sampleNotifications()
	<-done

	assert.Empty(t, p.Items())
	assert.False(t, p.Loading())

	require.NoError(t, p.MarkRead(context.Background(), models.StringID("n1")))
	assert.Empty(t, p.Items())
}

func TestPoll_DisabledWithZeroInterval(t *testing.T) {
	api := &fakeAPI{}
	p, _ := newPanel(api)

	done := make(chan struct{})
	go func() { p.Poll(context.Background(), 0); close(done) }()

	select {
	case <-done:
	case <-time.After(wait):
		t.Fatal("Poll with zero interval did not return")
	}
	assert.Zero(t, api.Calls("notifications"))
}

func TestPoll_RefreshesUntilCancelled(t *testing.T) {
	api := &fakeAPI{NotificationsRet: sampleNotifications()}
	p, _ := newPanel(api)

	ctx, cancel := context.WithCancel(context.Background())
	var stopped atomic.Bool
	go func() { p.Poll(ctx, 5*time.Millisecond); stopped.Store(true) }()

	assert.Eventually(t, func() bool { return api.Calls("notifications") >= 2 }, wait, tick)
	cancel()
	assert.Eventually(t, stopped.Load, wait, tick)
	assert.Len(t, p.Items(), 3)
}

func TestPoll_SkipsWhileSignedOut(t *testing.T) {
	api := &fakeAPI{NotificationsRet: sampleNotifications()}
	p, auth, _ := newAttached(t, api)
	auth.Restore(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()
	p.Poll(ctx, 5*time.Millisecond)

	assert.Zero(t, api.Calls("notifications"))
}
