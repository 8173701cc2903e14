package prc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStatus = map[string]any{
	"Name":           "Test Roleplay",
	"OwnerId":        100,
	"CoOwnerIds":     []int{200, 300},
	"CurrentPlayers": 2,
	"MaxPlayers":     40,
	"JoinKey":        "TestRP",
	"AccVerifiedReq": "Email",
	"TeamBalance":    true,
}

func TestStatus(t *testing.T) {
	f := newFakeAPI(t)
	f.respond("/", testStatus)

	c := f.client(t, Options{})
	s, err := c.Server(testServerKey("status"))
	require.NoError(t, err)
	assert.Nil(t, s.Info())

	st, err := s.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Test Roleplay", st.Name)
	assert.Equal(t, 100, st.OwnerID)
	assert.Equal(t, []int{200, 300}, st.CoOwnerIDs)
	assert.Equal(t, 2, st.PlayerCount)
	assert.Equal(t, 40, st.MaxPlayers)
	assert.Equal(t, "TestRP", st.JoinKey)
	assert.Equal(t, AccountRequirementEmail, st.AccountRequirement)
	assert.True(t, st.TeamBalance)

	// The snapshot is retained on the scope.
	assert.Same(t, st, s.Info())
}

// TestStatusMemoized: repeated calls inside the ephemeral window hit the
// wire once; after the window a fresh request goes out.
func TestStatusMemoized(t *testing.T) {
	f := newFakeAPI(t)
	f.respond("/", testStatus)

	c := f.client(t, Options{})
	s, err := c.ServerWithOptions(testServerKey("memo"), ServerOptions{
		EphemeralTTL: 50 * time.Millisecond,
	})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = s.Status(ctx)
	require.NoError(t, err)
	_, err = s.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.callCount("/"))

	time.Sleep(60 * time.Millisecond)
	_, err = s.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, f.callCount("/"))
}

func TestPlayersMergeIntoCaches(t *testing.T) {
	f := newFakeAPI(t)
	f.respond("/players", []map[string]any{
		{"Player": "Alice:1", "Permission": "Server Owner", "Callsign": "1A-01", "Team": "Police"},
		{"Player": "Bob:2", "Permission": "Normal", "Team": "Civilian"},
	})

	c := f.client(t, Options{})
	s, err := c.Server(testServerKey("players"))
	require.NoError(t, err)

	ps, err := s.Players(context.Background())
	require.NoError(t, err)
	require.Len(t, ps, 2)

	alice := ps[0]
	assert.Equal(t, 1, alice.ID)
	assert.Equal(t, "Alice", alice.Name)
	assert.Equal(t, PermissionOwner, alice.Permission)
	assert.Equal(t, "1A-01", alice.Callsign)
	assert.True(t, alice.IsStaff())

	bob := ps[1]
	assert.Equal(t, PermissionNormal, bob.Permission)
	assert.False(t, bob.IsStaff())

	// Roster entries land in the scope cache and the global pool.
	assert.Equal(t, 2, s.Cache().Players.Len())
	cached, ok := s.Cache().Players.Get(1)
	require.True(t, ok)
	assert.Same(t, alice, cached)
	global, ok := c.Cache().Players.Get(2)
	require.True(t, ok)
	assert.Equal(t, "Bob", global.Name)
}

func TestQueue(t *testing.T) {
	f := newFakeAPI(t)
	f.respond("/players", []map[string]any{
		{"Player": "Alice:1", "Permission": "Normal"},
	})
	f.respond("/queue", []int{1, 7})

	c := f.client(t, Options{})
	s, err := c.Server(testServerKey("queue"))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = s.Players(ctx)
	require.NoError(t, err)

	qs, err := s.Queue(ctx)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, 1, qs[0].ID)
	require.NotNil(t, qs[0].Player())
	assert.Equal(t, "Alice", qs[0].Player().Name)
	assert.Nil(t, qs[1].Player(), "unknown id resolves to nil")
}

// TestBansSortedByID: bans arrive as an unordered id->name map and come back
// ordered by id, with non-numeric ids dropped.
func TestBansSortedByID(t *testing.T) {
	f := newFakeAPI(t)
	f.respond("/bans", map[string]string{
		"300":  "Carol",
		"5":    "Alice",
		"42":   "Bob",
		"junk": "Ignored",
	})

	c := f.client(t, Options{})
	s, err := c.Server(testServerKey("bans"))
	require.NoError(t, err)

	bs, err := s.Bans(context.Background())
	require.NoError(t, err)
	require.Len(t, bs, 3)
	assert.Equal(t, []int{5, 42, 300}, []int{bs[0].ID, bs[1].ID, bs[2].ID})
	assert.Equal(t, "Alice", bs[0].Name)

	// Banned players join the global pool.
	pooled, ok := c.Cache().Players.Get(42)
	require.True(t, ok)
	assert.Same(t, bs[1], pooled)
}

// TestVehiclesHistoryAccumulates: every poll appends to the bounded vehicle
// history; polls are not reconciled.
func TestVehiclesHistoryAccumulates(t *testing.T) {
	f := newFakeAPI(t)
	f.respond("/vehicles", []map[string]string{
		{"Name": "Falcon Interceptor", "Texture": "Police", "Owner": "Alice"},
		{"Name": "Bullhorn Prancer", "Texture": "Civilian", "Owner": "Bob"},
	})

	c := f.client(t, Options{})
	s, err := c.ServerWithOptions(testServerKey("vehicles"), ServerOptions{
		EphemeralTTL: time.Millisecond,
	})
	require.NoError(t, err)

	ctx := context.Background()
	vs, err := s.Vehicles(ctx)
	require.NoError(t, err)
	require.Len(t, vs, 2)
	assert.Equal(t, "Falcon Interceptor", vs[0].Name)
	assert.Equal(t, "Alice", vs[0].OwnerName)

	time.Sleep(5 * time.Millisecond)
	_, err = s.Vehicles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Cache().Vehicles.Len())
}

func TestVehicleOwnerResolution(t *testing.T) {
	f := newFakeAPI(t)
	f.respond("/players", []map[string]any{
		{"Player": "Alice:1", "Permission": "Normal"},
	})
	f.respond("/vehicles", []map[string]string{
		{"Name": "Falcon Interceptor", "Texture": "Police", "Owner": "Alice"},
		{"Name": "Bullhorn Prancer", "Texture": "Civilian", "Owner": "Ghost"},
	})

	c := f.client(t, Options{})
	s, err := c.Server(testServerKey("vehown"))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = s.Players(ctx)
	require.NoError(t, err)
	vs, err := s.Vehicles(ctx)
	require.NoError(t, err)

	require.NotNil(t, vs[0].Owner())
	assert.Equal(t, 1, vs[0].Owner().ID)
	assert.Nil(t, vs[1].Owner())
}

// TestAPIErrorFailFast: a rejected server-key maps to its taxonomy error,
// is not memoized, and short-circuits later calls without touching the wire.
func TestAPIErrorFailFast(t *testing.T) {
	f := newFakeAPI(t)
	f.fail("/", 403, 2002)

	c := f.client(t, Options{})
	s, err := c.Server(testServerKey("badserverkey"))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = s.Status(ctx)
	require.ErrorIs(t, err, ErrInvalidServerKey)
	assert.Equal(t, 1, f.callCount("/"))

	// The key is now blacklisted: same error, zero additional requests,
	// on any operation of the scope.
	_, err = s.Status(ctx)
	require.ErrorIs(t, err, ErrInvalidServerKey)
	_, err = s.Players(ctx)
	require.ErrorIs(t, err, ErrInvalidServerKey)
	assert.Equal(t, 1, f.callCount("/"))
	assert.Equal(t, 0, f.callCount("/players"))
}

// TestInvalidGlobalKeyFailFast: a rejected global key blacklists the key
// itself, so every scope carrying it fails fast.
func TestInvalidGlobalKeyFailFast(t *testing.T) {
	f := newFakeAPI(t)
	f.fail("/", 401, 2003)

	c := f.client(t, Options{GlobalKey: "rejectedglobalkeyvalue"})
	s, err := c.Server(testServerKey("globala"))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = s.Status(ctx)
	require.ErrorIs(t, err, ErrInvalidGlobalKey)
	assert.Equal(t, 1, f.callCount("/"))

	other, err := c.Server(testServerKey("globalb"))
	require.NoError(t, err)
	_, err = other.Status(ctx)
	require.ErrorIs(t, err, ErrInvalidGlobalKey)
	assert.Equal(t, 1, f.callCount("/"))

	// A scope that drops the global key is unaffected.
	f.respond("/", testStatus)
	clean, err := c.ServerWithOptions(testServerKey("globalc"), ServerOptions{IgnoreGlobalKey: true})
	require.NoError(t, err)
	_, err = clean.Status(ctx)
	require.NoError(t, err)
}

func TestFailedCallLeavesCachesUntouched(t *testing.T) {
	f := newFakeAPI(t)
	f.fail("/players", 422, 3002)

	c := f.client(t, Options{})
	s, err := c.Server(testServerKey("offline"))
	require.NoError(t, err)

	_, err = s.Players(context.Background())
	require.ErrorIs(t, err, ErrServerOffline)
	assert.Equal(t, 0, s.Cache().Players.Len())
	assert.Equal(t, 0, c.Cache().Players.Len())
}

// TestUnlistedErrorCode: codes outside the taxonomy still surface as an
// APIError carrying the server's code and message.
func TestUnlistedErrorCode(t *testing.T) {
	f := newFakeAPI(t)
	f.fail("/", 422, 5555)

	c := f.client(t, Options{})
	s, err := c.Server(testServerKey("oddcode"))
	require.NoError(t, err)

	_, err = s.Status(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 5555, apiErr.Code)
	assert.NotErrorIs(t, err, ErrInvalidServerKey)
}
