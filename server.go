package prc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/erlcgo/prc/cache"
	"github.com/erlcgo/prc/internal/transport"
)

const defaultEphemeralTTL = 5 * time.Second

// ServerCacheOptions override the default per-server cache sizing. A zero
// CacheConfig keeps the default for that cache.
type ServerCacheOptions struct {
	Players     CacheConfig // default {50, 0}
	Vehicles    CacheConfig // default {50, 1h}
	JoinLogs    CacheConfig // default {150, 6h}
	KillLogs    CacheConfig // default {150, 6h}
	CommandLogs CacheConfig // default {150, 6h}
}

// ServerCache holds one server scope's long-lived object caches. Log
// histories read newest-first; their TTLs are advisory (items are not
// filtered on read).
type ServerCache struct {
	Players     *cache.Cache[int, *ServerPlayer]
	Vehicles    *cache.Sequence[*Vehicle]
	JoinLogs    *cache.Sequence[*JoinEntry]
	KillLogs    *cache.Sequence[*KillEntry]
	CommandLogs *cache.Sequence[*CommandEntry]
}

// NewServerCache builds a ServerCache with the given sizing.
func NewServerCache(opts ServerCacheOptions) *ServerCache {
	players := coalesce(opts.Players, CacheConfig{Size: 50})
	vehicles := coalesce(opts.Vehicles, CacheConfig{Size: 50, TTL: time.Hour})
	return &ServerCache{
		Players: cache.New[int, *ServerPlayer](players.Size, players.TTL),
		Vehicles: cache.NewSequence(cache.SequenceOptions[*Vehicle]{
			Capacity: vehicles.Size,
			TTL:      vehicles.TTL,
		}),
		JoinLogs:    newLogSequence[*JoinEntry](opts.JoinLogs),
		KillLogs:    newLogSequence[*KillEntry](opts.KillLogs),
		CommandLogs: newLogSequence[*CommandEntry](opts.CommandLogs),
	}
}

// newLogSequence builds a bounded history sorted newest-first on read.
func newLogSequence[E interface{ when() time.Time }](cfg CacheConfig) *cache.Sequence[E] {
	cfg = coalesce(cfg, CacheConfig{Size: 150, TTL: 6 * time.Hour})
	return cache.NewSequence(cache.SequenceOptions[E]{
		Capacity:   cfg.Size,
		TTL:        cfg.TTL,
		Less:       func(a, b E) bool { return a.when().Before(b.when()) },
		Descending: true,
	})
}

// ServerOptions configure a server scope.
type ServerOptions struct {
	// EphemeralTTL is how long GET results are served from the memo slot
	// before a fresh request is issued. 0 keeps the 5s default.
	EphemeralTTL time.Duration

	// Cache overrides the default ServerCache sizing.
	Cache *ServerCache

	// IgnoreGlobalKey drops the Authorization header for this scope even
	// when the client has a global key configured.
	IgnoreGlobalKey bool
}

// Server is one game server scope. All GET operations are memoized for the
// scope's ephemeral window, and successful calls refresh the scope's slot in
// the client's global server cache.
type Server struct {
	client          *Client
	id              string
	key             string
	ignoreGlobalKey bool

	cache *ServerCache
	memo  *cache.Memoizer
	http  *transport.Client

	// Logs and Commands expose the log-reading and remote-command modules.
	Logs     *Logs
	Commands *Commands

	mu     sync.RWMutex
	status *ServerStatus
}

func newServer(c *Client, serverKey string, opts ServerOptions) *Server {
	headers := map[string]string{"Server-Key": serverKey}
	if c.globalKey != "" && !opts.IgnoreGlobalKey {
		headers["Authorization"] = c.globalKey
	}
	s := &Server{
		client:          c,
		id:              serverID(serverKey),
		key:             serverKey,
		ignoreGlobalKey: opts.IgnoreGlobalKey,
		memo:            cache.NewMemoizer(coalesce(opts.EphemeralTTL, defaultEphemeralTTL)),
		http: transport.New(transport.Options{
			BaseURL: c.baseURL + "/server",
			Headers: headers,
			HTTP:    c.http,
		}),
	}
	if opts.Cache != nil {
		s.cache = opts.Cache
	} else {
		s.cache = NewServerCache(ServerCacheOptions{})
	}
	s.Logs = &Logs{server: s}
	s.Commands = &Commands{server: s}
	return s
}

// ID is the server identifier derived from its key.
func (s *Server) ID() string { return s.id }

// Cache exposes the scope's caches, mostly for inspection.
func (s *Server) Cache() *ServerCache { return s.cache }

// Info is the most recently fetched status snapshot, nil before the first
// successful Status call.
func (s *Server) Info() *ServerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Status fetches the current server status.
func (s *Server) Status(ctx context.Context) (*ServerStatus, error) {
	st, err := cache.Memoized(s.memo, "status", func() (*ServerStatus, error) {
		body, err := s.get(ctx, "/")
		if err != nil {
			return nil, err
		}
		var st ServerStatus
		if err := json.Unmarshal(body, &st); err != nil {
			return nil, fmt.Errorf("prc: decode status: %w", err)
		}
		return &st, nil
	})
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
	s.refresh()
	return st, nil
}

// Players fetches all online players and merges them into the server player
// cache.
func (s *Server) Players(ctx context.Context) ([]*ServerPlayer, error) {
	ps, err := cache.Memoized(s.memo, "players", func() ([]*ServerPlayer, error) {
		body, err := s.get(ctx, "/players")
		if err != nil {
			return nil, err
		}
		var payload []serverPlayerPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("prc: decode players: %w", err)
		}
		out := make([]*ServerPlayer, 0, len(payload))
		for _, p := range payload {
			out = append(out, newServerPlayer(s, p))
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	s.refresh()
	return ps, nil
}

// Queue fetches the join queue (ids only).
func (s *Server) Queue(ctx context.Context) ([]*QueuedPlayer, error) {
	return cache.Memoized(s.memo, "queue", func() ([]*QueuedPlayer, error) {
		body, err := s.get(ctx, "/queue")
		if err != nil {
			return nil, err
		}
		var ids []int
		if err := json.Unmarshal(body, &ids); err != nil {
			return nil, fmt.Errorf("prc: decode queue: %w", err)
		}
		out := make([]*QueuedPlayer, 0, len(ids))
		for _, id := range ids {
			out = append(out, &QueuedPlayer{ID: id, server: s})
		}
		return out, nil
	})
}

// Bans fetches all server bans as pooled global players, ordered by id.
func (s *Server) Bans(ctx context.Context) ([]*Player, error) {
	ps, err := cache.Memoized(s.memo, "bans", func() ([]*Player, error) {
		body, err := s.get(ctx, "/bans")
		if err != nil {
			return nil, err
		}
		var payload map[string]string
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("prc: decode bans: %w", err)
		}
		out := make([]*Player, 0, len(payload))
		for rawID, name := range payload {
			id, err := strconv.Atoi(rawID)
			if err != nil {
				continue
			}
			out = append(out, newPlayer(s.client, name, id))
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	s.refresh()
	return ps, nil
}

// Vehicles fetches all spawned vehicles and appends them to the vehicle
// history.
func (s *Server) Vehicles(ctx context.Context) ([]*Vehicle, error) {
	vs, err := cache.Memoized(s.memo, "vehicles", func() ([]*Vehicle, error) {
		body, err := s.get(ctx, "/vehicles")
		if err != nil {
			return nil, err
		}
		var payload []vehiclePayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("prc: decode vehicles: %w", err)
		}
		out := make([]*Vehicle, 0, len(payload))
		for _, v := range payload {
			out = append(out, s.cache.Vehicles.Add(newVehicle(s, v)))
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	s.refresh()
	return vs, nil
}

// findPlayer scans the server player cache by id or, when id is 0, by name.
func (s *Server) findPlayer(id int, name string) *ServerPlayer {
	for _, e := range s.cache.Players.Items() {
		p := e.Value
		if id != 0 && p.ID == id {
			return p
		}
		if name != "" && p.Name == name {
			return p
		}
	}
	return nil
}

// refresh re-sets this scope in the global server cache so its slot and
// timestamp track the latest successful call.
func (s *Server) refresh() {
	s.client.cache.Servers.Set(s.id, s)
}

// checkKeys fails fast on credentials the API already rejected, without
// issuing a request.
func (s *Server) checkKeys() error {
	if transport.IsInvalid(s.key) {
		return ErrInvalidServerKey
	}
	if !s.ignoreGlobalKey && s.client.globalKey != "" && transport.IsInvalid(s.client.globalKey) {
		return ErrInvalidGlobalKey
	}
	return nil
}

func (s *Server) get(ctx context.Context, path string) ([]byte, error) {
	if err := s.checkKeys(); err != nil {
		return nil, err
	}
	res, err := s.http.Get(ctx, path)
	return s.handle(path, res, err)
}

func (s *Server) post(ctx context.Context, path string, body any) ([]byte, error) {
	if err := s.checkKeys(); err != nil {
		return nil, err
	}
	res, err := s.http.Post(ctx, path, body)
	return s.handle(path, res, err)
}

// handle maps a raw response to the error taxonomy. Failed calls leave every
// cache untouched; invalid or banned keys are recorded process-wide.
func (s *Server) handle(path string, res *transport.Response, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	if res.OK() {
		return res.Body, nil
	}
	apiErr := errorForBody(res.Body)
	switch {
	case errors.Is(apiErr, ErrInvalidGlobalKey):
		transport.MarkInvalid(s.client.globalKey)
	case errors.Is(apiErr, ErrInvalidServerKey), errors.Is(apiErr, ErrBannedServerKey):
		transport.MarkInvalid(s.key)
	}
	s.client.log.Warn("api error", Fields{
		"server": s.id,
		"path":   path,
		"status": res.Status,
		"code":   apiErr.Code,
	})
	return nil, apiErr
}
