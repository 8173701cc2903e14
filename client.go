package prc

import (
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/erlcgo/prc/cache"
)

const defaultBaseURL = "https://api.policeroleplay.community/v1"

// CacheConfig sizes one cache: maximum entry count plus TTL (0 = no expiry).
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// GlobalCache holds the client-wide object caches. Server scopes are cached
// so repeated lookups of the same key share state; global players are a
// small identity pool referenced from bans and log entries.
type GlobalCache struct {
	Servers *cache.Cache[string, *Server]
	Players *cache.Cache[int, *Player]
}

// GlobalCacheOptions override the default cache sizing. A zero CacheConfig
// keeps the default for that cache.
type GlobalCacheOptions struct {
	Servers CacheConfig // default {2, 0}
	Players CacheConfig // default {100, 0}
}

// NewGlobalCache builds a GlobalCache with the given sizing.
func NewGlobalCache(opts GlobalCacheOptions) *GlobalCache {
	servers := coalesce(opts.Servers, CacheConfig{Size: 2})
	players := coalesce(opts.Players, CacheConfig{Size: 100})
	return &GlobalCache{
		Servers: cache.New[string, *Server](servers.Size, servers.TTL),
		Players: cache.New[int, *Player](players.Size, players.TTL),
	}
}

// Options configure a Client. Only keys are required in practice; everything
// else has defaults.
type Options struct {
	// GlobalKey is the account-wide API key, sent as the Authorization
	// header unless a server scope is created with IgnoreGlobalKey.
	GlobalKey string

	// DefaultServerKey is used by Server("") lookups. Validated up front.
	DefaultServerKey string

	BaseURL string        // default https://api.policeroleplay.community/v1
	Cache   *GlobalCache  // nil => NewGlobalCache defaults
	Logger  Logger        // nil => NopLogger
	HTTP    *http.Client  // underlying HTTP client override (tests, proxies)
}

// Client is the top-level API client. It owns the global caches and hands
// out Server scopes.
type Client struct {
	globalKey        string
	defaultServerKey string
	baseURL          string
	cache            *GlobalCache
	log              Logger
	http             *http.Client

	// serverMu makes the get-compare-set of Server resolution one logical
	// operation; the caches' own locks only cover single calls.
	serverMu sync.Mutex
}

// New validates the options and returns a Client.
func New(opts Options) (*Client, error) {
	if opts.DefaultServerKey != "" {
		if err := validateServerKey(opts.DefaultServerKey); err != nil {
			return nil, err
		}
	}
	c := &Client{
		globalKey:        opts.GlobalKey,
		defaultServerKey: opts.DefaultServerKey,
		baseURL:          coalesce(opts.BaseURL, defaultBaseURL),
		http:             opts.HTTP,
	}
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	if opts.Cache != nil {
		c.cache = opts.Cache
	} else {
		c.cache = NewGlobalCache(GlobalCacheOptions{})
	}
	return c, nil
}

// Cache exposes the global caches, mostly for inspection.
func (c *Client) Cache() *GlobalCache { return c.cache }

// Server resolves a server scope for serverKey, falling back to the
// configured default key when serverKey is empty. Scopes are cached by
// server id and shared across calls.
func (c *Client) Server(serverKey string) (*Server, error) {
	return c.ServerWithOptions(serverKey, ServerOptions{})
}

// ServerWithOptions is Server with explicit scope options. A cached scope is
// reused only when its IgnoreGlobalKey flag matches the requested one;
// otherwise a fresh scope replaces it.
func (c *Client) ServerWithOptions(serverKey string, opts ServerOptions) (*Server, error) {
	if serverKey == "" {
		serverKey = c.defaultServerKey
	}
	if serverKey == "" {
		return nil, ErrNoServerKey
	}
	if err := validateServerKey(serverKey); err != nil {
		return nil, err
	}
	id := serverID(serverKey)

	c.serverMu.Lock()
	defer c.serverMu.Unlock()

	if existing, ok := c.cache.Servers.Get(id); ok && existing.ignoreGlobalKey == opts.IgnoreGlobalKey {
		c.log.Debug("server scope cache hit", Fields{"server": id})
		return existing, nil
	}
	s := newServer(c, serverKey, opts)
	return c.cache.Servers.Set(id, s), nil
}

// findPlayer scans the global player pool by id or, when id is 0, by name.
func (c *Client) findPlayer(id int, name string) *Player {
	for _, e := range c.cache.Players.Items() {
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

var serverKeyPattern = regexp.MustCompile(`(?i)^[a-z]{10,}-[a-z]{40,}$`)

func validateServerKey(serverKey string) error {
	if !serverKeyPattern.MatchString(serverKey) {
		return ErrKeyFormat
	}
	return nil
}

// serverID is the second segment of a server-key; it identifies the server
// independently of key rotation.
func serverID(serverKey string) string {
	return strings.SplitN(serverKey, "-", 2)[1]
}
