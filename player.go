package prc

import (
	"strconv"
	"strings"
)

// Player is a global player identity. Instances are pooled in the client's
// global player cache so bans, logs and server rosters referencing the same
// id share one record.
type Player struct {
	ID   int
	Name string

	client *Client
}

// newPlayer constructs a Player and merges it into the global pool. The
// stored value is returned so callers always hold the pooled instance.
func newPlayer(c *Client, name string, id int) *Player {
	p := &Player{ID: id, Name: name, client: c}
	if id == 0 {
		return p
	}
	return c.cache.Players.Set(id, p)
}

// parsePlayer parses the wire "Name:Id" form.
func parsePlayer(c *Client, data string) *Player {
	name, id := splitNameID(data)
	return newPlayer(c, name, id)
}

func splitNameID(s string) (string, int) {
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return s, 0
	}
	id, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return s, 0
	}
	return s[:i], id
}

// Permission is a staff permission level on a server.
type Permission string

const (
	PermissionNormal        Permission = "Normal"
	PermissionModerator     Permission = "Server Moderator"
	PermissionAdministrator Permission = "Server Administrator"
	PermissionCoOwner       Permission = "Server Co-Owner"
	PermissionOwner         Permission = "Server Owner"
)

type serverPlayerPayload struct {
	Player     string     `json:"Player"`
	Permission Permission `json:"Permission"`
	Callsign   string     `json:"Callsign"`
	Team       string     `json:"Team"`
}

// ServerPlayer is a player currently on a server, with their server-side
// role attributes.
type ServerPlayer struct {
	Player
	Permission Permission
	Callsign   string
	Team       string

	server *Server
}

// newServerPlayer parses a roster entry and merges it into the server player
// cache plus the global pool.
func newServerPlayer(s *Server, data serverPlayerPayload) *ServerPlayer {
	name, id := splitNameID(data.Player)
	newPlayer(s.client, name, id)
	sp := &ServerPlayer{
		Player:     Player{ID: id, Name: name, client: s.client},
		Permission: coalesce(data.Permission, PermissionNormal),
		Callsign:   data.Callsign,
		Team:       data.Team,
		server:     s,
	}
	if id == 0 {
		return sp
	}
	return s.cache.Players.Set(id, sp)
}

// IsStaff reports whether the player holds any staff permission.
func (p *ServerPlayer) IsStaff() bool { return p.Permission != PermissionNormal }

// QueuedPlayer is a player waiting in the join queue. The queue endpoint
// only carries ids.
type QueuedPlayer struct {
	ID int

	server *Server
}

// Player resolves the queued id against the server player cache, nil when
// the player is not (yet) known.
func (q *QueuedPlayer) Player() *ServerPlayer {
	return q.server.findPlayer(q.ID, "")
}

// LogPlayer is a player reference inside a log entry.
type LogPlayer struct {
	Player

	server *Server
}

func parseLogPlayer(s *Server, data string) *LogPlayer {
	name, id := splitNameID(data)
	newPlayer(s.client, name, id)
	return &LogPlayer{Player: Player{ID: id, Name: name, client: s.client}, server: s}
}

// Current resolves the reference against the server player cache, nil when
// the player is no longer on the server.
func (p *LogPlayer) Current() *ServerPlayer {
	return p.server.findPlayer(p.ID, "")
}
