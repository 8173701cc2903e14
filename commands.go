package prc

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Weather is a server weather type.
type Weather string

const (
	WeatherRain         Weather = "rain"
	WeatherThunderstorm Weather = "thunderstorm"
	WeatherFog          Weather = "fog"
	WeatherClear        Weather = "clear"
	WeatherSnow         Weather = "snow" // winter only
)

// FireType is a server fire type.
type FireType string

const (
	FireHouse    FireType = "house"
	FireBrush    FireType = "brush"
	FireBuilding FireType = "building"
)

// TargetAll addresses every player in the server.
const TargetAll = "all"

// TargetID formats a player id as a command target.
func TargetID(id int) string { return strconv.Itoa(id) }

// Commands executes remote commands on a server as the virtual remote
// player.
type Commands struct {
	server *Server
}

// Raw runs a raw command string, e.g. ":h hello".
func (c *Commands) Raw(ctx context.Context, command string) error {
	_, err := c.server.post(ctx, "/command", map[string]string{
		"command": strings.TrimSpace(command),
	})
	return err
}

// Run builds and executes a command. Targets may be player names, ids
// (TargetID) or TargetAll, joined comma-separated on the wire; args and
// trailing text are appended space-separated.
func (c *Commands) Run(ctx context.Context, name string, targets []string, args []string, text string) error {
	var b strings.Builder
	b.WriteString(":")
	b.WriteString(name)
	if len(targets) > 0 {
		b.WriteString(" ")
		b.WriteString(strings.Join(targets, ","))
	}
	if len(args) > 0 {
		b.WriteString(" ")
		b.WriteString(strings.Join(args, " "))
	}
	if text != "" {
		b.WriteString(" ")
		b.WriteString(text)
	}
	return c.Raw(ctx, b.String())
}

// Kill kills the targeted players.
func (c *Commands) Kill(ctx context.Context, targets ...string) error {
	return c.Run(ctx, "kill", targets, nil, "")
}

// Heal heals the targeted players.
func (c *Commands) Heal(ctx context.Context, targets ...string) error {
	return c.Run(ctx, "heal", targets, nil, "")
}

// Wanted marks the targeted players as wanted.
func (c *Commands) Wanted(ctx context.Context, targets ...string) error {
	return c.Run(ctx, "wanted", targets, nil, "")
}

// Unwanted clears the wanted status of the targeted players.
func (c *Commands) Unwanted(ctx context.Context, targets ...string) error {
	return c.Run(ctx, "unwanted", targets, nil, "")
}

// Jail jails the targeted players.
func (c *Commands) Jail(ctx context.Context, targets ...string) error {
	return c.Run(ctx, "jail", targets, nil, "")
}

// Unjail releases the targeted players.
func (c *Commands) Unjail(ctx context.Context, targets ...string) error {
	return c.Run(ctx, "unjail", targets, nil, "")
}

// Refresh refreshes the targeted players.
func (c *Commands) Refresh(ctx context.Context, targets ...string) error {
	return c.Run(ctx, "refresh", targets, nil, "")
}

// Respawn respawns the targeted players.
func (c *Commands) Respawn(ctx context.Context, targets ...string) error {
	return c.Run(ctx, "load", targets, nil, "")
}

// Teleport teleports the targeted players to another player.
func (c *Commands) Teleport(ctx context.Context, to string, targets ...string) error {
	return c.Run(ctx, "tp", targets, []string{to}, "")
}

// Kick kicks the targeted players from the server.
func (c *Commands) Kick(ctx context.Context, targets ...string) error {
	return c.Run(ctx, "kick", targets, nil, "")
}

// Ban bans the targeted players.
func (c *Commands) Ban(ctx context.Context, targets ...string) error {
	return c.Run(ctx, "ban", targets, nil, "")
}

// Unban unbans the targeted players.
func (c *Commands) Unban(ctx context.Context, targets ...string) error {
	return c.Run(ctx, "unban", targets, nil, "")
}

// Mod grants moderator permissions to the targeted players.
func (c *Commands) Mod(ctx context.Context, targets ...string) error {
	return c.Run(ctx, "mod", targets, nil, "")
}

// Unmod revokes moderator permissions from the targeted players.
func (c *Commands) Unmod(ctx context.Context, targets ...string) error {
	return c.Run(ctx, "unmod", targets, nil, "")
}

// Admin grants admin permissions to the targeted players.
func (c *Commands) Admin(ctx context.Context, targets ...string) error {
	return c.Run(ctx, "admin", targets, nil, "")
}

// Unadmin revokes admin permissions from the targeted players.
func (c *Commands) Unadmin(ctx context.Context, targets ...string) error {
	return c.Run(ctx, "unadmin", targets, nil, "")
}

// Hint shows a temporary undismissable banner message to the server.
func (c *Commands) Hint(ctx context.Context, text string) error {
	return c.Run(ctx, "h", nil, nil, text)
}

// Announce shows a dismissable popup message to the server.
func (c *Commands) Announce(ctx context.Context, text string) error {
	return c.Run(ctx, "m", nil, nil, text)
}

// PM sends a dismissable private popup message to the targeted players.
func (c *Commands) PM(ctx context.Context, text string, targets ...string) error {
	return c.Run(ctx, "pm", targets, nil, text)
}

// SetPriority sets the priority countdown in seconds; 0 disables it.
func (c *Commands) SetPriority(ctx context.Context, seconds int) error {
	return c.Run(ctx, "prty", nil, []string{strconv.Itoa(seconds)}, "")
}

// SetPeace sets the peace-timer countdown in seconds, disabling PVP damage
// while it runs; 0 disables it.
func (c *Commands) SetPeace(ctx context.Context, seconds int) error {
	return c.Run(ctx, "pt", nil, []string{strconv.Itoa(seconds)}, "")
}

// SetTime sets the in-game hour (24-hour clock).
func (c *Commands) SetTime(ctx context.Context, hour int) error {
	return c.Run(ctx, "time", nil, []string{strconv.Itoa(hour)}, "")
}

// SetWeather sets the server weather.
func (c *Commands) SetWeather(ctx context.Context, w Weather) error {
	return c.Run(ctx, "weather", nil, []string{string(w)}, "")
}

// StartFire starts a fire of the given type at a random location.
func (c *Commands) StartFire(ctx context.Context, t FireType) error {
	return c.Run(ctx, "startfire", nil, []string{string(t)}, "")
}

// StopFires stops all fires.
func (c *Commands) StopFires(ctx context.Context) error {
	return c.Run(ctx, "stopfire", nil, nil, "")
}

// Command is a parsed staff command from the command log.
type Command struct {
	FullContent string
	Name        string
	Targets     []*CommandTarget
	Args        []string
	Text        string

	server *Server
}

// CommandTarget is a player reference inside a command.
type CommandTarget struct {
	Original       string
	ReferencedName string
	ReferencedID   int

	command *Command
	author  *LogPlayer
}

func newCommandTarget(cmd *Command, data string, author *LogPlayer) *CommandTarget {
	t := &CommandTarget{Original: data, command: cmd, author: author}
	switch {
	case isDigits(data) && supportsIDTargets[cmd.Name]:
		t.ReferencedID, _ = strconv.Atoi(data)
	case strings.EqualFold(data, "me") && supportsAuthorAsTarget[cmd.Name] && author != nil:
		t.ReferencedID = author.ID
		t.ReferencedName = author.Name
	default:
		t.ReferencedName = data
	}
	return t
}

// GuessedPlayer resolves the reference against the server player cache:
// case-insensitive name-prefix match when a name is referenced, exact id
// otherwise. Nil when nothing matches.
func (t *CommandTarget) GuessedPlayer() *ServerPlayer {
	for _, e := range t.command.server.cache.Players.Items() {
		p := e.Value
		if t.ReferencedName != "" {
			if strings.HasPrefix(strings.ToLower(p.Name), strings.ToLower(t.ReferencedName)) {
				return p
			}
		} else if p.ID == t.ReferencedID {
			return p
		}
	}
	return nil
}

// IsAuthor reports whether the target references the command author by id.
func (t *CommandTarget) IsAuthor() bool {
	return t.author != nil && t.ReferencedID != 0 && t.author.ID == t.ReferencedID
}

// IsAll reports whether the target addresses every player.
func (t *CommandTarget) IsAll() bool { return strings.EqualFold(t.Original, "all") }

// IsOthers reports whether the target addresses everyone but the author.
func (t *CommandTarget) IsOthers() bool { return strings.EqualFold(t.Original, "others") }

// parseCommand parses a raw logged command string. Commands that can take
// targets consume the first token as a comma-separated target list; arg
// tokens follow per the command's arity; the remainder is free text.
func parseCommand(s *Server, raw string, author *LogPlayer) (*Command, error) {
	tokens := strings.Split(raw, " ")
	if !strings.HasPrefix(tokens[0], ":") {
		return nil, fmt.Errorf("prc: malformed command: %q", raw)
	}
	cmd := &Command{
		FullContent: raw,
		Name:        strings.ToLower(strings.TrimPrefix(tokens[0], ":")),
		server:      s,
	}
	rest := tokens[1:]

	if len(rest) > 0 && supportsTargets[cmd.Name] {
		if supportsMultiTargets[cmd.Name] {
			for _, part := range strings.Split(rest[0], ",") {
				if part != "" {
					cmd.Targets = append(cmd.Targets, newCommandTarget(cmd, part, author))
				}
			}
		} else {
			cmd.Targets = []*CommandTarget{newCommandTarget(cmd, rest[0], author)}
		}
		rest = rest[1:]
	} else if len(rest) == 0 && supportsBlankTarget[cmd.Name] {
		cmd.Targets = []*CommandTarget{newCommandTarget(cmd, "me", author)}
	}

	if n, ok := supportsArgs[cmd.Name]; ok {
		for i := 0; i < n && len(rest) > 0; i++ {
			arg := rest[0]
			rest = rest[1:]
			if arg != "" {
				cmd.Args = append(cmd.Args, arg)
			}
		}
	}

	cmd.Text = strings.TrimSpace(strings.Join(rest, " "))
	return cmd, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func makeSet(names ...string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

var supportsTargets = makeSet(
	"kill", "down", "heal", "view", "spectate", "wanted", "unwanted",
	"arrest", "unjail", "jail", "free", "refresh", "respawn", "load",
	"bring", "teleport", "tp", "to", "kick", "ban", "unban", "mod",
	"unmod", "admin", "unadmin", "pm", "privatemessage",
)

var supportsIDTargets = makeSet("ban", "unban", "mod", "unmod", "admin", "unadmin")

var supportsAuthorAsTarget = makeSet(
	"kill", "down", "heal", "view", "spectate", "wanted", "unwanted",
	"arrest", "unjail", "jail", "free", "refresh", "respawn", "load",
	"bring", "teleport", "tp", "to", "pm", "privatemessage",
)

var supportsBlankTarget = makeSet(
	"kill", "down", "heal", "view", "spectate", "wanted", "unwanted",
	"arrest", "unjail", "jail", "free", "refresh", "respawn", "load",
	"bring", "to",
)

var supportsMultiTargets = makeSet(
	"kill", "down", "heal", "wanted", "unwanted", "arrest", "unjail",
	"jail", "free", "refresh", "respawn", "load", "bring", "teleport",
	"tp", "kick", "ban", "mod", "unmod", "admin", "unadmin", "pm",
	"privatemessage",
)

var supportsArgs = map[string]int{
	"teleport": 1, "tp": 1,
	"prty": 1, "priority": 1,
	"peacetimer": 1, "pt": 1,
	"time":      1,
	"startfire": 1, "startnearfire": 1, "snf": 1,
	"weather": 1,
}
