package prc

import "time"

// Log entries are timestamped at second resolution by the API. Each cached
// kind carries a dedup identity: two entries with equal timestamps and equal
// identity are the same real-world event observed in overlapping polls.

// JoinEntry is a join or leave event.
type JoinEntry struct {
	CreatedAt time.Time
	Player    *LogPlayer
	IsJoin    bool
}

func (e *JoinEntry) when() time.Time { return e.CreatedAt }
func (e *JoinEntry) dedupID() int    { return e.Player.ID }

// KillEntry is a player kill event.
type KillEntry struct {
	CreatedAt time.Time
	Killed    *LogPlayer
	Killer    *LogPlayer
}

func (e *KillEntry) when() time.Time { return e.CreatedAt }
func (e *KillEntry) dedupID() int    { return e.Killed.ID }

// CommandEntry is a staff command execution event.
type CommandEntry struct {
	CreatedAt time.Time
	Author    *LogPlayer
	Command   *Command
}

func (e *CommandEntry) when() time.Time { return e.CreatedAt }
func (e *CommandEntry) dedupID() int    { return e.Author.ID }

// ModCallEntry is a moderator call. The acknowledged flag can flip between
// polls for the same call, so the kind is returned verbatim per poll and
// never cached or deduplicated.
type ModCallEntry struct {
	CreatedAt      time.Time
	Caller         *LogPlayer
	Responder      *LogPlayer // nil until acknowledged
	IsAcknowledged bool
}
