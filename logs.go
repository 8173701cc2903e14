package prc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/erlcgo/prc/cache"
)

// Logs reads a server's log endpoints. The endpoints have no cursor: each
// poll returns a window overlapping the previous one, so parsed entries are
// reconciled against the bounded history before insertion.
type Logs struct {
	server *Server
}

// logRecord is a cached log entry kind: a second-resolution timestamp plus
// the identity compared when two entries share a timestamp.
type logRecord interface {
	when() time.Time
	dedupID() int
}

// recordEntry inserts entry into its history unless an existing entry has
// the same timestamp and the same identity. First match wins; the scan is
// bounded by the sequence capacity.
func recordEntry[E logRecord](seq *cache.Sequence[E], entry E) bool {
	for _, existing := range seq.Items() {
		if existing.when().Equal(entry.when()) && existing.dedupID() == entry.dedupID() {
			return false
		}
	}
	seq.Add(entry)
	return true
}

type joinPayload struct {
	Join      bool   `json:"Join"`
	Timestamp int64  `json:"Timestamp"`
	Player    string `json:"Player"`
}

type killPayload struct {
	Killed    string `json:"Killed"`
	Timestamp int64  `json:"Timestamp"`
	Killer    string `json:"Killer"`
}

type commandPayload struct {
	Player    string `json:"Player"`
	Timestamp int64  `json:"Timestamp"`
	Command   string `json:"Command"`
}

type modCallPayload struct {
	Caller    string `json:"Caller"`
	Moderator string `json:"Moderator"`
	Timestamp int64  `json:"Timestamp"`
}

// Joins fetches join logs and returns the full deduplicated history, newest
// first.
func (l *Logs) Joins(ctx context.Context) ([]*JoinEntry, error) {
	s := l.server
	entries, err := cache.Memoized(s.memo, "logs.joins", func() ([]*JoinEntry, error) {
		body, err := s.get(ctx, "/joinlogs")
		if err != nil {
			return nil, err
		}
		var payload []joinPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("prc: decode join logs: %w", err)
		}
		for _, p := range payload {
			recordEntry(s.cache.JoinLogs, &JoinEntry{
				CreatedAt: time.Unix(p.Timestamp, 0),
				Player:    parseLogPlayer(s, p.Player),
				IsJoin:    p.Join,
			})
		}
		return s.cache.JoinLogs.Items(), nil
	})
	if err != nil {
		return nil, err
	}
	s.refresh()
	return entries, nil
}

// Kills fetches kill logs. The returned slice holds this poll's entries;
// the deduplicated history accumulates in the server cache.
func (l *Logs) Kills(ctx context.Context) ([]*KillEntry, error) {
	s := l.server
	entries, err := cache.Memoized(s.memo, "logs.kills", func() ([]*KillEntry, error) {
		body, err := s.get(ctx, "/killlogs")
		if err != nil {
			return nil, err
		}
		var payload []killPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("prc: decode kill logs: %w", err)
		}
		out := make([]*KillEntry, 0, len(payload))
		for _, p := range payload {
			e := &KillEntry{
				CreatedAt: time.Unix(p.Timestamp, 0),
				Killed:    parseLogPlayer(s, p.Killed),
				Killer:    parseLogPlayer(s, p.Killer),
			}
			recordEntry(s.cache.KillLogs, e)
			out = append(out, e)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	s.refresh()
	return entries, nil
}

// Commands fetches command logs, parsing each command string. The returned
// slice holds this poll's entries; the deduplicated history accumulates in
// the server cache.
func (l *Logs) Commands(ctx context.Context) ([]*CommandEntry, error) {
	s := l.server
	entries, err := cache.Memoized(s.memo, "logs.commands", func() ([]*CommandEntry, error) {
		body, err := s.get(ctx, "/commandlogs")
		if err != nil {
			return nil, err
		}
		var payload []commandPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("prc: decode command logs: %w", err)
		}
		out := make([]*CommandEntry, 0, len(payload))
		for _, p := range payload {
			author := parseLogPlayer(s, p.Player)
			cmd, err := parseCommand(s, p.Command, author)
			if err != nil {
				return nil, err
			}
			e := &CommandEntry{
				CreatedAt: time.Unix(p.Timestamp, 0),
				Author:    author,
				Command:   cmd,
			}
			recordEntry(s.cache.CommandLogs, e)
			out = append(out, e)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	s.refresh()
	return entries, nil
}

// ModCalls fetches mod call logs. Every parsed entry is returned verbatim:
// the acknowledged flag can change between polls for the same call, so the
// kind has no history and is never deduplicated.
func (l *Logs) ModCalls(ctx context.Context) ([]*ModCallEntry, error) {
	s := l.server
	entries, err := cache.Memoized(s.memo, "logs.modcalls", func() ([]*ModCallEntry, error) {
		body, err := s.get(ctx, "/modcalls")
		if err != nil {
			return nil, err
		}
		var payload []modCallPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("prc: decode mod calls: %w", err)
		}
		out := make([]*ModCallEntry, 0, len(payload))
		for _, p := range payload {
			e := &ModCallEntry{
				CreatedAt: time.Unix(p.Timestamp, 0),
				Caller:    parseLogPlayer(s, p.Caller),
			}
			if p.Moderator != "" {
				e.Responder = parseLogPlayer(s, p.Moderator)
				e.IsAcknowledged = true
			}
			out = append(out, e)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	s.refresh()
	return entries, nil
}
