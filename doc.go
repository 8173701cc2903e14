// Package prc is a client for the PRC (ER:LC) game-server control API.
//
// A Client holds global state (API keys, base URL, global object caches) and
// hands out Server scopes. A Server wraps one game server's endpoints:
// status, players, queue, bans, vehicles, plus the Logs and Commands
// modules. Results of GET endpoints are memoized for a short ephemeral
// window so tight polling loops do not re-issue identical requests, and
// transient state (players, vehicles, join/kill/command logs) is retained in
// bounded per-scope caches across polls. Overlapping log polls are
// deduplicated by timestamp plus a per-kind identity check.
//
// Caches are in-process and scope-owned; nothing is persisted or shared
// across processes.
//
//	client, _ := prc.New(prc.Options{GlobalKey: key, DefaultServerKey: sk})
//	server, _ := client.Server("")
//	status, _ := server.Status(ctx)
//	joins, _ := server.Logs.Joins(ctx)
package prc
