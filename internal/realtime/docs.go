// Package realtime is the in-process fan-out layer: it tracks which actors
// are connected and pushes event notifications to them.
//
// A Session is one live connection with a buffered outbound queue. The
// Registry indexes sessions by connection, by user, and by group, so one
// user with three devices has three sessions. The Bus implements event
// publishing over the registry: fire-and-forget, a full session queue drops
// the notification for that session instead of blocking the publisher.
package realtime
