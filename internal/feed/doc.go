// Package feed pushes live item updates to WebSocket subscribers.
//
// The hub publishes one update per completed poll cycle. Subscribers each
// own a growable outbox so a slow reader backlogs privately rather than
// blocking the dispatcher.
package feed
