package websocket

import (
	"log/slog"
	"sync"

	"github.com/lorrc/ticket-chat-backend/internal/core/domain"
	"github.com/lorrc/ticket-chat-backend/internal/core/ports"
)

// Router owns the live connection set and the group membership maps. It is
// the single synchronization boundary for membership state: the
// connection->groups and group->connections indexes are only ever mutated
// together under r.mu, so they cannot drift apart.
type Router struct {
	// clients maps connection IDs to their transport clients, the
	// delivery targets for broadcasts.
	clients map[string]*Client

	// memberships maps a connection ID to the groups it has joined.
	memberships map[string]map[domain.Group]struct{}

	// groups maps a group to its member connection IDs. Groups are
	// created lazily on first join and removed when their last member
	// leaves.
	groups map[domain.Group]map[string]struct{}

	// mu protects all three maps.
	mu sync.RWMutex

	// logger for the router
	logger *slog.Logger
}

// Ensure Router implements both hub-facing ports.
var (
	_ ports.ConnectionRegistry = (*Router)(nil)
	_ ports.GroupRouter        = (*Router)(nil)
)

// NewRouter creates an empty connection and group registry.
func NewRouter(logger *slog.Logger) *Router {
	return &Router{
		clients:     make(map[string]*Client),
		memberships: make(map[string]map[domain.Group]struct{}),
		groups:      make(map[domain.Group]map[string]struct{}),
		logger:      logger.With("component", "websocket_router"),
	}
}

// Bind attaches a transport client as the delivery target for its connection
// ID. Called by the upgrade handler before the connection is registered.
func (r *Router) Bind(client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[client.ID] = client
}

// Register creates an empty membership set for the connection. Idempotent:
// registering a known connection leaves its memberships untouched.
func (r *Router) Register(connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.memberships[connectionID]; ok {
		return
	}
	r.memberships[connectionID] = make(map[domain.Group]struct{})
}

// Unregister removes the connection from every group it belonged to, then
// discards its membership set and delivery target. Safe for unknown
// connections and for partially cleaned-up state: removing a connection from
// a group it is not in is a no-op.
func (r *Router) Unregister(connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for group := range r.memberships[connectionID] {
		r.removeMemberLocked(connectionID, group)
	}
	delete(r.memberships, connectionID)

	if client, ok := r.clients[connectionID]; ok {
		delete(r.clients, connectionID)
		client.CloseSend()
	}
}

// Join adds the connection to the group, creating the group lazily.
// Idempotent. Joins for connections that were never registered (or already
// unregistered by a racing disconnect) are dropped.
func (r *Router) Join(connectionID string, group domain.Group) {
	r.mu.Lock()
	defer r.mu.Unlock()

	groups, ok := r.memberships[connectionID]
	if !ok {
		r.logger.Warn("join for unknown connection",
			"connection_id", connectionID,
			"group", group,
		)
		return
	}

	groups[group] = struct{}{}
	if r.groups[group] == nil {
		r.groups[group] = make(map[string]struct{})
	}
	r.groups[group][connectionID] = struct{}{}

	r.logger.Debug("connection joined group",
		"connection_id", connectionID,
		"group", group,
		"group_size", len(r.groups[group]),
	)
}

// Leave removes the connection from the group. No-op for non-members.
func (r *Router) Leave(connectionID string, group domain.Group) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeMemberLocked(connectionID, group)
	if groups, ok := r.memberships[connectionID]; ok {
		delete(groups, group)
	}

	r.logger.Debug("connection left group",
		"connection_id", connectionID,
		"group", group,
	)
}

// removeMemberLocked drops a connection from a group's member set and
// deletes the group once empty. Caller holds r.mu.
func (r *Router) removeMemberLocked(connectionID string, group domain.Group) {
	members, ok := r.groups[group]
	if !ok {
		return
	}
	delete(members, connectionID)
	if len(members) == 0 {
		delete(r.groups, group)
	}
}

// Broadcast delivers the event to the group's current members, sender
// included. Delivery to each member is independent: a member whose send
// buffer is full (a dead or stuck transport) has the event dropped with a
// log line, and the remaining members still receive it. Nothing propagates
// back to the caller.
//
// The read lock is held across the fan-out. Unregister closes a client's
// Send channel only under the write lock, so a send here can never race the
// close; the sends themselves never block (select with default), so the
// hold time stays bounded.
func (r *Router) Broadcast(group domain.Group, event domain.Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.groups[group]
	if !ok {
		return
	}

	r.logger.Debug("broadcasting event",
		"event_type", event.Type,
		"group", group,
		"member_count", len(members),
	)

	for connectionID := range members {
		client, bound := r.clients[connectionID]
		if !bound {
			continue
		}

		select {
		case client.Send <- event:
			// Queued for the client's write pump.
		default:
			r.logger.Warn("client send buffer full, dropping event",
				"connection_id", client.ID,
				"group", group,
				"event_type", event.Type,
			)
		}
	}
}

// ConnectionCount returns the number of registered connections.
func (r *Router) ConnectionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.memberships)
}

// GroupSize returns the number of members currently in a group.
func (r *Router) GroupSize(group domain.Group) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.groups[group])
}

// GroupCount returns the number of groups with at least one member.
func (r *Router) GroupCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.groups)
}
