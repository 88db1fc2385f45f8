package realtime

import (
	"sync"
)

// Router tracks the live connections of one namespace and their room
// membership. Chat namespaces key rooms by conversation id; the delivery
// namespace skips rooms and fans out namespace-wide. Membership is mutated
// only by the owning gateway on join/leave/disconnect.
type Router struct {
	mu           sync.RWMutex
	sessions     map[string]*Connection            // connectionID -> connection
	userSessions map[string]string                 // userID -> connectionID
	rooms        map[string]map[string]*Connection // roomID -> connectionID -> connection
	sessionRooms map[string]map[string]struct{}    // connectionID -> set of roomIDs
}

// NewRouter constructs an empty Router.
func NewRouter() *Router {
	return &Router{
		sessions:     make(map[string]*Connection),
		userSessions: make(map[string]string),
		rooms:        make(map[string]map[string]*Connection),
		sessionRooms: make(map[string]map[string]struct{}),
	}
}

// Attach registers a connection and starts its write loop. A user gets one
// active socket per namespace; an earlier socket for the same user is closed
// after the swap.
func (r *Router) Attach(conn *Connection) {
	var previous *Connection

	r.mu.Lock()
	if existingID, ok := r.userSessions[conn.UserID]; ok {
		if existing := r.sessions[existingID]; existing != nil {
			previous = existing
			r.detachLocked(existingID)
		}
	}
	r.sessions[conn.ID] = conn
	r.userSessions[conn.UserID] = conn.ID
	r.sessionRooms[conn.ID] = make(map[string]struct{})
	r.mu.Unlock()

	conn.Start()

	if previous != nil {
		previous.Close(4001, "session replaced")
	}
}

// Detach removes a connection and releases all of its room membership.
func (r *Router) Detach(conn *Connection) {
	r.mu.Lock()
	r.detachLocked(conn.ID)
	r.mu.Unlock()
}

// Join adds the connection to roomID. Untracked connections are ignored.
func (r *Router) Join(roomID string, conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[conn.ID]; !ok {
		return
	}

	room := r.rooms[roomID]
	if room == nil {
		room = make(map[string]*Connection)
		r.rooms[roomID] = room
	}
	room[conn.ID] = conn

	memberships := r.sessionRooms[conn.ID]
	if memberships == nil {
		memberships = make(map[string]struct{})
		r.sessionRooms[conn.ID] = memberships
	}
	memberships[roomID] = struct{}{}
}

// Leave removes the connection from roomID.
func (r *Router) Leave(roomID string, conn *Connection) {
	r.mu.Lock()
	r.leaveLocked(roomID, conn.ID)
	r.mu.Unlock()
}

// Broadcast writes payload to every member of roomID, the sender included.
// It returns the number of successful deliveries.
func (r *Router) Broadcast(roomID string, payload []byte) int {
	r.mu.RLock()
	room := r.rooms[roomID]
	conns := make([]*Connection, 0, len(room))
	for _, conn := range room {
		conns = append(conns, conn)
	}
	r.mu.RUnlock()

	delivered := 0
	for _, conn := range conns {
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

// BroadcastAll writes payload to every connection in the namespace except the
// one identified by excludeUserID (empty string excludes nobody). Used by the
// delivery namespace where fan-out is not room-scoped.
func (r *Router) BroadcastAll(payload []byte, excludeUserID string) int {
	r.mu.RLock()
	conns := make([]*Connection, 0, len(r.sessions))
	for _, conn := range r.sessions {
		if excludeUserID != "" && conn.UserID == excludeUserID {
			continue
		}
		conns = append(conns, conn)
	}
	r.mu.RUnlock()

	delivered := 0
	for _, conn := range conns {
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

// NotifyUser delivers payload to the active connection of userID, if any.
func (r *Router) NotifyUser(userID string, payload []byte) bool {
	r.mu.RLock()
	connID, ok := r.userSessions[userID]
	if !ok {
		r.mu.RUnlock()
		return false
	}
	conn := r.sessions[connID]
	r.mu.RUnlock()
	if conn == nil {
		return false
	}
	return conn.Send(payload) == nil
}

// IsConnected reports whether userID has an active connection.
func (r *Router) IsConnected(userID string) bool {
	r.mu.RLock()
	_, ok := r.userSessions[userID]
	r.mu.RUnlock()
	return ok
}

// Close terminates every tracked connection and resets router state.
func (r *Router) Close() {
	r.mu.Lock()
	conns := make([]*Connection, 0, len(r.sessions))
	for _, conn := range r.sessions {
		conns = append(conns, conn)
	}
	r.sessions = make(map[string]*Connection)
	r.userSessions = make(map[string]string)
	r.rooms = make(map[string]map[string]*Connection)
	r.sessionRooms = make(map[string]map[string]struct{})
	r.mu.Unlock()

	for _, conn := range conns {
		conn.Close(1001, "router shutdown")
	}
}

func (r *Router) detachLocked(connID string) {
	conn, ok := r.sessions[connID]
	if !ok {
		return
	}
	delete(r.sessions, connID)

	if current, ok := r.userSessions[conn.UserID]; ok && current == connID {
		delete(r.userSessions, conn.UserID)
	}

	for roomID := range r.sessionRooms[connID] {
		r.leaveLocked(roomID, connID)
	}
	delete(r.sessionRooms, connID)
}

func (r *Router) leaveLocked(roomID string, connID string) {
	room := r.rooms[roomID]
	if room == nil {
		return
	}
	delete(room, connID)
	if len(room) == 0 {
		delete(r.rooms, roomID)
	}
	if memberships, ok := r.sessionRooms[connID]; ok {
		delete(memberships, roomID)
	}
}
