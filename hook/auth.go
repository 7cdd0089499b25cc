package hook

import (
	"crypto/subtle"
	"sync"

	"github.com/brinkmq/brink/encoding"
)

// connackReject builds the short-circuiting CONNACK a failed authentication
// hook returns. The chain stops here — the Link sends this back to the
// client and closes the connection without reaching any later hook.
func connackReject(version encoding.ProtocolVersion, reason encoding.ReasonCode) encoding.Packet {
	return &encoding.ConnackPacket{ReasonCode: reason}
}

// BasicAuthHook authenticates CONNECT packets against a username/password
// table held in memory.
type BasicAuthHook struct {
	mu    sync.RWMutex
	users map[string]string
}

// NewBasicAuthHook creates a new basic authentication hook.
func NewBasicAuthHook() *BasicAuthHook {
	return &BasicAuthHook{users: make(map[string]string)}
}

// AddUser adds a user with username and password.
func (h *BasicAuthHook) AddUser(username, password string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.users[username] = password
}

// RemoveUser removes a user by username.
func (h *BasicAuthHook) RemoveUser(username string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.users, username)
}

// HasUser checks if a user exists.
func (h *BasicAuthHook) HasUser(username string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, exists := h.users[username]
	return exists
}

// UserCount returns the number of registered users.
func (h *BasicAuthHook) UserCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users)
}

// Clear removes all users.
func (h *BasicAuthHook) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.users = make(map[string]string)
}

// LoadUsers loads multiple users at once.
func (h *BasicAuthHook) LoadUsers(users map[string]string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for username, password := range users {
		h.users[username] = password
	}
}

func (h *BasicAuthHook) authenticate(username string, password []byte) bool {
	h.mu.RLock()
	expectedPassword, exists := h.users[username]
	h.mu.RUnlock()

	if !exists {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expectedPassword), password) == 1
}

// Func returns the hook chain callback: it inspects CONNECT packets only,
// rejecting with CONNACK/BadUsernameOrPassword on failure and otherwise
// passing the chain through to the next hook.
func (h *BasicAuthHook) Func() Func {
	return func(pkt encoding.Packet) (encoding.Packet, error) {
		connect, ok := pkt.(*encoding.ConnectPacket)
		if !ok {
			return nil, nil
		}
		if h.authenticate(connect.Username, connect.Password) {
			return nil, nil
		}
		return connackReject(connect.ProtocolVersion, encoding.ReasonBadUsernameOrPassword), nil
	}
}

// AnonymousAuthHook controls whether a CONNECT carrying no username or
// password is accepted.
type AnonymousAuthHook struct {
	mu             sync.RWMutex
	allowAnonymous bool
}

// NewAnonymousAuthHook creates a hook that controls anonymous access.
func NewAnonymousAuthHook(allowAnonymous bool) *AnonymousAuthHook {
	return &AnonymousAuthHook{allowAnonymous: allowAnonymous}
}

// SetAllowAnonymous sets whether to allow anonymous connections.
func (h *AnonymousAuthHook) SetAllowAnonymous(allow bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.allowAnonymous = allow
}

// IsAnonymousAllowed returns whether anonymous connections are allowed.
func (h *AnonymousAuthHook) IsAnonymousAllowed() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.allowAnonymous
}

// Func returns the hook chain callback: a CONNECT with no username and no
// password is rejected unless anonymous access is allowed; any other
// CONNECT, or any non-CONNECT packet, passes through unchanged.
func (h *AnonymousAuthHook) Func() Func {
	return func(pkt encoding.Packet) (encoding.Packet, error) {
		connect, ok := pkt.(*encoding.ConnectPacket)
		if !ok {
			return nil, nil
		}
		if connect.Username != "" || connect.Password != nil {
			return nil, nil
		}

		h.mu.RLock()
		allow := h.allowAnonymous
		h.mu.RUnlock()

		if allow {
			return nil, nil
		}
		return connackReject(connect.ProtocolVersion, encoding.ReasonNotAuthorized), nil
	}
}
