// Package identity defines the contract the sync layer consumes from the
// external identity provider. Login, signup token exchange and refresh live
// outside this module; the core only reads the current user and credential.
package identity

import "sync"

// User is the authenticated shopper as reported by the identity provider.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Verified bool   `json:"is_verified"`
}

// CredentialProvider supplies the current bearer credential. The second
// return value is false when no user is authenticated.
type CredentialProvider interface {
	Credential() (string, bool)
}

// Provider is the full identity contract: credential plus current user and
// change notification.
type Provider interface {
	CredentialProvider
	CurrentUser() (User, bool)
	OnAuthChange(fn func(User, bool)) (cancel func())
}

// MemoryProvider is an in-memory Provider used for wiring and tests.
type MemoryProvider struct {
	mu     sync.Mutex
	user   User
	token  string
	authed bool
	subs   map[int]func(User, bool)
	nextID int
}

// NewMemoryProvider creates an unauthenticated MemoryProvider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{subs: make(map[int]func(User, bool))}
}

// SignIn records the user and credential and notifies subscribers.
func (p *MemoryProvider) SignIn(user User, token string) {
	p.mu.Lock()
	p.user = user
	p.token = token
	p.authed = true
	subs := p.snapshotSubs()
	p.mu.Unlock()

	for _, fn := range subs {
		fn(user, true)
	}
}

// SignOut clears the credential and notifies subscribers.
func (p *MemoryProvider) SignOut() {
	p.mu.Lock()
	p.user = User{}
	p.token = ""
	p.authed = false
	subs := p.snapshotSubs()
	p.mu.Unlock()

	for _, fn := range subs {
		fn(User{}, false)
	}
}

// Credential implements CredentialProvider.
func (p *MemoryProvider) Credential() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.token, p.authed
}

// CurrentUser implements Provider.
func (p *MemoryProvider) CurrentUser() (User, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.user, p.authed
}

// OnAuthChange implements Provider.
func (p *MemoryProvider) OnAuthChange(fn func(User, bool)) (cancel func()) {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

func (p *MemoryProvider) snapshotSubs() []func(User, bool) {
	subs := make([]func(User, bool), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	return subs
}
