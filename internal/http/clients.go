package http

import (
	"context"
	"net/http"

	"github.com/Anand-247/FE-VF/internal/session"
)

// Client is what the handlers may use on behalf of one storefront client.
type Client struct {
	Cart    CartService
	Shop    ShopService
	Profile ProfileStore
}

// ClientResolver hands out the services bound to a client id.
type ClientResolver interface {
	Resolve(ctx context.Context, clientID string) Client
}

// SessionResolver resolves clients to their session.
type SessionResolver struct {
	sessions *session.Manager
}

func NewSessionResolver(sessions *session.Manager) *SessionResolver {
	return &SessionResolver{sessions: sessions}
}

func (r *SessionResolver) Resolve(ctx context.Context, clientID string) Client {
	s := r.sessions.Get(ctx, clientID)
	return Client{Cart: s.Shop, Shop: s.Shop, Profile: s.Profile}
}

func resolveClient(r *http.Request, clients ClientResolver) Client {
	return clients.Resolve(r.Context(), getClientID(r.Context()))
}
