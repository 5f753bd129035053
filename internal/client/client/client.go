package client

import (
	"context"

	"github.com/dmitrijs2005/mymoment/internal/client/models"
	"github.com/dmitrijs2005/mymoment/internal/rpc"
)

// Client is the backend contract used by the remote auth provider and the
// remote document store.
type Client interface {
	Close() error
	Register(ctx context.Context, email, password string) (*models.Session, error)
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Logout()
	Ping(ctx context.Context) error

	AddEntry(ctx context.Context, e rpc.Entry) (string, error)
	UpdateEntry(ctx context.Context, id string, e rpc.Entry) error
	DeleteEntry(ctx context.Context, id string) error
	// WatchEntries blocks, handing every snapshot to fn, until the stream
	// ends or ctx is done.
	WatchEntries(ctx context.Context, fn func([]rpc.Entry)) error
	ExportEntries(ctx context.Context) (key, url string, err error)
}
