package ws

// Client is one live signaling connection.
type Client interface {
	ID() string
	Send(v any) error
	Close() error
}
