package core

// Frame is a raw JSON payload headed to or from a client.
type Frame []byte

// SignalConnection abstracts the client messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
