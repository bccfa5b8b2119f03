package domain

// ChatMessage is one transcript entry. Append-only; the coordinator does
// not deduplicate or rate-limit. SentAt is the client-supplied timestamp,
// echoed verbatim to peers.
type ChatMessage struct {
	Room   RoomKey
	Sender string
	Text   string
	SentAt string
}
