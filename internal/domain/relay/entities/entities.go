// Package entities contains domain entities
package entities

// Conversation identifies the message a request came from. Replies are
// sent to ChatID and threaded to MessageID.
type Conversation struct {
	ChatID    int64
	MessageID int
}

// MediaFile is one file produced by an extraction, located inside the
// request's temporary directory
type MediaFile struct {
	Path string
	Name string
}

// EngineRecord is one media record reported by the extraction engine
type EngineRecord struct {
	ID       string
	Filename string
	Ext      string
}

// ReplyKind is the Telegram reply channel used for a file
type ReplyKind string

const (
	ReplyVideo    ReplyKind = "video"
	ReplyPhoto    ReplyKind = "photo"
	ReplyDocument ReplyKind = "document"
)
