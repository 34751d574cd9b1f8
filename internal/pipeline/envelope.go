package pipeline

// Notification is one inbound message: an opaque body and the topic it
// arrived on. The topic is the sole routing key.
type Notification struct {
	Body        string `json:"body"`
	OriginTopic string `json:"origin_topic"`
}

// Envelope is the batch received per invocation. Immutable once built;
// records are processed independently of one another.
type Envelope struct {
	Records []Notification `json:"records"`
}

// Status classifies the outcome of processing one notification.
type Status string

const (
	StatusPersisted       Status = "persisted"
	StatusDuplicate       Status = "duplicate"
	StatusUnroutable      Status = "unroutable"
	StatusMalformed       Status = "malformed"
	StatusSchemaViolation Status = "schema_violation"
	StatusUnsupported     Status = "unsupported"
	StatusConflict        Status = "conflict"
	StatusInvalidData     Status = "invalid_data"
	StatusTransient       Status = "transient"
)

// Outcome is the per-record result. Exactly one is produced for every
// record in the envelope; nothing is silently dropped.
type Outcome struct {
	Index      int    `json:"index"`
	Topic      string `json:"topic"`
	Status     Status `json:"status"`
	RecordID   string `json:"record_id,omitempty"`
	Diagnostic string `json:"diagnostic,omitempty"`
}
