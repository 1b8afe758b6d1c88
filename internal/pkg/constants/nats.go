package constants

// NATS subject formats for the push channel
const (
	SubjectClientInbox   = "%s.%s.inbox"  // Format: {prefix}.{user_id}.inbox
	SubjectClientOutbox  = "%s.%s.outbox" // Format: {prefix}.{user_id}.outbox
	SubjectClientConnect = "%s.connect"   // Format: {prefix}.connect
)
