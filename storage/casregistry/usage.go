package casregistry

// Usage restricts which programs should accept a given backend.
//
// Backends register themselves via init() and are enabled in a binary by
// importing the backend package (often as a blank import).
type Usage uint8

const (
	// UsageCLI indicates the backend should be available in the cryptodiff CLI.
	UsageCLI Usage = 1 << iota
	// UsageDaemon indicates the backend should be available in corpusd.
	UsageDaemon
)

func (u Usage) allows(want Usage) bool { return u&want != 0 }
