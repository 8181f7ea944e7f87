package service

// Service is a long-lived piece of process infrastructure owned by a Hub:
// the network transport, audio output, the terminal and the record store
//
// The hub calls Init with the args registered under Name, then Start once every
// service has initialized, and Stop in reverse order on shutdown
type Service interface {
	Name() string

	// Dependencies names services that must initialize first
	Dependencies() []string

	// Init takes service-specific args, e.g. a network config or a database path
	// A service may disable itself here instead of failing
	Init(args ...any) error

	// Start launches background goroutines
	Start() error

	// Stop releases resources; it must tolerate repeated calls
	Stop() error
}

// ResourcePublisher receives a collaborator from a service; the session routes it by type
type ResourcePublisher func(resource any)

// ResourceContributor is implemented by services that hand providers to the session
// (transport, sound player, effect renderer)
type ResourceContributor interface {
	Contribute(publish ResourcePublisher)
}
