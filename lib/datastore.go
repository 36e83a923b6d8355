// Copyright (c) 2017 Darren Whitlen <darren@kiwiirc.com>
// released under the MIT license

package pyirc

// DataStoreInterface keeps what we learn about networks between runs.
type DataStoreInterface interface {
	Init(manager *Manager) error
	Close() error
	// GetISupport returns the cached ISUPPORT tokens of a network, nil if
	// there are none.
	GetISupport(network string) ([]string, error)
	SaveISupport(network string, tokens []string) error
	DelISupport(network string) error
	// Networks returns the names of the networks with cached tokens.
	Networks() ([]string, error)
}
