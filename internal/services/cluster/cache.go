package cluster

import (
	"time"
)

// LookupFunc resolves a service name to an address.
type LookupFunc func(serviceName string) (string, error)

type serviceCacheEntry struct {
	address    string
	expiration time.Time
}

type discoveryRequest struct {
	serviceName string
	invalidate  bool
	reply       chan<- discoveryReply
}

type discoveryReply struct {
	address string
	err     error
}

// ServiceCache is an actor that memoizes lookups for ttl. Failed lookups
// are not cached.
type ServiceCache struct {
	entries   map[string]serviceCacheEntry
	ttl       time.Duration
	lookup    LookupFunc
	now       func() time.Time
	requestCh chan discoveryRequest
	quit      chan struct{}
}

func NewServiceCache(ttl time.Duration, lookup LookupFunc) *ServiceCache {
	sc := &ServiceCache{
		entries:   make(map[string]serviceCacheEntry),
		ttl:       ttl,
		lookup:    lookup,
		now:       time.Now,
		requestCh: make(chan discoveryRequest),
		quit:      make(chan struct{}),
	}
	go sc.run()
	return sc
}

func (sc *ServiceCache) run() {
	for {
		select {
		case req := <-sc.requestCh:
			if req.invalidate {
				delete(sc.entries, req.serviceName)
				req.reply <- discoveryReply{}
				continue
			}
			entry, found := sc.entries[req.serviceName]
			if found && sc.now().Before(entry.expiration) {
				req.reply <- discoveryReply{address: entry.address}
				continue
			}

			address, err := sc.lookup(req.serviceName)
			if err == nil {
				sc.entries[req.serviceName] = serviceCacheEntry{
					address:    address,
					expiration: sc.now().Add(sc.ttl),
				}
			} else {
				delete(sc.entries, req.serviceName)
			}
			req.reply <- discoveryReply{address: address, err: err}

		case <-sc.quit:
			return
		}
	}
}

// Discover blocks until the actor answers.
func (sc *ServiceCache) Discover(serviceName string) (string, error) {
	r := sc.ask(discoveryRequest{serviceName: serviceName})
	return r.address, r.err
}

// Invalidate forgets serviceName, e.g. after the cached address refused a
// connection.
func (sc *ServiceCache) Invalidate(serviceName string) {
	sc.ask(discoveryRequest{serviceName: serviceName, invalidate: true})
}

func (sc *ServiceCache) ask(req discoveryRequest) discoveryReply {
	replyCh := make(chan discoveryReply, 1)
	req.reply = replyCh
	select {
	case sc.requestCh <- req:
	case <-sc.quit:
		return discoveryReply{err: ErrNoHealthyInstance}
	}
	return <-replyCh
}

func (sc *ServiceCache) Close() { close(sc.quit) }
