// Package cachehttp exposes a response cache over HTTP for operations
// dashboards and scripted cache management.
//
// The router serves metadata only. Cached values never leave the process
// through this surface, so it can sit on an internal port without leaking
// response content.
//
// # Endpoints
//
//	GET  /stats            cache counters, with monitor snapshot when attached
//	GET  /recommendations  advisory tuning hints, empty without a monitor
//	POST /invalidate       remove one entry, body {"primary": ..., "options": {...}}
//	POST /clear            remove all entries, counters survive
//	POST /sweep            remove expired entries
//
// # Usage
//
//	c, _ := cache.New[string]()
//	mon := monitor.New()
//
//	r := chi.NewRouter()
//	r.Mount("/cache", cachehttp.Router(c, cachehttp.WithAdvisor(mon)))
//
// Responses use a {"data": ...} / {"error": {...}} envelope. A request body
// that cannot be fingerprinted maps to 400 with code key_derivation_failed;
// malformed JSON maps to 400 with code invalid_request.
package cachehttp
