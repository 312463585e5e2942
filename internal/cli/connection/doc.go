// Package connection is the HTTP client wrapper for the ipadmin backend.
//
//   - session.go: in-memory bearer credential shared by reference
//   - http.go: Client.Send and Do, with one refresh and replay on 401
//   - notify.go: user notifications for request outcomes
//   - errors.go: APIError and TransportError
//   - manager.go: binds the session to the current server
//
// Every request runs initial → (401) → refresh → replay → done. The retried
// flag is local to one Send call, and the refresh request takes its own
// path with no retry, so a 401 from the refresh endpoint ends the call.
package connection
