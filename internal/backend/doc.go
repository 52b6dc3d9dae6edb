// Package backend is the HTTP client for the pokedeck REST backend: the
// auth endpoints and the team resource. Operations are pass-throughs with
// no client-side validation, retry, or caching.
package backend
