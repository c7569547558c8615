// Package ergast talks to an Ergast-compatible F1 statistics API.
//
// Responses arrive in an MRData envelope with one resource table per
// endpoint. The envelope is decoded into typed tables so that a missing
// required key fails with an explicit schema error instead of silently
// reading as "no data"; the per-item payloads stay as open maps because
// their column sets vary across seasons and are flattened generically
// downstream.
package ergast
