// Package client talks to the MyMoment backend and bootstraps the local
// SQLite database.
//
// GRPCClient keeps the access and refresh tokens of the signed-in user,
// attaches the access token to every call through interceptors, refreshes
// it once when the server reports it expired, and maps gRPC status codes
// to the sentinel errors of package common.
//
// InitDatabase opens the local SQLite file and applies the embedded goose
// migrations.
package client
