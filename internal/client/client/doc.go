// Package client contains the client-side building blocks for talking to a
// GophDrive backend and keeping local state.
//
// # Overview
//
// The package provides:
//  1. The backend API contract (see the Client interface): existence check,
//     chunk upload, merge and cancel for resumable uploads, plus listing and
//     file management calls.
//  2. A concrete HTTP implementation (see HTTPClient) speaking the backend's
//     JSON API, with multipart chunk uploads and a request id header on
//     every call.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations,
//     NewRepositories) wiring an SQLite database with embedded goose
//     migrations.
//
// # Error Handling
//
// Transport failures match ErrUnavailable. Non-2xx responses are returned as
// *APIError, which unwraps to ErrBadRequest, ErrServer, ErrUnavailable or
// common.ErrNotFound. CreateFolder maps the backend's "already exists"
// answer to common.ErrAlreadyExists.
//
// All operations accept context.Context and honor cancellation.
package client
