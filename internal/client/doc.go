// Package client implements the Client facade over a single server session.
//
// A Client owns at most one live session at a time. Connect spawns the
// server through a transport and runs the initialization handshake;
// ListTools, CallTool, Request and Notify then issue one blocking exchange
// each; Disconnect tears everything down. After Disconnect the same Client
// may Connect again, which starts a fresh session with a fresh id counter.
//
// The Client uses the protocol package for the request/response pairing and
// the subprocess package for the default process transport.
package client
