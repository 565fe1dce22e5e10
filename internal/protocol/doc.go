// Package protocol implements request correlation and the initialization
// handshake for stdio sessions.
//
// A Session owns the line transport of one connection. It assigns
// increasing integer ids to requests, writes each request as one line and
// treats the very next line read as its reply. At most one request is in
// flight, so replies are matched by position rather than by id; an id
// mismatch is logged but does not change which response is returned.
//
// The Session enforces the handshake order: the initialize request, its
// reply, then the initialized notification. Nothing else may be sent until
// the session is Ready.
//
// Example usage:
//
//	transport := subprocess.NewProcessTransport(log, "my-server", nil, options)
//	transport.Start(ctx)
//
//	session := protocol.NewSession(log, transport, protocol.Config{})
//	if _, err := session.Initialize(ctx); err != nil {
//	    return err
//	}
//
//	resp, err := session.Request(ctx, "tools/list", &mcp.ListToolsParams{})
package protocol
