// Package mcpclient is a client for tool servers that speak line-delimited
// JSON-RPC over a child process's stdin and stdout.
//
// The client spawns the server, performs the initialization handshake, and
// then issues one request at a time, reading exactly one reply line per
// request. Replies are paired with requests by arrival order.
//
// # Basic Usage
//
//	ctx := context.Background()
//	client := mcpclient.NewClient()
//	defer client.Disconnect()
//
//	if err := client.Connect(ctx, "my-server", []string{"--stdio"},
//	    mcpclient.WithLogger(slog.Default()),
//	); err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := client.CallTool(ctx, "echo", map[string]any{"message": "hi"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if resp.IsError() {
//	    log.Printf("server error: %v", resp.Err())
//	}
//
// # Errors
//
// Transport and codec failures are Go errors: SpawnError when the server
// cannot be started, TransportClosedError when it goes away mid-call,
// EncodeError and DecodeError for messages that cannot be represented.
// A protocol error reply from the server is NOT a Go error; it is a
// Response whose IsError reports true. DecodeTools and DecodeCallToolResult
// turn such replies into *RPCError.
//
// # Lifecycle
//
// Connect moves a client from StateDisconnected through StateConnecting and
// StateAwaitingInit to StateReady. End of stream or a write failure moves
// it back to StateDisconnected, after which calls fail until the client is
// connected again. Disconnect never fails and may be called at any time.
//
// # Cancellation
//
// Every blocking call takes a context.Context. Cancelling a call that is
// waiting for a reply terminates the server process, because the reply can
// no longer be paired with its request.
package mcpclient
