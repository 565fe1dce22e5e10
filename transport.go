package mcpclient

import "github.com/wagiedev/mcp-client-go/internal/config"

// Transport defines the interface for line-oriented server communication.
// Implement this to provide custom transports for testing, mocking,
// or alternative communication methods.
//
// The default implementation spawns the server as a subprocess.
// Custom transports can be injected with WithTransport.
type Transport = config.Transport
