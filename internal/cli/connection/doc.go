// Package connection provides the memkv-cli transports.
//
//   - client.go: Client, a synchronous RESP client over TCP
//   - pool.go: Pool, a go-commons-pool backed set of Clients for load tests
//   - manager.go: Manager, the current connection of an interactive session
//   - http.go: HTTPClient for the server's admin endpoints
package connection
