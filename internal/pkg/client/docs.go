// Package client implements the client side of the Try protocol.
//
// The client performs the following steps:
//	1. Connect to the server and generate a session id that is sent with every call.
//	2. Each submitted Try gets the next serial, starting at 1, and is folded into the request checksum.
// 	3. Requests are coalesced by the batcher and sent asynchronously, one call per batch.
// 	4. At most the window size of requests may be sent and unanswered. When the window is full,
// 	   Submit blocks and processes completions until there is room.
// 	5. Replies may complete in any order. Values are paired positionally with the serials of their
// 	   batch, held in a reorder buffer, and delivered to the response handler in serial order.
// 	6. Finish flushes the last partial batch, drains every outstanding call, sends Done and compares
// 	   the server's checksums with the local ones.
//
// Any failed call is fatal to the session: checksums are updated as requests are sent and cannot be
// rolled back to resend one. After a failure every Submit and Finish returns the same error.
//
// A Client is driven from a single goroutine. The only state shared with the transport's goroutines
// is the completion of each Call.
package client
