// Package server implements the server side of the Try protocol.
//
// The server performs the following steps:
// 	1. Sets up a gRPC server speaking msgpack for the RPCGame service.
// 	2. Each Try (or each item of a TryBatch) carries a client serial. The call waits in the
// 	   session's sequencer until every lower serial has been processed, so requests are applied
// 	   in submission order even when they arrive out of order on different transport workers.
// 	3. Applying a Try folds the request into the client checksum, computes the response value
// 	   from the name hash, the count and the running response counter, and folds the value into
// 	   the server checksum.
// 	4. Done reads out both checksums, which finalizes the session, and schedules a stop after a
// 	   short grace period so the reply can reach the client.
//
// A Server serves exactly one session and is bound to the first client session id it sees.
package server
