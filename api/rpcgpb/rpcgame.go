// Package rpcgpb defines the RPCGame wire messages and the gRPC service
// that carries them. Messages are encoded with msgpack rather than
// protobuf; see codec.go.
package rpcgpb

// TryRequest carries one logical Try.
type TryRequest struct {
	Serial uint64 `msgpack:"serial"`
	Name   string `msgpack:"name"`
	Count  uint64 `msgpack:"count"`
}

// TryResponse carries the value computed for one Try.
type TryResponse struct {
	Value uint64 `msgpack:"value"`
}

// TryBatchRequest carries several Tries in ascending serial order.
type TryBatchRequest struct {
	Items []*TryRequest `msgpack:"items"`
}

// TryBatchResponse carries one value per item of the batch, in the same
// order as the request items.
type TryBatchResponse struct {
	Values []uint64 `msgpack:"values"`
}

// DoneRequest ends the session.
type DoneRequest struct{}

// DoneResponse carries the server's readout of both checksums.
type DoneResponse struct {
	ClientChecksum string `msgpack:"client_checksum"`
	ServerChecksum string `msgpack:"server_checksum"`
}

// SessionMetadataKey is the gRPC metadata key carrying the client session id.
const SessionMetadataKey = "rpcg-session"
