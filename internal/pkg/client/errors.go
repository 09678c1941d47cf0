package client

import (
	"fmt"

	"github.com/pkg/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrChecksumMismatch indicates that the checksums reported by the server do not match the local ones.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// ErrTransport classifies every failed call. See TransportError.
var ErrTransport = errors.New("transport fault")

// ErrBatchLength indicates that a batch reply does not carry one value per request.
var ErrBatchLength = errors.New("batch response length mismatch")

// ErrDuplicateResponse indicates that a serial was answered twice.
var ErrDuplicateResponse = errors.New("duplicate response")

// ErrFinished indicates that the client has already finished its session.
var ErrFinished = errors.New("session finished")

// ErrNotConnected indicates that the client has no transport.
var ErrNotConnected = errors.New("not connected")

// TransportError reports a call that failed at the transport level.
// It matches ErrTransport with errors.Is.
type TransportError struct {
	Batch Batch
	Err   error
}

func (e *TransportError) Error() string {
	if e.Batch.Size == 0 {
		return fmt.Sprintf("%v: %v", ErrTransport, e.Err)
	}
	return fmt.Sprintf("%v: batch %d (serials %d-%d): %v", ErrTransport,
		e.Batch.ID, e.Batch.First(), e.Batch.Last(), e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// Code returns the gRPC status code of the failure.
func (e *TransportError) Code() codes.Code {
	return status.Code(e.Err)
}
