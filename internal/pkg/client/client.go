package client

import (
	"context"
	"time"

	"rpcg/api/rpcgpb"
	"rpcg/internal/pkg/checksum"
	"rpcg/internal/pkg/log"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// DefaultWindowSize is the default number of requests allowed in flight.
const DefaultWindowSize = 20

// DefaultBatchSize disables batching: every request is its own call.
const DefaultBatchSize = 1

// ResponseFunc receives the value of each request, once per request, in
// submission order.
type ResponseFunc func(value uint64)

// Client implements the client behaviour of the Try protocol.
// A Client is not safe for concurrent use.
type Client struct {
	serverAddr  string
	callTimeout time.Duration
	uuid        uuid.UUID

	window     int
	onResponse ResponseFunc

	transport   Transport
	serial      uint64
	inFlight    int
	batch       *batcher
	outstanding []*record
	reorder     *reorderBuffer
	requests    *checksum.Accumulator
	responses   *checksum.Accumulator
	stats       Stats

	err      error
	finished bool
}

// record is one flushed batch awaiting its reply.
type record struct {
	batch Batch
	call  *Call
}

// Stats counts what a Client has done so far.
type Stats struct {
	Submitted   uint64
	Delivered   uint64
	Calls       uint64
	MaxInFlight int
}

// DigestPair is a local digest next to the one the server reported.
type DigestPair struct {
	Local  string
	Remote string
}

// Match reports whether both digests agree.
func (p DigestPair) Match() bool {
	return p.Local == p.Remote
}

// Result is the verdict of a finished session.
type Result struct {
	Client DigestPair
	Server DigestPair
	Match  bool
}

// Cfg configures a Client.
type Cfg func(*Client) error

// WithServerAddr sets the host:port to connect to.
func WithServerAddr(addr string) Cfg {
	return func(c *Client) error {
		c.serverAddr = addr
		return nil
	}
}

// WithCallTimeout bounds every transport call made after Connect.
func WithCallTimeout(d time.Duration) Cfg {
	return func(c *Client) error {
		if d <= 0 {
			return errors.Errorf("call timeout %s must be positive", d)
		}
		c.callTimeout = d
		return nil
	}
}

// WithTransport sets the transport directly instead of dialing.
func WithTransport(t Transport) Cfg {
	return func(c *Client) error {
		c.transport = t
		return nil
	}
}

// WithWindowSize sets the maximum number of requests in flight.
func WithWindowSize(n int) Cfg {
	return func(c *Client) error {
		if n < 1 {
			return errors.Errorf("window size %d must be at least 1", n)
		}
		c.window = n
		return nil
	}
}

// WithBatchSize sets how many requests are coalesced into one call.
// A size of 1 sends every request with a unary Try.
func WithBatchSize(n int) Cfg {
	return func(c *Client) error {
		if n < 1 {
			return errors.Errorf("batch size %d must be at least 1", n)
		}
		c.batch = newBatcher(n)
		return nil
	}
}

// WithResponseHandler sets the function that receives each response.
func WithResponseHandler(fn ResponseFunc) Cfg {
	return func(c *Client) error {
		c.onResponse = fn
		return nil
	}
}

// NewClient creates a new Client with the given configuration.
func NewClient(cfgs ...Cfg) (*Client, error) {
	client := &Client{
		window:      DefaultWindowSize,
		callTimeout: DefaultCallTimeout,
		batch:       newBatcher(DefaultBatchSize),
		reorder:     newReorderBuffer(),
		requests:    checksum.New(),
		responses:   checksum.New(),
	}
	for _, cfg := range cfgs {
		if err := cfg(client); err != nil {
			return nil, errors.Wrap(err, "apply Client cfg failed")
		}
	}
	client.uuid = uuid.New()
	return client, nil
}

// ID returns the session id the client presents to the server.
func (c *Client) ID() uuid.UUID {
	return c.uuid
}

// Stats returns a snapshot of the client's counters.
func (c *Client) Stats() Stats {
	return c.stats
}

// Connect dials the server unless a transport was configured.
func (c *Client) Connect(ctx context.Context) error {
	if c.transport != nil {
		return nil
	}
	t, err := Dial(ctx, c.serverAddr, c.uuid, c.callTimeout)
	if err != nil {
		return err
	}
	c.transport = t
	return nil
}

// Close releases the transport.
func (c *Client) Close() error {
	if c.transport == nil {
		return nil
	}
	return c.transport.Close()
}

// fail makes err sticky: every later Submit or Finish returns it.
func (c *Client) fail(err error) error {
	if c.err == nil {
		c.err = err
	}
	return c.err
}

// Submit sends one Try. If the window is full it first processes
// completions until there is room; it never buffers beyond the window.
func (c *Client) Submit(ctx context.Context, name string, count uint64) error {
	if c.err != nil {
		return c.err
	}
	if c.finished {
		return ErrFinished
	}
	if c.transport == nil {
		return ErrNotConnected
	}
	for c.inFlight >= c.window {
		if err := c.processOne(ctx); err != nil {
			return c.fail(err)
		}
	}

	c.serial++
	req := &rpcgpb.TryRequest{
		Serial: c.serial,
		Name:   name,
		Count:  count,
	}
	c.requests.WriteTry(name, count)
	c.inFlight++
	c.stats.Submitted++
	if c.inFlight > c.stats.MaxInFlight {
		c.stats.MaxInFlight = c.inFlight
	}
	logger.WithFields(log.TryRequestToFields(req)).Trace("submitted try")

	if c.batch.add(req) {
		c.flush(ctx)
	}
	return nil
}

// flush sends whatever the batcher holds as one call.
func (c *Client) flush(ctx context.Context) {
	if c.batch.len() == 0 {
		return
	}
	batch, reqs := c.batch.take()
	var call *Call
	if c.batch.size == 1 {
		call = c.transport.Try(ctx, reqs[0])
	} else {
		call = c.transport.TryBatch(ctx, reqs)
	}
	c.stats.Calls++
	c.outstanding = append(c.outstanding, &record{batch: batch, call: call})
	logger.WithFields(log.BatchToFields(batch.ID, batch.Serials)).Debug("flushed batch")
}

// pick chooses which outstanding call to wait on: the one carrying the
// next serial to deliver, else one that has already completed, else the
// oldest.
func (c *Client) pick() int {
	for i, rec := range c.outstanding {
		if rec.batch.Contains(c.reorder.next) {
			return i
		}
	}
	for i, rec := range c.outstanding {
		if rec.call.Ready() {
			return i
		}
	}
	return 0
}

// processOne waits for exactly one outstanding call to complete and
// delivers every response that is now in order.
func (c *Client) processOne(ctx context.Context) error {
	if len(c.outstanding) == 0 {
		if c.batch.len() == 0 {
			return errors.New("nothing in flight")
		}
		c.flush(ctx)
	}
	i := c.pick()
	rec := c.outstanding[i]
	if _, err := rec.call.Wait(ctx); err != nil && !rec.call.Ready() {
		return errors.Wrap(err, "wait for call failed")
	}
	values, err := rec.call.values, rec.call.err
	if err != nil {
		return &TransportError{Batch: rec.batch, Err: err}
	}
	c.outstanding = append(c.outstanding[:i], c.outstanding[i+1:]...)

	if len(values) != rec.batch.Size {
		return errors.Wrapf(ErrBatchLength, "batch %d: sent %d, received %d",
			rec.batch.ID, rec.batch.Size, len(values))
	}
	for j, serial := range rec.batch.Serials {
		if err := c.reorder.put(serial, values[j]); err != nil {
			return err
		}
	}
	c.inFlight -= rec.batch.Size
	c.reorder.drain(c.deliver)
	return nil
}

func (c *Client) deliver(value uint64) {
	c.responses.WriteUint64(value)
	c.stats.Delivered++
	if c.onResponse != nil {
		c.onResponse(value)
	}
}

// Finish flushes any partial batch, waits for every response to be
// delivered, ends the session with Done and compares checksums.
func (c *Client) Finish(ctx context.Context) (*Result, error) {
	if c.err != nil {
		return nil, c.err
	}
	if c.finished {
		return nil, ErrFinished
	}
	if c.transport == nil {
		return nil, ErrNotConnected
	}
	c.flush(ctx)
	for c.inFlight > 0 {
		if err := c.processOne(ctx); err != nil {
			return nil, c.fail(err)
		}
	}
	if c.reorder.len() != 0 || c.stats.Delivered != c.serial {
		return nil, c.fail(errors.Errorf("drained with %d buffered, %d of %d delivered",
			c.reorder.len(), c.stats.Delivered, c.serial))
	}

	resp, err := c.transport.Done(ctx)
	if err != nil {
		return nil, c.fail(&TransportError{Err: err})
	}
	c.finished = true
	result := &Result{
		Client: DigestPair{Local: c.requests.Hex(), Remote: resp.ClientChecksum},
		Server: DigestPair{Local: c.responses.Hex(), Remote: resp.ServerChecksum},
	}
	result.Match = result.Client.Match() && result.Server.Match()
	logger.WithFields(log.DoneResponseToFields(resp)).WithFields(logrus.Fields{
		"uuid":      c.uuid.String(),
		"delivered": c.stats.Delivered,
		"calls":     c.stats.Calls,
		"match":     result.Match,
	}).Info("client finished")
	return result, nil
}
