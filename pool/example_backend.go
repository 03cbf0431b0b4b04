package pool

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/volts-dev/pool/codec"
)

// probeCodec is resolved once; the "MsgPack" codec is registered by
// codec/msgpack.go's init().
var probeCodec = codec.IdentifyCodec(codec.Use("MsgPack"))

// errProbeRejected is returned by TestConnection when the backend
// answers the liveness probe but reports itself unhealthy.
var errProbeRejected = errors.New("pool: liveness probe rejected")

type probeRequest struct {
	Query string `msgpack:"query"`
}

type probeResponse struct {
	Ok bool `msgpack:"ok"`
}

// dialBackend is an example Backend: a raw TCP session dialed against
// one resolved address, probed with a request/response exchange framed
// by the registered "MsgPack" codec.
type dialBackend struct {
	addr      string
	testQuery string
	conn      net.Conn
}

// DialFactory builds a Factory that resolves an address through resolve
// on every growth attempt and dials it with plain net.Dial. testQuery is
// sent as the liveness probe in TestConnection; an empty testQuery
// disables probing.
func DialFactory(resolve AddressSource, testQuery string) Factory {
	return func(ctx context.Context) (Backend, error) {
		addr, err := resolve(ctx)
		if err != nil {
			return nil, err
		}

		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, err
		}

		return &dialBackend{addr: addr, testQuery: testQuery, conn: conn}, nil
	}
}

func (b *dialBackend) TestConnection() error {
	if b.testQuery == "" {
		return nil
	}

	deadline := time.Now().Add(5 * time.Second)
	if err := b.conn.SetDeadline(deadline); err != nil {
		return err
	}
	defer b.conn.SetDeadline(time.Time{})

	req, err := probeCodec.Encode(probeRequest{Query: b.testQuery})
	if err != nil {
		return err
	}
	if _, err := b.conn.Write(req); err != nil {
		return err
	}

	buf := make([]byte, 4096)
	n, err := b.conn.Read(buf)
	if err != nil {
		return err
	}

	var resp probeResponse
	if err := probeCodec.Decode(buf[:n], &resp); err != nil {
		return err
	}
	if !resp.Ok {
		return errProbeRejected
	}
	return nil
}

func (b *dialBackend) CreateProxy(ctx context.Context, onClose func()) (interface{}, error) {
	return &Conn{conn: b.conn, onClose: onClose}, nil
}

func (b *dialBackend) Destroy(reap bool) error {
	return b.conn.Close()
}

// Conn is the user-facing proxy handed out by a pool built with
// DialFactory. Closing it returns the entry to the pool; the raw socket
// is only actually closed when the backend is destroyed.
type Conn struct {
	conn      net.Conn
	onClose   func()
	closeOnce sync.Once
}

func (c *Conn) Read(p []byte) (int, error)  { return c.conn.Read(p) }
func (c *Conn) Write(p []byte) (int, error) { return c.conn.Write(p) }

func (c *Conn) Close() error {
	c.closeOnce.Do(c.onClose)
	return nil
}
