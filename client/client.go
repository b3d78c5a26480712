package client

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nullkey/goradieschen/protocol"
)

// ErrServerGone mirrors the source's EOFError-derived "server went away":
// the peer closed the connection mid-request.
var ErrServerGone = errors.New("server went away")

// CommandError wraps a wire "-" error reply surfaced back to the caller.
type CommandError struct {
	Message string
}

func (e *CommandError) Error() string { return e.Message }

// Client is a thin wrapper over a pooled connection exposing one method
// per wire command, matching the source's Client class method-for-method.
type Client struct {
	host string
	port string
	pool *SocketPool
}

func New(host string, port int, poolMaxAge time.Duration) *Client {
	return &Client{
		host: host,
		port: strconv.Itoa(port),
		pool: NewSocketPool(host, strconv.Itoa(port), poolMaxAge),
	}
}

// Execute checks out a socket for id, writes args as a bulk-string array
// request, reads one reply, and checks the socket back in (or closes it,
// on error or after QUIT/SHUTDOWN).
func (c *Client) Execute(id CallerID, args ...string) (protocol.Value, error) {
	pc, err := c.pool.Checkout(id)
	if err != nil {
		return protocol.Value{}, err
	}

	closeConn := len(args) > 0 && (args[0] == "QUIT" || args[0] == "SHUTDOWN")

	argv := make([]protocol.Value, len(args))
	for i, a := range args {
		argv[i] = protocol.BulkBytes([]byte(a))
	}

	if err := protocol.Encode(pc.conn, protocol.Array(argv)); err != nil {
		c.pool.Close(id)
		return protocol.Value{}, err
	}

	reply, err := protocol.Decode(pc.reader)
	if err != nil {
		c.pool.Close(id)
		return protocol.Value{}, ErrServerGone
	}

	if closeConn {
		c.pool.Close(id)
	} else {
		c.pool.Checkin(id)
	}

	if reply.Kind == protocol.KindError {
		return protocol.Value{}, &CommandError{Message: reply.Str}
	}
	return reply, nil
}

func (c *Client) command(id CallerID, name string, args ...string) (protocol.Value, error) {
	return c.Execute(id, append([]string{name}, args...)...)
}

// --- scalar commands ---

func (c *Client) Get(id CallerID, key string) (protocol.Value, error) { return c.command(id, "GET", key) }
func (c *Client) Set(id CallerID, key, value string) (protocol.Value, error) {
	return c.command(id, "SET", key, value)
}
func (c *Client) SetNX(id CallerID, key, value string) (protocol.Value, error) {
	return c.command(id, "SETNX", key, value)
}
func (c *Client) SetEX(id CallerID, key, value string, seconds int64) (protocol.Value, error) {
	return c.command(id, "SETEX", key, value, strconv.FormatInt(seconds, 10))
}
func (c *Client) Append(id CallerID, key, value string) (protocol.Value, error) {
	return c.command(id, "APPEND", key, value)
}
func (c *Client) Delete(id CallerID, key string) (protocol.Value, error) {
	return c.command(id, "DELETE", key)
}
func (c *Client) Exists(id CallerID, key string) (protocol.Value, error) {
	return c.command(id, "EXISTS", key)
}
func (c *Client) GetSet(id CallerID, key, value string) (protocol.Value, error) {
	return c.command(id, "GETSET", key, value)
}
func (c *Client) Pop(id CallerID, key string) (protocol.Value, error) { return c.command(id, "POP", key) }
func (c *Client) Incr(id CallerID, key string) (protocol.Value, error) {
	return c.command(id, "INCR", key)
}
func (c *Client) Decr(id CallerID, key string) (protocol.Value, error) {
	return c.command(id, "DECR", key)
}
func (c *Client) IncrBy(id CallerID, key string, delta int64) (protocol.Value, error) {
	return c.command(id, "INCRBY", key, strconv.FormatInt(delta, 10))
}
func (c *Client) DecrBy(id CallerID, key string, delta int64) (protocol.Value, error) {
	return c.command(id, "DECRBY", key, strconv.FormatInt(delta, 10))
}
func (c *Client) Len(id CallerID) (protocol.Value, error) { return c.command(id, "LEN") }
func (c *Client) Flush(id CallerID) (protocol.Value, error) { return c.command(id, "FLUSH") }

// --- set commands ---

func (c *Client) SAdd(id CallerID, key string, members ...string) (protocol.Value, error) {
	return c.command(id, "SADD", append([]string{key}, members...)...)
}
func (c *Client) SCard(id CallerID, key string) (protocol.Value, error) {
	return c.command(id, "SCARD", key)
}
func (c *Client) SMembers(id CallerID, key string) (protocol.Value, error) {
	return c.command(id, "SMEMBERS", key)
}
func (c *Client) SIsMember(id CallerID, key, member string) (protocol.Value, error) {
	return c.command(id, "SISMEMBER", key, member)
}
func (c *Client) SRem(id CallerID, key string, members ...string) (protocol.Value, error) {
	return c.command(id, "SREM", append([]string{key}, members...)...)
}

// --- hash commands ---

func (c *Client) HSet(id CallerID, key, field, value string) (protocol.Value, error) {
	return c.command(id, "HSET", key, field, value)
}
func (c *Client) HGet(id CallerID, key, field string) (protocol.Value, error) {
	return c.command(id, "HGET", key, field)
}
func (c *Client) HGetAll(id CallerID, key string) (protocol.Value, error) {
	return c.command(id, "HGETALL", key)
}
func (c *Client) HDel(id CallerID, key string, fields ...string) (protocol.Value, error) {
	return c.command(id, "HDEL", append([]string{key}, fields...)...)
}

// --- queue commands ---

func (c *Client) LPush(id CallerID, key string, values ...string) (protocol.Value, error) {
	return c.command(id, "LPUSH", append([]string{key}, values...)...)
}
func (c *Client) RPush(id CallerID, key string, values ...string) (protocol.Value, error) {
	return c.command(id, "RPUSH", append([]string{key}, values...)...)
}
func (c *Client) LPop(id CallerID, key string) (protocol.Value, error) {
	return c.command(id, "LPOP", key)
}
func (c *Client) RPop(id CallerID, key string) (protocol.Value, error) {
	return c.command(id, "RPOP", key)
}
func (c *Client) LRange(id CallerID, key string, start, end int64) (protocol.Value, error) {
	return c.command(id, "LRANGE", key, strconv.FormatInt(start, 10), strconv.FormatInt(end, 10))
}

// --- misc ---

func (c *Client) Expire(id CallerID, key string, seconds int64) (protocol.Value, error) {
	return c.command(id, "EXPIRE", key, strconv.FormatInt(seconds, 10))
}
func (c *Client) FlushAll(id CallerID) (protocol.Value, error) { return c.command(id, "FLUSHALL") }
func (c *Client) Save(id CallerID, path string) (protocol.Value, error) {
	return c.command(id, "SAVE", path)
}
func (c *Client) Restore(id CallerID, path string) (protocol.Value, error) {
	return c.command(id, "RESTORE", path)
}
func (c *Client) Merge(id CallerID, path string) (protocol.Value, error) {
	return c.command(id, "MERGE", path)
}
func (c *Client) Quit(id CallerID) (protocol.Value, error)     { return c.command(id, "QUIT") }
func (c *Client) Shutdown(id CallerID) (protocol.Value, error) { return c.command(id, "SHUTDOWN") }

// String renders a reply for display, used by the interactive CLI.
func String(v protocol.Value) string {
	switch v.Kind {
	case protocol.KindBulk:
		if v.Null {
			return "(nil)"
		}
		return string(v.Bytes)
	case protocol.KindSimpleString:
		return v.Str
	case protocol.KindInteger:
		if v.IsFloat {
			return strconv.FormatFloat(v.Float, 'g', -1, 64)
		}
		return strconv.FormatInt(v.Int, 10)
	case protocol.KindText:
		return v.Text
	default:
		return fmt.Sprintf("%+v", v)
	}
}
