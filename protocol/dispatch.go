package protocol

import (
	"errors"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nullkey/goradieschen/store"
)

// CommandFunc is the shape of every registered command: the remaining
// argv (everything after the command name) in, one wire reply out.
type CommandFunc func(s *store.Store, args []Value) (Value, error)

// commands is the fixed dispatch table, built once at package init,
// mirroring the Python source's self._commands dict literal generalized
// to Go's map-of-functions idiom.
var commands map[string]CommandFunc

func init() {
	commands = map[string]CommandFunc{
		"GET":     cmdGet,
		"SET":     cmdSet,
		"SETNX":   cmdSetNX,
		"SETEX":   cmdSetEX,
		"APPEND":  cmdAppend,
		"DELETE":  cmdDelete,
		"EXISTS":  cmdExists,
		"GETSET":  cmdGetSet,
		"POP":     cmdPop,
		"INCR":    cmdIncr,
		"DECR":    cmdDecr,
		"INCRBY":  cmdIncrBy,
		"DECRBY":  cmdDecrBy,
		"MGET":    cmdMGet,
		"MSET":    cmdMSet,
		"MSETEX":  cmdMSetEX,
		"MDELETE": cmdMDelete,
		"MPOP":    cmdMPop,
		"LEN":     cmdLen,
		"FLUSH":   cmdFlush,

		"SADD":        cmdSAdd,
		"SCARD":       cmdSCard,
		"SDIFF":       cmdSDiff,
		"SDIFFSTORE":  cmdSDiffStore,
		"SINTER":      cmdSInter,
		"SINTERSTORE": cmdSInterStore,
		"SISMEMBER":   cmdSIsMember,
		"SMEMBERS":    cmdSMembers,
		"SPOP":        cmdSPop,
		"SREM":        cmdSRem,
		"SUNION":      cmdSUnion,
		"SUNIONSTORE": cmdSUnionStore,

		"HSET":    cmdHSet,
		"HSETNX":  cmdHSetNX,
		"HGET":    cmdHGet,
		"HMGET":   cmdHMGet,
		"HMSET":   cmdHMSet,
		"HDEL":    cmdHDel,
		"HEXISTS": cmdHExists,
		"HKEYS":   cmdHKeys,
		"HVALS":   cmdHVals,
		"HGETALL": cmdHGetAll,
		"HLEN":    cmdHLen,
		"HINCRBY": cmdHIncrBy,

		"LPUSH":     cmdLPush,
		"RPUSH":     cmdRPush,
		"LPOP":      cmdLPop,
		"RPOP":      cmdRPop,
		"LREM":      cmdLRem,
		"LLEN":      cmdLLen,
		"LINDEX":    cmdLIndex,
		"LRANGE":    cmdLRange,
		"LSET":      cmdLSet,
		"LTRIM":     cmdLTrim,
		"RPOPLPUSH": cmdRPopLPush,
		"LFLUSH":    cmdLFlush,

		"EXPIRE":   cmdExpire,
		"FLUSHALL": cmdFlushAll,
		"SAVE":     cmdSave,
		"RESTORE":  cmdRestore,
		"MERGE":    cmdMerge,
		"QUIT":     cmdQuit,
		"SHUTDOWN": cmdShutdown,
	}
}

// ParseRequest normalizes a decoded Value into argv: the request is
// typically an array, but a lone inline string (e.g. a bare "PING\r\n"
// the lenient decoder produced) is split on ASCII whitespace as a
// fallback, per spec.md §4.3.
func ParseRequest(v Value) []Value {
	if v.Kind == KindArray {
		return v.Array
	}
	fields := strings.Fields(string(toBytes(v)))
	out := make([]Value, len(fields))
	for i, f := range fields {
		out[i] = BulkBytes([]byte(f))
	}
	return out
}

// Dispatch looks up argv[0] as a command name (uppercased) and invokes
// it with the rest of argv. Domain errors become wire error replies;
// ErrClientQuit/ErrShutdown propagate unchanged so the connection/server
// loop can act on them. Any other error a handler returns (e.g. a
// non-numeric argument where an integer is expected) and anything a
// command handler panics on (malformed argv a length check missed, an
// internal invariant violation) is logged and turned into a generic wire
// error reply
// rather than taking the whole server down, per spec.md §4.3/§7.
func Dispatch(s *store.Store, argv []Value) (reply Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("stack", string(debug.Stack())).Errorf("unhandled server error: %v", r)
			reply = ErrorValue("ERR unhandled server error")
			err = nil
		}
	}()

	if len(argv) == 0 {
		return ErrorValue("ERR empty command"), nil
	}

	nameBytes := toBytes(argv[0])
	if nameBytes == nil {
		return ErrorValue("ERR first parameter must be a command name"), nil
	}
	name := strings.ToUpper(string(nameBytes))

	fn, ok := commands[name]
	if !ok {
		return ErrorValue("ERR unrecognized command: " + name), nil
	}

	reply, err = fn(s, argv[1:])
	switch {
	case err == nil:
		return reply, nil
	case errors.Is(err, store.ErrClientQuit), errors.Is(err, store.ErrShutdown):
		// QUIT/SHUTDOWN carry a real reply (a success integer) alongside
		// the signal: the caller writes the reply, then acts on err.
		return reply, err
	default:
		if cmdErr, ok := err.(*store.CommandError); ok {
			return ErrorValue("ERR " + cmdErr.Error()), nil
		}
		logrus.WithError(err).Error("unhandled server error")
		return ErrorValue("ERR unhandled server error"), nil
	}
}

// --- argument helpers ---

func argString(v Value) string { return string(toBytes(v)) }

func argInt(v Value) (int64, error) {
	if v.Kind == KindInteger && !v.IsFloat {
		return v.Int, nil
	}
	return strconv.ParseInt(argString(v), 10, 64)
}

func argKeys(args []Value) []string {
	keys := make([]string, len(args))
	for i, a := range args {
		keys[i] = argString(a)
	}
	return keys
}

func argScalars(args []Value) []store.Scalar {
	out := make([]store.Scalar, len(args))
	for i, a := range args {
		out[i] = toScalar(a)
	}
	return out
}

func okReply(ok bool) Value {
	if ok {
		return Integer(1)
	}
	return Integer(0)
}

// requireArgs rejects a command whose argv is shorter than min, instead
// of letting the handler index past the end of the slice. usage is
// echoed in the wire error reply to help a human at the other end of a
// REPL, matching the command name convention error replies already use.
func requireArgs(args []Value, min int, usage string) error {
	if len(args) < min {
		return &store.CommandError{Message: "usage: " + usage}
	}
	return nil
}

// --- KV commands ---

func cmdGet(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 1, "GET key"); err != nil {
		return Value{}, err
	}
	v, ok := s.Get(argString(args[0]))
	if !ok {
		return NullBulk(), nil
	}
	return fromScalar(v), nil
}

func cmdSet(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 2, "SET key value"); err != nil {
		return Value{}, err
	}
	s.Set(argString(args[0]), toScalar(args[1]))
	return Integer(1), nil
}

func cmdSetNX(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 2, "SETNX key value"); err != nil {
		return Value{}, err
	}
	return okReply(s.SetNX(argString(args[0]), toScalar(args[1]))), nil
}

func cmdSetEX(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 3, "SETEX key value seconds"); err != nil {
		return Value{}, err
	}
	seconds, err := argInt(args[2])
	if err != nil {
		return Value{}, err
	}
	s.SetEX(argString(args[0]), toScalar(args[1]), seconds)
	return Integer(1), nil
}

func cmdAppend(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 2, "APPEND key value"); err != nil {
		return Value{}, err
	}
	result, err := s.Append(argString(args[0]), toScalar(args[1]))
	if err != nil {
		return Value{}, err
	}
	return fromScalar(result), nil
}

func cmdDelete(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 1, "DELETE key"); err != nil {
		return Value{}, err
	}
	return okReply(s.Delete(argString(args[0]))), nil
}

func cmdExists(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 1, "EXISTS key"); err != nil {
		return Value{}, err
	}
	return okReply(s.Exists(argString(args[0]))), nil
}

func cmdGetSet(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 2, "GETSET key value"); err != nil {
		return Value{}, err
	}
	orig, ok := s.GetSet(argString(args[0]), toScalar(args[1]))
	if !ok {
		return NullBulk(), nil
	}
	return fromScalar(orig), nil
}

func cmdPop(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 1, "POP key"); err != nil {
		return Value{}, err
	}
	v, ok := s.Pop(argString(args[0]))
	if !ok {
		return NullBulk(), nil
	}
	return fromScalar(v), nil
}

func cmdIncr(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 1, "INCR key"); err != nil {
		return Value{}, err
	}
	n, err := s.Incr(argString(args[0]))
	if err != nil {
		return Value{}, err
	}
	return Integer(n), nil
}

func cmdDecr(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 1, "DECR key"); err != nil {
		return Value{}, err
	}
	n, err := s.Decr(argString(args[0]))
	if err != nil {
		return Value{}, err
	}
	return Integer(n), nil
}

func cmdIncrBy(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 2, "INCRBY key delta"); err != nil {
		return Value{}, err
	}
	delta, err := argInt(args[1])
	if err != nil {
		return Value{}, err
	}
	n, err := s.IncrBy(argString(args[0]), delta)
	if err != nil {
		return Value{}, err
	}
	return Integer(n), nil
}

func cmdDecrBy(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 2, "DECRBY key delta"); err != nil {
		return Value{}, err
	}
	delta, err := argInt(args[1])
	if err != nil {
		return Value{}, err
	}
	n, err := s.DecrBy(argString(args[0]), delta)
	if err != nil {
		return Value{}, err
	}
	return Integer(n), nil
}

func cmdMGet(s *store.Store, args []Value) (Value, error) {
	results := s.MGet(argKeys(args))
	out := make([]Value, len(results))
	for i, r := range results {
		if !r.Ok {
			out[i] = NullBulk()
		} else {
			out[i] = fromScalar(r.Val)
		}
	}
	return Array(out), nil
}

func cmdMSet(s *store.Store, args []Value) (Value, error) {
	pairs := make(map[string]store.Scalar, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		pairs[argString(args[i])] = toScalar(args[i+1])
	}
	return Integer(s.MSet(pairs)), nil
}

func cmdMSetEX(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 1, "MSETEX k1 v1 k2 v2 ... seconds"); err != nil {
		return Value{}, err
	}
	seconds, err := argInt(args[len(args)-1])
	if err != nil {
		return Value{}, err
	}
	rest := args[:len(args)-1]
	pairs := make(map[string]store.Scalar, len(rest)/2)
	for i := 0; i+1 < len(rest); i += 2 {
		pairs[argString(rest[i])] = toScalar(rest[i+1])
	}
	return Integer(s.MSetEX(pairs, seconds)), nil
}

func cmdMDelete(s *store.Store, args []Value) (Value, error) {
	return Integer(s.MDelete(argKeys(args))), nil
}

func cmdMPop(s *store.Store, args []Value) (Value, error) {
	results := s.MPop(argKeys(args))
	out := make([]Value, len(results))
	for i, r := range results {
		if !r.Ok {
			out[i] = NullBulk()
		} else {
			out[i] = fromScalar(r.Val)
		}
	}
	return Array(out), nil
}

func cmdLen(s *store.Store, args []Value) (Value, error) {
	return Integer(s.Len()), nil
}

func cmdFlush(s *store.Store, args []Value) (Value, error) {
	return Integer(s.Flush()), nil
}

// --- SET commands ---

func cmdSAdd(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 2, "SADD key member [member ...]"); err != nil {
		return Value{}, err
	}
	n, err := s.SAdd(argString(args[0]), argScalars(args[1:]))
	if err != nil {
		return Value{}, err
	}
	return Integer(n), nil
}

func cmdSCard(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 1, "SCARD key"); err != nil {
		return Value{}, err
	}
	n, err := s.SCard(argString(args[0]))
	if err != nil {
		return Value{}, err
	}
	return Integer(n), nil
}

func scalarsToSet(scalars []store.Scalar) Value {
	out := make([]Value, len(scalars))
	for i, sc := range scalars {
		out[i] = fromScalar(sc)
	}
	return SetOf(out)
}

func cmdSDiff(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 1, "SDIFF key [key ...]"); err != nil {
		return Value{}, err
	}
	members, err := s.SDiff(argKeys(args))
	if err != nil {
		return Value{}, err
	}
	return scalarsToSet(members), nil
}

func cmdSDiffStore(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 2, "SDIFFSTORE dest key [key ...]"); err != nil {
		return Value{}, err
	}
	n, err := s.SDiffStore(argString(args[0]), argKeys(args[1:]))
	if err != nil {
		return Value{}, err
	}
	return Integer(n), nil
}

func cmdSInter(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 1, "SINTER key [key ...]"); err != nil {
		return Value{}, err
	}
	members, err := s.SInter(argKeys(args))
	if err != nil {
		return Value{}, err
	}
	return scalarsToSet(members), nil
}

func cmdSInterStore(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 2, "SINTERSTORE dest key [key ...]"); err != nil {
		return Value{}, err
	}
	n, err := s.SInterStore(argString(args[0]), argKeys(args[1:]))
	if err != nil {
		return Value{}, err
	}
	return Integer(n), nil
}

func cmdSIsMember(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 2, "SISMEMBER key member"); err != nil {
		return Value{}, err
	}
	ok, err := s.SIsMember(argString(args[0]), toScalar(args[1]))
	if err != nil {
		return Value{}, err
	}
	return okReply(ok), nil
}

func cmdSMembers(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 1, "SMEMBERS key"); err != nil {
		return Value{}, err
	}
	members, err := s.SMembers(argString(args[0]))
	if err != nil {
		return Value{}, err
	}
	return scalarsToSet(members), nil
}

func cmdSPop(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 1, "SPOP key"); err != nil {
		return Value{}, err
	}
	v, ok, err := s.SPop(argString(args[0]))
	if err != nil {
		return Value{}, err
	}
	if !ok {
		return NullBulk(), nil
	}
	return fromScalar(v), nil
}

func cmdSRem(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 2, "SREM key member [member ...]"); err != nil {
		return Value{}, err
	}
	n, err := s.SRem(argString(args[0]), argScalars(args[1:]))
	if err != nil {
		return Value{}, err
	}
	return Integer(n), nil
}

func cmdSUnion(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 1, "SUNION key [key ...]"); err != nil {
		return Value{}, err
	}
	members, err := s.SUnion(argKeys(args))
	if err != nil {
		return Value{}, err
	}
	return scalarsToSet(members), nil
}

func cmdSUnionStore(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 2, "SUNIONSTORE dest key [key ...]"); err != nil {
		return Value{}, err
	}
	n, err := s.SUnionStore(argString(args[0]), argKeys(args[1:]))
	if err != nil {
		return Value{}, err
	}
	return Integer(n), nil
}

// --- HASH commands ---

func cmdHSet(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 3, "HSET key field value"); err != nil {
		return Value{}, err
	}
	_, err := s.HSet(argString(args[0]), argString(args[1]), toScalar(args[2]))
	if err != nil {
		return Value{}, err
	}
	return Integer(1), nil
}

func cmdHSetNX(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 3, "HSETNX key field value"); err != nil {
		return Value{}, err
	}
	created, err := s.HSetNX(argString(args[0]), argString(args[1]), toScalar(args[2]))
	if err != nil {
		return Value{}, err
	}
	return okReply(created), nil
}

func cmdHGet(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 2, "HGET key field"); err != nil {
		return Value{}, err
	}
	v, ok, err := s.HGet(argString(args[0]), argString(args[1]))
	if err != nil {
		return Value{}, err
	}
	if !ok {
		return NullBulk(), nil
	}
	return fromScalar(v), nil
}

func cmdHMGet(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 1, "HMGET key field [field ...]"); err != nil {
		return Value{}, err
	}
	fields := argKeys(args[1:])
	got, err := s.HMGet(argString(args[0]), fields)
	if err != nil {
		return Value{}, err
	}
	pairs := make([]DictPair, 0, len(got))
	for _, field := range fields {
		entry := got[field]
		var val Value
		if entry.Ok {
			val = fromScalar(entry.Val)
		} else {
			val = NullBulk()
		}
		pairs = append(pairs, DictPair{Key: TextString(field), Val: val})
	}
	return Dict(pairs), nil
}

func cmdHMSet(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 1, "HMSET key field value [field value ...]"); err != nil {
		return Value{}, err
	}
	rest := args[1:]
	fields := make(map[string]store.Scalar, len(rest)/2)
	for i := 0; i+1 < len(rest); i += 2 {
		fields[argString(rest[i])] = toScalar(rest[i+1])
	}
	if err := s.HMSet(argString(args[0]), fields); err != nil {
		return Value{}, err
	}
	return SimpleString("OK"), nil
}

func cmdHDel(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 2, "HDEL key field [field ...]"); err != nil {
		return Value{}, err
	}
	n, err := s.HDel(argString(args[0]), argKeys(args[1:]))
	if err != nil {
		return Value{}, err
	}
	return Integer(n), nil
}

func cmdHExists(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 2, "HEXISTS key field"); err != nil {
		return Value{}, err
	}
	ok, err := s.HExists(argString(args[0]), argString(args[1]))
	if err != nil {
		return Value{}, err
	}
	return okReply(ok), nil
}

func cmdHKeys(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 1, "HKEYS key"); err != nil {
		return Value{}, err
	}
	keys, err := s.HKeys(argString(args[0]))
	if err != nil {
		return Value{}, err
	}
	out := make([]Value, len(keys))
	for i, k := range keys {
		out[i] = TextString(k)
	}
	return Array(out), nil
}

func cmdHVals(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 1, "HVALS key"); err != nil {
		return Value{}, err
	}
	vals, err := s.HVals(argString(args[0]))
	if err != nil {
		return Value{}, err
	}
	out := make([]Value, len(vals))
	for i, v := range vals {
		out[i] = fromScalar(v)
	}
	return Array(out), nil
}

func cmdHGetAll(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 1, "HGETALL key"); err != nil {
		return Value{}, err
	}
	fields, vals, err := s.HGetAll(argString(args[0]))
	if err != nil {
		return Value{}, err
	}
	pairs := make([]DictPair, len(fields))
	for i := range fields {
		pairs[i] = DictPair{Key: TextString(fields[i]), Val: fromScalar(vals[i])}
	}
	return Dict(pairs), nil
}

func cmdHLen(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 1, "HLEN key"); err != nil {
		return Value{}, err
	}
	n, err := s.HLen(argString(args[0]))
	if err != nil {
		return Value{}, err
	}
	return Integer(n), nil
}

func cmdHIncrBy(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 3, "HINCRBY key field delta"); err != nil {
		return Value{}, err
	}
	delta, err := argInt(args[2])
	if err != nil {
		return Value{}, err
	}
	n, err := s.HIncrBy(argString(args[0]), argString(args[1]), delta)
	if err != nil {
		return Value{}, err
	}
	return Integer(n), nil
}

// --- QUEUE commands ---

func cmdLPush(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 2, "LPUSH key value [value ...]"); err != nil {
		return Value{}, err
	}
	n, err := s.LPush(argString(args[0]), argScalars(args[1:]))
	if err != nil {
		return Value{}, err
	}
	return Integer(n), nil
}

func cmdRPush(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 2, "RPUSH key value [value ...]"); err != nil {
		return Value{}, err
	}
	n, err := s.RPush(argString(args[0]), argScalars(args[1:]))
	if err != nil {
		return Value{}, err
	}
	return Integer(n), nil
}

func cmdLPop(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 1, "LPOP key"); err != nil {
		return Value{}, err
	}
	v, ok, err := s.LPop(argString(args[0]))
	if err != nil {
		return Value{}, err
	}
	if !ok {
		return NullBulk(), nil
	}
	return fromScalar(v), nil
}

func cmdRPop(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 1, "RPOP key"); err != nil {
		return Value{}, err
	}
	v, ok, err := s.RPop(argString(args[0]))
	if err != nil {
		return Value{}, err
	}
	if !ok {
		return NullBulk(), nil
	}
	return fromScalar(v), nil
}

func cmdLRem(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 3, "LREM key value count"); err != nil {
		return Value{}, err
	}
	count, err := argInt(args[2])
	if err != nil {
		return Value{}, err
	}
	n, err := s.LRem(argString(args[0]), toScalar(args[1]), count)
	if err != nil {
		return Value{}, err
	}
	return Integer(n), nil
}

func cmdLLen(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 1, "LLEN key"); err != nil {
		return Value{}, err
	}
	n, err := s.LLen(argString(args[0]))
	if err != nil {
		return Value{}, err
	}
	return Integer(n), nil
}

func cmdLIndex(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 2, "LINDEX key index"); err != nil {
		return Value{}, err
	}
	index, err := argInt(args[1])
	if err != nil {
		return Value{}, err
	}
	v, ok, err := s.LIndex(argString(args[0]), index)
	if err != nil {
		return Value{}, err
	}
	if !ok {
		return NullBulk(), nil
	}
	return fromScalar(v), nil
}

func cmdLRange(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 3, "LRANGE key start end"); err != nil {
		return Value{}, err
	}
	start, err := argInt(args[1])
	if err != nil {
		return Value{}, err
	}
	end, err := argInt(args[2])
	if err != nil {
		return Value{}, err
	}
	items, err := s.LRange(argString(args[0]), start, end)
	if err != nil {
		return Value{}, err
	}
	out := make([]Value, len(items))
	for i, it := range items {
		out[i] = fromScalar(it)
	}
	return Array(out), nil
}

func cmdLSet(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 3, "LSET key index value"); err != nil {
		return Value{}, err
	}
	index, err := argInt(args[1])
	if err != nil {
		return Value{}, err
	}
	ok, err := s.LSet(argString(args[0]), index, toScalar(args[2]))
	if err != nil {
		return Value{}, err
	}
	return okReply(ok), nil
}

func cmdLTrim(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 3, "LTRIM key start end"); err != nil {
		return Value{}, err
	}
	start, err := argInt(args[1])
	if err != nil {
		return Value{}, err
	}
	end, err := argInt(args[2])
	if err != nil {
		return Value{}, err
	}
	if err := s.LTrim(argString(args[0]), start, end); err != nil {
		return Value{}, err
	}
	return SimpleString("OK"), nil
}

func cmdRPopLPush(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 2, "RPOPLPUSH src dest"); err != nil {
		return Value{}, err
	}
	_, ok, err := s.RPopLPush(argString(args[0]), argString(args[1]))
	if err != nil {
		return Value{}, err
	}
	return okReply(ok), nil
}

func cmdLFlush(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 1, "LFLUSH key"); err != nil {
		return Value{}, err
	}
	n, err := s.LFlush(argString(args[0]))
	if err != nil {
		return Value{}, err
	}
	return Integer(n), nil
}

// --- Admin commands ---

func cmdExpire(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 2, "EXPIRE key seconds"); err != nil {
		return Value{}, err
	}
	seconds, err := argInt(args[1])
	if err != nil {
		return Value{}, err
	}
	return okReply(s.Expire(argString(args[0]), seconds)), nil
}

func cmdFlushAll(s *store.Store, args []Value) (Value, error) {
	s.FlushAll()
	return SimpleString("OK"), nil
}

func cmdSave(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 1, "SAVE path"); err != nil {
		return Value{}, err
	}
	if err := s.Save(argString(args[0])); err != nil {
		return Value{}, err
	}
	return Integer(1), nil
}

func cmdRestore(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 1, "RESTORE path"); err != nil {
		return Value{}, err
	}
	ok, err := s.Restore(argString(args[0]))
	if err != nil {
		return Value{}, err
	}
	return okReply(ok), nil
}

func cmdMerge(s *store.Store, args []Value) (Value, error) {
	if err := requireArgs(args, 1, "MERGE path"); err != nil {
		return Value{}, err
	}
	ok, err := s.Merge(argString(args[0]))
	if err != nil {
		return Value{}, err
	}
	return okReply(ok), nil
}

func cmdQuit(s *store.Store, args []Value) (Value, error) {
	return Integer(1), store.ErrClientQuit
}

func cmdShutdown(s *store.Store, args []Value) (Value, error) {
	return Integer(1), store.ErrShutdown
}
