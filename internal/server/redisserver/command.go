// Package redisserver provides a Redis protocol compatible server.
package redisserver

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/lorikv/lorikv-go/internal/storage"
	"github.com/lorikv/lorikv-go/internal/telemetry/metric"
)

const wrongTypeMsg = "WRONGTYPE Operation against a key holding the wrong kind of value"

// ipLimiter applies a per-IP command rate limit.
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newIPLimiter(requestsPerSecond int) *ipLimiter {
	return &ipLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(requestsPerSecond),
		burst:    requestsPerSecond,
	}
}

// allow checks if a request from the given IP should be allowed.
func (rl *ipLimiter) allow(ip string) bool {
	rl.mu.Lock()
	lim, ok := rl.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[ip] = lim
	}
	rl.mu.Unlock()
	return lim.Allow()
}

// CommandHandler dispatches parsed requests against the key space.
type CommandHandler struct {
	store   *storage.Store
	logger  *slog.Logger
	metrics *metric.Registry
	limiter *ipLimiter
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(store *storage.Store, srv *Server, logger *slog.Logger, metrics *metric.Registry) *CommandHandler {
	if logger == nil {
		logger = slog.Default()
	}

	var rl *ipLimiter
	if srv != nil && srv.cfg != nil && srv.cfg.RateLimit > 0 {
		rl = newIPLimiter(srv.cfg.RateLimit)
	}

	return &CommandHandler{
		store:   store,
		logger:  logger,
		metrics: metrics,
		limiter: rl,
	}
}

// knownCommands bounds the metric label set.
var knownCommands = map[string]struct{}{
	"PING": {}, "ECHO": {}, "QUIT": {},
	"SET": {}, "GET": {},
	"RPUSH": {}, "LRANGE": {},
	"ZADD": {}, "ZRANGE": {}, "ZREM": {},
}

// Handle handles one command (RESP array of bulk strings).
func (h *CommandHandler) Handle(conn *Conn, args [][]byte) {
	if len(args) == 0 {
		_ = WriteError(conn.bw, "ERR no command")
		return
	}

	cmdName := normalizeCommandName(args[0])

	// Rate limiting check (per-IP).
	if h.limiter != nil {
		ip := conn.RemoteAddr().String()
		// Extract IP without port
		if idx := strings.LastIndex(ip, ":"); idx != -1 {
			ip = ip[:idx]
		}
		if !h.limiter.allow(ip) {
			_ = WriteError(conn.bw, "ERR rate limit exceeded")
			return
		}
	}

	start := time.Now()

	switch cmdName {
	case "PING":
		h.handlePing(conn, args)
	case "ECHO":
		h.handleEcho(conn, args)
	case "QUIT":
		h.handleQuit(conn, args)
	case "SET":
		h.handleSet(conn, args)
	case "GET":
		h.handleGet(conn, args)
	case "RPUSH":
		h.handleRPush(conn, args)
	case "LRANGE":
		h.handleLRange(conn, args)
	case "ZADD":
		h.handleZAdd(conn, args)
	case "ZRANGE":
		h.handleZRange(conn, args)
	case "ZREM":
		h.handleZRem(conn, args)
	default:
		_ = WriteError(conn.bw, "ERR unknown command '"+cmdName+"'")
	}

	if h.metrics != nil {
		label := "unknown"
		if _, ok := knownCommands[cmdName]; ok {
			label = cmdName
		}
		h.metrics.ObserveCommand(label, time.Since(start))
	}
}

func (h *CommandHandler) handlePing(conn *Conn, args [][]byte) {
	switch len(args) {
	case 1:
		_ = WriteSimpleString(conn.bw, "PONG")
	case 2:
		_ = WriteBulk(conn.bw, args[1])
	default:
		_ = WriteError(conn.bw, "ERR wrong number of arguments for 'PING' command")
	}
}

func (h *CommandHandler) handleEcho(conn *Conn, args [][]byte) {
	if len(args) != 2 {
		_ = WriteError(conn.bw, "ERR wrong number of arguments for 'ECHO' command")
		return
	}
	_ = WriteBulk(conn.bw, args[1])
}

func (h *CommandHandler) handleQuit(conn *Conn, _ [][]byte) {
	_ = WriteSimpleString(conn.bw, "OK")
	_ = conn.bw.Flush()
	_ = conn.Close()
}

// SET <key> <value> [PX milliseconds]
func (h *CommandHandler) handleSet(conn *Conn, args [][]byte) {
	if len(args) != 3 && len(args) != 5 {
		_ = WriteError(conn.bw, "ERR wrong number of arguments for 'SET' command")
		return
	}

	var ttl time.Duration
	if len(args) == 5 {
		if normalizeCommandName(args[3]) != "PX" {
			_ = WriteError(conn.bw, "ERR syntax error")
			return
		}
		ms, err := strconv.ParseInt(string(args[4]), 10, 64)
		if err != nil {
			_ = WriteError(conn.bw, "ERR value is not an integer or out of range")
			return
		}
		if ms <= 0 {
			_ = WriteError(conn.bw, "ERR invalid expire time in 'SET' command")
			return
		}
		ttl = time.Duration(ms) * time.Millisecond
	}

	h.store.Set(string(args[1]), string(args[2]), ttl)
	_ = WriteSimpleString(conn.bw, "OK")
}

// GET <key>
func (h *CommandHandler) handleGet(conn *Conn, args [][]byte) {
	if len(args) != 2 {
		_ = WriteError(conn.bw, "ERR wrong number of arguments for 'GET' command")
		return
	}

	val, ok, err := h.store.Get(string(args[1]))
	if err != nil {
		h.writeStoreError(conn, err)
		return
	}
	if !ok {
		_ = WriteNullBulk(conn.bw)
		return
	}
	_ = WriteBulkString(conn.bw, val)
}

// RPUSH <key> <value> [value ...]
func (h *CommandHandler) handleRPush(conn *Conn, args [][]byte) {
	if len(args) < 3 {
		_ = WriteError(conn.bw, "ERR wrong number of arguments for 'RPUSH' command")
		return
	}

	values := make([]string, 0, len(args)-2)
	for _, a := range args[2:] {
		values = append(values, string(a))
	}

	n, err := h.store.RPush(string(args[1]), values...)
	if err != nil {
		h.writeStoreError(conn, err)
		return
	}
	_ = WriteInteger(conn.bw, int64(n))
}

// LRANGE <key> <start> <stop>
func (h *CommandHandler) handleLRange(conn *Conn, args [][]byte) {
	if len(args) != 4 {
		_ = WriteError(conn.bw, "ERR wrong number of arguments for 'LRANGE' command")
		return
	}

	start, stop, ok := parseRangeBounds(conn, args[2], args[3])
	if !ok {
		return
	}

	items, err := h.store.LRange(string(args[1]), start, stop)
	if err != nil {
		h.writeStoreError(conn, err)
		return
	}
	writeStringArray(conn, items)
}

// ZADD <key> <score> <member> [score member ...]
func (h *CommandHandler) handleZAdd(conn *Conn, args [][]byte) {
	if len(args) < 4 || (len(args)-2)%2 != 0 {
		_ = WriteError(conn.bw, "ERR wrong number of arguments for 'ZADD' command")
		return
	}

	members := make([]storage.MemberScore, 0, (len(args)-2)/2)
	for i := 2; i < len(args); i += 2 {
		score, err := strconv.ParseFloat(string(args[i]), 64)
		if err != nil {
			_ = WriteError(conn.bw, "ERR value is not a valid float")
			return
		}
		members = append(members, storage.MemberScore{
			Member: string(args[i+1]),
			Score:  score,
		})
	}

	added, err := h.store.ZAdd(string(args[1]), members)
	if err != nil {
		h.writeStoreError(conn, err)
		return
	}
	_ = WriteInteger(conn.bw, int64(added))
}

// ZRANGE <key> <start> <stop>
func (h *CommandHandler) handleZRange(conn *Conn, args [][]byte) {
	if len(args) != 4 {
		_ = WriteError(conn.bw, "ERR wrong number of arguments for 'ZRANGE' command")
		return
	}

	start, stop, ok := parseRangeBounds(conn, args[2], args[3])
	if !ok {
		return
	}

	items, err := h.store.ZRange(string(args[1]), start, stop)
	if err != nil {
		h.writeStoreError(conn, err)
		return
	}
	writeStringArray(conn, items)
}

// ZREM <key> <member> [member ...]
func (h *CommandHandler) handleZRem(conn *Conn, args [][]byte) {
	if len(args) < 3 {
		_ = WriteError(conn.bw, "ERR wrong number of arguments for 'ZREM' command")
		return
	}

	members := make([]string, 0, len(args)-2)
	for _, a := range args[2:] {
		members = append(members, string(a))
	}

	removed, err := h.store.ZRem(string(args[1]), members...)
	if err != nil {
		h.writeStoreError(conn, err)
		return
	}
	_ = WriteInteger(conn.bw, int64(removed))
}

func (h *CommandHandler) writeStoreError(conn *Conn, err error) {
	if errors.Is(err, storage.ErrWrongType) {
		_ = WriteError(conn.bw, wrongTypeMsg)
		return
	}
	_ = WriteError(conn.bw, "ERR "+err.Error())
}

func parseRangeBounds(conn *Conn, startArg, stopArg []byte) (start, stop int, ok bool) {
	start64, err := strconv.ParseInt(string(startArg), 10, 64)
	if err != nil {
		_ = WriteError(conn.bw, "ERR value is not an integer or out of range")
		return 0, 0, false
	}
	stop64, err := strconv.ParseInt(string(stopArg), 10, 64)
	if err != nil {
		_ = WriteError(conn.bw, "ERR value is not an integer or out of range")
		return 0, 0, false
	}
	return int(start64), int(stop64), true
}

func writeStringArray(conn *Conn, items []string) {
	_ = WriteArrayHeader(conn.bw, len(items))
	for _, it := range items {
		_ = WriteBulkString(conn.bw, it)
	}
}
