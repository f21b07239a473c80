// Package redisserver provides a Redis protocol compatible server for LoriKV.
//
// This package implements a RESP2 subset over TCP. Requests arrive as
// arrays of bulk strings (or inline commands); replies use simple
// strings, errors, integers, bulk strings, and arrays.
//
// Supported commands:
//   - PING, ECHO, QUIT
//   - GET, SET (with PX)
//   - RPUSH, LRANGE
//   - ZADD, ZRANGE, ZREM
package redisserver
