package config

import "errors"

// ErrMissingDatabaseURL indicates a SQL driver was selected without a database URL.
var ErrMissingDatabaseURL = errors.New("database_url is required")

// ErrMissingRPCURL indicates the rpc driver was selected without rpc.url.
var ErrMissingRPCURL = errors.New("rpc.url is required")

// ErrMissingRPCKey indicates the rpc driver was selected without rpc.key.
var ErrMissingRPCKey = errors.New("rpc.key is required")

// ErrUnknownDriver indicates driver is not one of postgres, sqlite or rpc.
var ErrUnknownDriver = errors.New("unknown driver")

// ErrNegativeDuration indicates a timeout or pause below zero.
var ErrNegativeDuration = errors.New("duration must not be negative")
