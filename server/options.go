package server

import (
	"context"
	"time"
)

const (
	DefaultAddress         = ":8787"
	DefaultShutdownTimeout = 10 * time.Second
)

type Option func(o *Options)

type Options struct {
	Name            string
	Address         string
	ShutdownTimeout time.Duration
	Context         context.Context
}

func WithName(name string) Option {
	return func(o *Options) {
		o.Name = name
	}
}

func WithAddress(addr string) Option {
	return func(o *Options) {
		o.Address = addr
	}
}

func WithShutdownTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.ShutdownTimeout = d
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Name:            "recipes",
		Address:         DefaultAddress,
		ShutdownTimeout: DefaultShutdownTimeout,
		Context:         context.Background(),
	}

	for _, fn := range opts {
		fn(&options)
	}

	return options
}
