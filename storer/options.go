package storer

import "context"

// DefaultDimensions matches text-embedding-3-small.
const DefaultDimensions = 1536

type Option func(*Options)

type Options struct {
	Location   string
	Dimensions int
	Context    context.Context
}

func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

// WithDimensions fixes the embedding length for the whole store.
func WithDimensions(n int) Option {
	return func(o *Options) {
		o.Dimensions = n
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Dimensions: DefaultDimensions,
		Context:    context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
