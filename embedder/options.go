package embedder

import "context"

type Option func(*Options)

type Options struct {
	Location   string
	ApiKey     string
	Model      string
	Dimensions int
	Normalize  bool
	Context    context.Context
}

// WithLocation overrides the provider's API base URL.
func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

func WithApiKey(apiKey string) Option {
	return func(o *Options) {
		o.ApiKey = apiKey
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithDimensions asks the provider for vectors of length n. Providers that
// cannot honor it fail on the first mismatched response.
func WithDimensions(n int) Option {
	return func(o *Options) {
		o.Dimensions = n
	}
}

// WithNormalize scales every returned vector to unit length.
func WithNormalize(normalize bool) Option {
	return func(o *Options) {
		o.Normalize = normalize
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
