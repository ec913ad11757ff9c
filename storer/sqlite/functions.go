package sqlite

import (
	"database/sql/driver"
	"fmt"
	"sync"

	"github.com/w-h-a/recipes/storer"
	sqlite "modernc.org/sqlite"
)

const similarityFunc = "recipe_similarity"

var registerOnce sync.Once

// registerFunctions makes recipe_similarity(a, b) available on every
// connection opened afterwards.
func registerFunctions() error {
	var err error
	registerOnce.Do(func() {
		err = sqlite.RegisterDeterministicScalarFunction(similarityFunc, 2, similarityImpl)
	})
	return err
}

func similarityImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("%s: expected 2 arguments, got %d", similarityFunc, len(args))
	}

	a, err := asEmbedding(args[0])
	if err != nil {
		return nil, err
	}

	b, err := asEmbedding(args[1])
	if err != nil {
		return nil, err
	}

	if a == nil || b == nil {
		return nil, nil
	}

	if len(a) != len(b) {
		return nil, fmt.Errorf("%s: dimension mismatch %d vs %d", similarityFunc, len(a), len(b))
	}

	sim, ok := storer.CosineSimilarity(a, b)
	if !ok {
		return nil, nil
	}

	return sim, nil
}

func asEmbedding(arg driver.Value) ([]float32, error) {
	switch v := arg.(type) {
	case nil:
		return nil, nil
	case []byte:
		return decodeEmbedding(v)
	default:
		return nil, fmt.Errorf("%s: unsupported argument type %T, want BLOB", similarityFunc, arg)
	}
}
