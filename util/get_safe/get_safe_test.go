package getsafe_test

import (
	"net/url"
	"testing"

	"github.com/m-mizutani/gt"
	getsafe "github.com/w-h-a/recipes/util/get_safe"
)

func TestString(t *testing.T) {
	values := url.Values{"query": {"  pasta  "}}

	gt.Equal(t, getsafe.String(values, "query"), "pasta")
	gt.Equal(t, getsafe.String(values, "missing"), "")
}

func TestFloat(t *testing.T) {
	testCases := []struct {
		name    string
		raw     string
		want    float64
		wantErr bool
	}{
		{name: "absent", raw: "", want: 0.5},
		{name: "blank", raw: "   ", want: 0.5},
		{name: "number", raw: "0.3", want: 0.3},
		{name: "garbage", raw: "abc", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			values := url.Values{}
			if len(tc.raw) > 0 {
				values.Set("similarity", tc.raw)
			}

			got, err := getsafe.Float(values, "similarity", 0.5)
			if tc.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.Equal(t, got, tc.want)
		})
	}
}

func TestBool(t *testing.T) {
	gt.True(t, getsafe.Bool(url.Values{"only_missing": {"true"}}, "only_missing"))
	gt.True(t, getsafe.Bool(url.Values{"only_missing": {"1"}}, "only_missing"))
	gt.False(t, getsafe.Bool(url.Values{"only_missing": {"nope"}}, "only_missing"))
	gt.False(t, getsafe.Bool(url.Values{}, "only_missing"))
}
