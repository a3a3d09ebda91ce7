package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQueryList(t *testing.T) {
	cases := map[string][]string{
		"street=Parkweg,Lindenallee":        {"Parkweg", "Lindenallee"},
		"street=Parkweg&street=Lindenallee": {"Parkweg", "Lindenallee"},
		"street=a,b&street=c":               {"a", "b", "c"},
		"street=+Parkweg+,,":                {"Parkweg"},
		"other=x":                           nil,
	}
	for raw, want := range cases {
		q, err := url.ParseQuery(raw)
		assert.NoError(t, err)
		assert.Equal(t, want, ParseQueryList(q, "street"), raw)
	}
}
