package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLocator(t *testing.T) {
	tests := []struct {
		in   string
		want Locator
		ok   bool
	}{
		{"hashicorp/terraform-provider-aws", Locator{Owner: "hashicorp", Repo: "terraform-provider-aws", Branch: "main"}, true},
		{"github.com/acme/infra", Locator{Owner: "acme", Repo: "infra", Branch: "main"}, true},
		{"https://github.com/acme/infra", Locator{Owner: "acme", Repo: "infra", Branch: "main"}, true},
		{"https://www.github.com/acme/infra.git/", Locator{Owner: "acme", Repo: "infra", Branch: "main"}, true},
		{"  https://github.com/acme/infra?tab=readme  ", Locator{Owner: "acme", Repo: "infra", Branch: "main"}, true},
		{"https://github.com/acme/infra/tree/dev", Locator{Owner: "acme", Repo: "infra", Branch: "dev"}, true},
		{"https://github.com/acme/infra/tree/v1.2/modules/lambda", Locator{Owner: "acme", Repo: "infra", Branch: "v1.2", Path: "modules/lambda"}, true},
		{"https://github.com/acme/infra/blob/main/main.tf", Locator{Owner: "acme", Repo: "infra", Branch: "main", Path: "main.tf"}, true},

		{"", Locator{}, false},
		{"acme", Locator{}, false},
		{"https://gitlab.com/acme/infra", Locator{}, false},
		{"https://github.com/acme", Locator{}, false},
		{"acme/infra/issues/4", Locator{}, false},
		{"acme/infra/tree", Locator{}, false},
		{"acme/infra/tree/main/../secrets", Locator{}, false},
		{"ac me/infra", Locator{}, false},
		{"not a url at all", Locator{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLocator(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocatorString(t *testing.T) {
	l := Locator{Owner: "acme", Repo: "infra", Branch: "dev", Path: "envs/prod"}
	assert.Equal(t, "github.com/acme/infra/tree/dev/envs/prod", l.String())

	back, ok := ParseLocator(l.String())
	assert.True(t, ok)
	assert.Equal(t, l, back)
}
