package envs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Environment
		wantErr bool
	}{
		{name: "long form", input: "Development", want: Development},
		{name: "short form", input: "dev", want: Development},
		{name: "mixed case", input: "qa", want: QA},
		{name: "upper case", input: "QA", want: QA},
		{name: "prod alias", input: "prod", want: Production},
		{name: "prd alias", input: "prd", want: Production},
		{name: "whitespace", input: "  production ", want: Production},
		{name: "unknown", input: "staging", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultResourceGroup(t *testing.T) {
	assert.Equal(t, "rg-tourbus-dev", Development.DefaultResourceGroup())
	assert.Equal(t, "rg-tourbus-qa", QA.DefaultResourceGroup())
	assert.Equal(t, "rg-tourbus-prod", Production.DefaultResourceGroup())
}
