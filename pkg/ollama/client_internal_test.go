package ollama

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseShowOutput(t *testing.T) {
	out := `  Model
    architecture        phi2
    parameters: 2.7B
    context length: 2048

  Parameters
    stop: "<|im_end|>"
`

	info := parseShowOutput(out)

	assert.Equal(t, "2.7B", info["parameters"])
	assert.Equal(t, "2048", info["context length"])
	assert.NotContains(t, info, "Model")
}

func TestParseShowOutput_Empty(t *testing.T) {
	assert.Empty(t, parseShowOutput(""))
}
