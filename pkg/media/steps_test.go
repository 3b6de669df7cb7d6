package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectCategory(t *testing.T) {
	tests := []struct {
		title string
		want  Category
	}{
		{"Gerenciador NR-13 — Válvulas e Caldeiras", CategoryNR13},
		{"sistema nr13", CategoryNR13},
		{"Myrthes Costuras — Gestão de Oficina de Costura", CategoryMyrthes},
		{"MYRTHES", CategoryMyrthes},
		{"Landing page", CategoryGeneric},
		{"", CategoryGeneric},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectCategory(tt.title), tt.title)
	}
}

func TestSteps(t *testing.T) {
	assert.Len(t, Steps(CategoryNR13), 11)
	assert.Len(t, Steps(CategoryMyrthes), 9)
	assert.Empty(t, Steps(CategoryGeneric))
	assert.Empty(t, Steps(Category("unknown")))

	first := Steps(CategoryMyrthes)[0]
	assert.Equal(t, "Janela Principal", first.Label)
	assert.Equal(t, "Janela Principal — Navegação, cabeçalho e alternância de tema escuro/claro.", first.Caption())
}

func TestSteps_ReturnsCopy(t *testing.T) {
	s := Steps(CategoryNR13)
	s[0].Label = "changed"
	assert.Equal(t, "Janela Principal", Steps(CategoryNR13)[0].Label)
}

func TestParseSteps_AddsGeneric(t *testing.T) {
	table, err := parseSteps([]byte("nr13:\n  - label: A\n    description: B\n"))
	require.NoError(t, err)
	_, ok := table[CategoryGeneric]
	assert.True(t, ok)

	_, err = parseSteps([]byte("nr13: [unterminated"))
	assert.Error(t, err)
}
