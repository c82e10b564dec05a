package extract

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/acta/internal/errors"
)

func TestCandidate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"whole fence json", "```json\n{\"metadata\":{}}\n```", `{"metadata":{}}`, true},
		{"whole fence bare", "```\n{\"a\":1}\n```", `{"a":1}`, true},
		{"whole fence uppercase", "```JSON\n{\"a\":1}```", `{"a":1}`, true},
		{"fence inside prose", "Aquí está:\n```json\n{\"a\":1}\n```\nSaludos", `{"a":1}`, true},
		{"first of two fences", "A ```{\"a\":1}``` B ```{\"b\":2}```", `{"a":1}`, true},
		{"braces in prose", `Here is the result: {"metadata":{"tipo_reunion":null}} Thanks!`, `{"metadata":{"tipo_reunion":null}}`, true},
		{"nested braces", `x {"a":{"b":{}}} y`, `{"a":{"b":{}}}`, true},
		{"closing before opening", `} nothing {`, "", false},
		{"no braces", "no json here", "", false},
		{"blank", "   \n ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Candidate(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Candidate(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRecover_Fenced(t *testing.T) {
	obj, err := Recover("```json\n{\"metadata\":{}}\n```")
	require.NoError(t, err)
	require.Equal(t, map[string]any{}, obj["metadata"])
}

func TestRecover_Prose(t *testing.T) {
	obj, err := Recover(`Here is the result: {"metadata":{"tipo_reunion":null}} Thanks!`)
	require.NoError(t, err)

	meta := obj["metadata"].(map[string]any)
	v, present := meta["tipo_reunion"]
	require.True(t, present)
	require.Nil(t, v)
}

func TestRecover_RepairsMinorSyntax(t *testing.T) {
	tests := []string{
		`{"metadata": {"comunidad": "Sol",}, "participantes": {},}`,
		`{metadata: {comunidad: "Sol"}}`,
		`{'metadata': {'comunidad': 'Sol'}}`,
	}
	for _, in := range tests {
		obj, err := Recover(in)
		require.NoError(t, err, in)
		require.Equal(t, "Sol", obj["metadata"].(map[string]any)["comunidad"], in)
	}
}

func TestRecover_Rejections(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"no candidate", "lo siento, no puedo"},
		{"missing metadata", `{"participantes":{}}`},
		{"metadata not object", `{"metadata":"x"}`},
		{"metadata null", `{"metadata":null}`},
		{"array", "```json\n[1,2]\n```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Recover(tt.in)
			require.True(t, errors.Is(err, errors.ErrInvalidAIOutput), "got %v", err)
		})
	}
}

type fakeCompleter struct {
	out    string
	err    error
	prompt string
	calls  int
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.out, f.err
}

func TestExtractor_Extract(t *testing.T) {
	fc := &fakeCompleter{out: "```json\n{\"metadata\":{\"comunidad\":\"Sol\"},\"participantes\":{}}\n```"}
	ex := New(fc, nil)

	obj, err := ex.Extract(context.Background(), "El presidente abre la sesión.")
	require.NoError(t, err)
	require.Equal(t, 1, fc.calls)
	require.Contains(t, fc.prompt, "El presidente abre la sesión.")
	require.Contains(t, fc.prompt, `"orden_del_dia"`)
	require.Equal(t, "Sol", obj["metadata"].(map[string]any)["comunidad"])
}

func TestExtractor_Errors(t *testing.T) {
	tests := []struct {
		name string
		fc   *fakeCompleter
		code errors.ErrorCode
	}{
		{"call failed", &fakeCompleter{err: fmt.Errorf("401 unauthorized")}, errors.ErrExtractionCallFailed},
		{"empty", &fakeCompleter{out: "  \n"}, errors.ErrEmptyExtractionResponse},
		{"garbage", &fakeCompleter{out: "no sé"}, errors.ErrInvalidAIOutput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.fc, nil).Extract(context.Background(), "x")
			require.True(t, errors.Is(err, tt.code), "got %v", err)
			require.Equal(t, 1, tt.fc.calls)
		})
	}
}

func TestPrompt_EmbedsTemplateAndRules(t *testing.T) {
	p := Prompt("hola")
	require.True(t, strings.HasPrefix(p, "Eres un asistente"))
	require.Contains(t, p, "REGLAS OBLIGATORIAS")
	require.Contains(t, p, "\"\"\"\nhola\n\"\"\"")
}
