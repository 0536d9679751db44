package confirm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/arrbiter/arrctl/pkg/ui/confirm"
	"github.com/stretchr/testify/assert"
)

func TestPromptForConfirmation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "yes confirms", input: "yes\n", want: true},
		{name: "uppercase YES confirms", input: "YES\n", want: true},
		{name: "mixed case Yes confirms", input: "Yes\n", want: true},
		{name: "yes with surrounding whitespace confirms", input: "  yes  \n", want: true},
		{name: "no declines", input: "no\n", want: false},
		{name: "empty input declines", input: "\n", want: false},
		{name: "y alone declines", input: "y\n", want: false},
		{name: "missing newline declines", input: "yes", want: false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			restore := confirm.SetStdinReaderForTests(strings.NewReader(testCase.input))
			defer restore()

			var out bytes.Buffer

			got := confirm.PromptForConfirmation(&out)

			assert.Equal(t, testCase.want, got)
			assert.Contains(t, out.String(), `Type "yes" to confirm removal`)
		})
	}
}

func TestShouldSkipPrompt(t *testing.T) {
	tests := []struct {
		name  string
		force bool
		isTTY bool
		want  bool
	}{
		{name: "force skips prompt", force: true, isTTY: true, want: true},
		{name: "non-interactive skips prompt", force: false, isTTY: false, want: true},
		{name: "interactive without force prompts", force: false, isTTY: true, want: false},
		{name: "force in non-interactive skips prompt", force: true, isTTY: false, want: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			restore := confirm.SetTTYCheckerForTests(func() bool { return testCase.isTTY })
			defer restore()

			assert.Equal(t, testCase.want, confirm.ShouldSkipPrompt(testCase.force))
		})
	}
}

func TestIsTTY_OverrideRespected(t *testing.T) {
	restore := confirm.SetTTYCheckerForTests(func() bool { return true })
	defer restore()

	assert.True(t, confirm.IsTTY())
}

func TestShowDestroyPreview(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	confirm.ShowDestroyPreview(&out, &confirm.DestroyPreview{
		Project:    "arrstack",
		Containers: []string{"gluetun", "qbittorrent"},
		Networks:   []string{"arrstack_default"},
		Volumes:    []string{"arrstack_gluetun-data"},
	})

	got := out.String()

	assert.Contains(t, got, "The following resources will be removed:")
	assert.Contains(t, got, "Project: arrstack")
	assert.Contains(t, got, "- gluetun")
	assert.Contains(t, got, "- qbittorrent")
	assert.Contains(t, got, "- arrstack_default")
	assert.Contains(t, got, "- arrstack_gluetun-data")
}

func TestShowDestroyPreview_OmitsEmptySections(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	confirm.ShowDestroyPreview(&out, &confirm.DestroyPreview{Project: "arrstack"})

	got := out.String()

	assert.Contains(t, got, "Project: arrstack")
	assert.NotContains(t, got, "Containers:")
	assert.NotContains(t, got, "Networks:")
	assert.NotContains(t, got, "Volumes:")
}
