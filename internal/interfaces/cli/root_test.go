package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/textselect/internal/testutil"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSuggestCommand(t *testing.T) {
	path := testutil.WriteModelFile(t)

	out, err := runCommand(t, "suggest", "call me at 6502530000 today", "11", "12",
		"--model", path, "--output", "json")
	require.NoError(t, err)

	var resp struct {
		First int `json:"first"`
		Last  int `json:"last"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 11, resp.First)
	assert.Equal(t, 21, resp.Last)
}

func TestSuggestCommandRequiresModel(t *testing.T) {
	_, err := runCommand(t, "suggest", "hello", "0", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--model")
}

func TestSuggestCommandRejectsBadIndices(t *testing.T) {
	path := testutil.WriteModelFile(t)
	_, err := runCommand(t, "suggest", "hello", "zero", "1", "--model", path)
	require.Error(t, err)
}

func TestClassifyCommand(t *testing.T) {
	path := testutil.WriteModelFile(t)

	out, err := runCommand(t, "classify", "reach me at 6502530000", "12", "22",
		"--model", path, "--output", "json")
	require.NoError(t, err)

	var result []struct {
		Collection string  `json:"collection"`
		Score      float32 `json:"score"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.NotEmpty(t, result)
	assert.Equal(t, "phone", result[0].Collection)
}

func TestClassifyCommandURLHint(t *testing.T) {
	path := testutil.WriteModelFile(t)

	out, err := runCommand(t, "classify", "example.com", "0", "11",
		"--model", path, "--url", "--output", "json")
	require.NoError(t, err)

	var result []struct {
		Collection string `json:"collection"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result, 1)
	assert.Equal(t, "url", result[0].Collection)
}

func TestAnnotateCommand(t *testing.T) {
	path := testutil.WriteModelFile(t)

	out, err := runCommand(t, "annotate", "mail a@bc.de now",
		"--model", path, "--output", "json")
	require.NoError(t, err)

	var annotations []struct {
		Span struct {
			First int `json:"First"`
			Last  int `json:"Last"`
		} `json:"span"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &annotations))
	assert.NotEmpty(t, annotations)
}

func TestInspectCommand(t *testing.T) {
	path := testutil.WriteModelFile(t)

	out, err := runCommand(t, "inspect", path, "--output", "json")
	require.NoError(t, err)

	var info struct {
		Version  int `json:"version"`
		Sections []struct {
			Tag string `json:"tag"`
		} `json:"sections"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, 1, info.Version)
	require.Len(t, info.Sections, 2)
	assert.Equal(t, "selection", info.Sections[0].Tag)
	assert.Equal(t, "sharing", info.Sections[1].Tag)
}

func TestInspectCommandBadImage(t *testing.T) {
	path := testutil.WriteModelFile(t)
	_, err := runCommand(t, "inspect", path+".missing", "--output", "json")
	require.Error(t, err)
}

func TestUnknownCommand(t *testing.T) {
	_, err := runCommand(t, "frobnicate")
	require.Error(t, err)
}
