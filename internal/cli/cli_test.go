package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"torus-life/internal/store"
	"torus-life/pkg/life"
)

const (
	blinkerVertical   = "◻◻◻◻◻\n◻◻◼◻◻\n◻◻◼◻◻\n◻◻◼◻◻\n◻◻◻◻◻\n"
	blinkerHorizontal = "◻◻◻◻◻\n◻◻◻◻◻\n◻◼◼◼◻\n◻◻◻◻◻\n◻◻◻◻◻\n"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := NewRootCommand()

	names := make([]string, 0, len(cmd.Commands()))
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"run", "show", "size", "history"} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{"verbose", "format", "config"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestRootCommandRejectsFormat(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"size", "--format", "xml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid format")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "bad", nil)))

	err := WrapExitError(ExitFailure, "run failed", store.ErrRunNotFound)
	assert.ErrorIs(t, err, store.ErrRunNotFound)
	assert.Equal(t, "run failed: run not found", err.Error())
}

func TestSizeCommand(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--viewport-width", "401", "--viewport-height", "201"}, "100x50 cells (401x201 pixels)\n"},
		{nil, "99x99 cells (397x397 pixels)\n"},
		{[]string{"--viewport-width", "2", "--viewport-height", "2"}, "1x1 cells (5x5 pixels)\n"},
	}
	for _, tt := range tests {
		buf := &bytes.Buffer{}
		cmd := NewSizeCommand(&RootOptions{Format: "text"})
		cmd.SetOut(buf)
		cmd.SetArgs(tt.args)

		require.NoError(t, cmd.Execute())
		assert.Equal(t, tt.want, buf.String(), "args %v", tt.args)
	}
}

func TestSizeCommandJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewSizeCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--viewport-width", "401", "--viewport-height", "201"})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string       `json:"status"`
		Data   GridSizeView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, GridSizeView{Width: 100, Height: 50, FrameWidth: 401, FrameHeight: 201}, resp.Data)
}

func TestShowPattern(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewShowCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--pattern", "blinker", "--width", "5", "--height", "5"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, blinkerVertical, buf.String())
}

func TestShowAfterTicks(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewShowCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"-p", "blinker", "--width", "5", "--height", "5", "--ticks", "1"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, blinkerHorizontal, buf.String())
}

func TestShowParams(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewShowCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"-p", "blinker", "--width", "5", "--height", "5", "--params"})

	require.NoError(t, cmd.Execute())
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, blinkerVertical))
	assert.Contains(t, out, "Population: 3")
}

func TestShowJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewShowCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"-p", "blinker", "--width", "5", "--height", "5", "--ticks", "2"})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string   `json:"status"`
		Data   GridView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, GridView{
		Width:      5,
		Height:     5,
		Generation: 2,
		Population: 3,
		Rows:       []string{".....", "..#..", "..#..", "..#..", "....."},
	}, resp.Data)
}

func TestShowYAMLLoadsBack(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewShowCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"-p", "blinker", "--width", "5", "--height", "5", "--ticks", "1", "--yaml"})
	require.NoError(t, cmd.Execute())

	file := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, os.WriteFile(file, buf.Bytes(), 0o644))

	out := &bytes.Buffer{}
	cmd = NewShowCommand(&RootOptions{Format: "text"})
	cmd.SetOut(out)
	cmd.SetArgs([]string{"-p", file, "--width", "5", "--height", "5"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, blinkerHorizontal, out.String())
}

func TestShowErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown pattern", []string{"-p", "no-such-pattern"}},
		{"pattern too big", []string{"-p", "toad", "--width", "3", "--height", "3"}},
		{"unknown seeder", []string{"--seeder", "dice"}},
		{"zero width", []string{"--width", "0"}},
		{"negative height", []string{"--height=-4"}},
		{"missing config", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &RootOptions{Format: "text"}
			if tt.name == "missing config" {
				opts.Config = filepath.Join(t.TempDir(), "absent.yaml")
			}
			cmd := NewShowCommand(opts)
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}

func TestShowConfigFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "life.yaml")
	require.NoError(t, os.WriteFile(file, []byte("life:\n  width: 5\n  height: 5\n  pattern: blinker\n"), 0o644))

	buf := &bytes.Buffer{}
	cmd := NewShowCommand(&RootOptions{Format: "text", Config: file})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--ticks", "1"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, blinkerHorizontal, buf.String())
}

func TestRunRejectsDimensions(t *testing.T) {
	for _, args := range [][]string{
		{"--width=-1"},
		{"--height", "0"},
		{"--width", "0", "--height", "0"},
	} {
		buf := &bytes.Buffer{}
		cmd := NewRunCommand(&RootOptions{Format: "text"})
		cmd.SetOut(buf)
		cmd.SetArgs(append(args, "--ticks", "1"))

		err := cmd.Execute()
		require.Error(t, err, "args %v", args)
		assert.ErrorIs(t, err, life.ErrInvalidSize)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Empty(t, buf.String())
	}
}

func TestRunPrintsFinalGeneration(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"-p", "blinker", "--width", "5", "--height", "5", "--ticks", "3"})

	require.NoError(t, cmd.Execute())
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, blinkerHorizontal))
	assert.Contains(t, out, "generation 3 of a 5x5 grid, population 3")
	assert.NotContains(t, out, "(run ")
}

func TestRunSizesStayPlain(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--width", "1200", "--height", "3", "--seed", "123456", "--ticks", "1", "-q", "--db", db})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "generation 1 of a 1200x3 grid, population ")

	buf.Reset()
	cmd = NewHistoryCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", db})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "  1200x3  seed 123456  rand\n")
}

func TestRunQuietJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--width", "8", "--height", "6", "--seed", "3", "--ticks", "10", "-q"})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string     `json:"status"`
		Data   RunSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 8, resp.Data.Width)
	assert.Equal(t, 6, resp.Data.Height)
	assert.Equal(t, uint64(10), resp.Data.Ticks)
	assert.False(t, resp.Data.Interrupted)
	assert.Empty(t, resp.Data.RunID)
	v, ok := resp.Data.Parameters.Lookup("generation")
	require.True(t, ok)
	assert.Equal(t, "10", v)
}

func TestRunWritesPNG(t *testing.T) {
	file := filepath.Join(t.TempDir(), "grid.png")
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"-p", "glider", "--width", "10", "--height", "6", "--ticks", "4", "--png", file})

	require.NoError(t, cmd.Execute())

	f, err := os.Open(file)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 41, img.Bounds().Dx())
	assert.Equal(t, 25, img.Bounds().Dy())
}

func TestRunRecordsHistory(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"-p", "blinker", "--width", "5", "--height", "5", "--ticks", "5", "--every", "2", "--db", db})
	require.NoError(t, cmd.Execute())

	var resp struct {
		Data RunSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	runID := resp.Data.RunID
	require.NotEmpty(t, runID)

	// history lists the run
	buf.Reset()
	cmd = NewHistoryCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", db})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), runID)
	assert.Contains(t, buf.String(), "5x5")
	assert.Contains(t, buf.String(), "pattern:blinker")

	// generations 0, 2, 4 and the final 5
	buf.Reset()
	cmd = NewHistoryCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", db, runID})
	require.NoError(t, cmd.Execute())
	var gens struct {
		Data []store.Generation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &gens))
	require.Len(t, gens.Data, 4)
	for i, want := range []uint64{0, 2, 4, 5} {
		assert.Equal(t, want, gens.Data[i].Generation)
		assert.Equal(t, 3, gens.Data[i].Population)
	}

	// a single snapshot
	buf.Reset()
	cmd = NewHistoryCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", db, runID, "--generation", "5"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, blinkerHorizontal, buf.String())
}

func TestHistoryErrors(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	cmd := NewHistoryCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--db", db, "missing-run"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrRunNotFound)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	cmd = NewHistoryCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	err = cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db")
}

func TestHistoryEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewHistoryCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", filepath.Join(t.TempDir(), "runs.db")})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "no runs recorded\n", buf.String())
}
