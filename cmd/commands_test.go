package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"musescore/internal/config"
	"musescore/internal/scoring"
	"musescore/internal/watchlist"
)

// Every indicator column is constant, so each component normalizes to 50
// and the adjustment is 27.5 for every area. Scores then follow PCPI only:
// TX 50000 -> 703, TX 200000 -> 378, CA 20000 -> 850.
const areasCSV = `zip,state_id,city,COLI,TRF,PCPI,PTR,TR,RSF,Savings,lat,lng
75001,TX,Addison,100,0.2,50000,1.5,0.05,0.5,4000,32.96,-96.83
75002,TX,Allen,100,0.2,50000,1.5,0.05,0.5,4000,33.09,-96.64
75006,TX,Carrollton,100,0.2,50000,1.5,0.05,0.5,4000,32.96,-96.89
75205,TX,University Park,100,0.2,200000,1.5,0.05,0.5,4000,32.83,-96.79
90001,CA,Los Angeles,100,0.2,20000,1.5,0.05,0.5,4000,33.97,-118.25
90002,CA,Los Angeles,100,0.2,20000,1.5,0.05,0.5,4000,33.95,-118.25
`

func setupEnv(t *testing.T) (dataPath, watchPath string) {
	t.Helper()
	dir := t.TempDir()
	dataPath = filepath.Join(dir, "areas.csv")
	require.NoError(t, os.WriteFile(dataPath, []byte(areasCSV), 0o644))
	watchPath = filepath.Join(dir, "watchlist.txt")
	t.Setenv(config.EnvName("watchlist.path"), watchPath)
	t.Setenv(config.EnvName("log.level"), "error")
	return dataPath, watchPath
}

func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestScoreCommand(t *testing.T) {
	data, _ := setupEnv(t)

	out, err := runCmd(t, "", "score", "75001", "--agi", "60000", "--data", data)
	require.NoError(t, err)
	assert.Contains(t, out, "ZIP               : 75001")
	assert.Contains(t, out, "703")
	assert.Contains(t, out, scoring.LabelGood)
	assert.Contains(t, out, "[Good, AGI/PCPI 1.20]")

	out, err = runCmd(t, "", "score", " 75001 ", "--agi", "60000", "--data", data)
	require.NoError(t, err)
	assert.Contains(t, out, "ZIP               : 75001")
}

func TestScoreCommand_JSON(t *testing.T) {
	data, _ := setupEnv(t)

	out, err := runCmd(t, "", "score", "75001", "75205", "--agi", "60000", "--data", data, "--json")
	require.NoError(t, err)

	var results []scoring.Scored
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, 703, results[0].Result.FinalScore)
	assert.Equal(t, 378, results[1].Result.FinalScore)
	assert.Equal(t, scoring.LabelFinanciallyStressed, results[1].Result.Label)
}

func TestScoreCommand_Errors(t *testing.T) {
	data, _ := setupEnv(t)

	_, err := runCmd(t, "", "score", "75001", "--data", data)
	require.ErrorIs(t, err, scoring.ErrInvalidInput)
	assert.Equal(t, ExitNotFound, exitCode(err))

	_, err = runCmd(t, "", "score", "75001", "--agi", "5", "--data", data)
	assert.ErrorIs(t, err, scoring.ErrInvalidInput)

	_, err = runCmd(t, "", "score", "00000", "--agi", "60000", "--data", data)
	assert.ErrorIs(t, err, scoring.ErrNotFound)

	_, err = runCmd(t, "", "score", "75001", "--agi", "60000", "--data", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Equal(t, ExitError, exitCode(err))

	_, err = runCmd(t, "", "score", "--lat", "1", "--lng", "1", "--agi", "60000", "--data", data)
	assert.ErrorIs(t, err, scoring.ErrInvalidInput, "boundaries are not configured")
}

func TestScoreLoop(t *testing.T) {
	data, watch := setupEnv(t)

	out, err := runCmd(t, "00000\n75002\ny\n\n", "score", "--agi", "60000", "--data", data)
	require.NoError(t, err)
	assert.Contains(t, out, "No score for 00000")
	assert.Contains(t, out, "ZIP               : 75002")
	assert.Contains(t, out, "Added to watchlist.")

	saved, err := os.ReadFile(watch)
	require.NoError(t, err)
	assert.Equal(t, "75002\n", string(saved))
}

func TestScoresCommand(t *testing.T) {
	data, _ := setupEnv(t)

	out, err := runCmd(t, "", "scores", "--agi", "60000", "--data", data, "--json", "--sort", "score", "--state", "tx")
	require.NoError(t, err)

	var results []scoring.Scored
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 4)
	assert.Equal(t, "75001", results[0].Area.Zip, "stable sort keeps dataset order for ties")
	assert.Equal(t, "75205", results[3].Area.Zip)

	out, err = runCmd(t, "", "scores", "--agi", "60000", "--data", data, "--limit", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Scored 6 areas")
	assert.Contains(t, out, "75002")
	assert.NotContains(t, out, "75006")

	_, err = runCmd(t, "", "scores", "--agi", "60000", "--data", data, "--sort", "price")
	assert.ErrorIs(t, err, scoring.ErrInvalidInput)
}

func TestFilterCommand(t *testing.T) {
	data, _ := setupEnv(t)

	out, err := runCmd(t, "", "filter", "--label", "excellent", "--agi", "60000", "--data", data)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 2 'excellent' areas")
	assert.Contains(t, out, "90001")
	assert.NotContains(t, out, "75001")

	_, err = runCmd(t, "", "filter", "--agi", "60000", "--data", data)
	assert.ErrorIs(t, err, scoring.ErrInvalidInput)
}

func TestRegionsCommand(t *testing.T) {
	data, _ := setupEnv(t)

	out, err := runCmd(t, "", "regions", "--agi", "60000", "--data", data, "--json")
	require.NoError(t, err)

	var got struct {
		Summaries []scoring.RegionSummary `json:"summaries"`
		Means     map[string]float64      `json:"means"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.InDelta(t, 621.75, got.Means["TX"], 1e-9)
	assert.InDelta(t, 850, got.Means["CA"], 1e-9)
	require.Len(t, got.Summaries, 2)

	out, err = runCmd(t, "", "regions", "--agi", "60000", "--data", data, "--selected", "ca")
	require.NoError(t, err)
	assert.Contains(t, out, colorGreen+"CA")
	assert.Contains(t, out, "TX     |      4 |   621.8 |  378 |  703")
}

func TestChartCommand(t *testing.T) {
	data, _ := setupEnv(t)
	path := filepath.Join(t.TempDir(), "regions.svg")

	out, err := runCmd(t, "", "chart", "--agi", "60000", "--data", data, "-o", path, "--selected", "TX")
	require.NoError(t, err)
	assert.Contains(t, out, "Chart written to "+path)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "<svg")
}

func TestOutliersCommand(t *testing.T) {
	data, _ := setupEnv(t)

	out, err := runCmd(t, "", "outliers", "--agi", "60000", "--data", data)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 low outliers")
	assert.Contains(t, out, "75205")
	assert.Contains(t, out, "n=4")

	out, err = runCmd(t, "", "outliers", "--agi", "60000", "--data", data, "--min-group", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 0 low outliers")
}

func TestNearbyCommand(t *testing.T) {
	data, _ := setupEnv(t)

	out, err := runCmd(t, "", "nearby", "75001", "--miles", "10", "--agi", "60000", "--data", data)
	require.NoError(t, err)
	assert.Contains(t, out, "75006")
	assert.Contains(t, out, "75205")
	assert.NotContains(t, out, "90001")
	assert.Contains(t, out, "Dist:")

	out, err = runCmd(t, "", "nearby", "75001 ", "--agi", "60000", "--data", data)
	require.NoError(t, err)
	assert.Contains(t, out, "miles of 75001\n")

	_, err = runCmd(t, "", "nearby", "00000", "--agi", "60000", "--data", data)
	assert.ErrorIs(t, err, scoring.ErrNotFound)

	_, err = runCmd(t, "", "nearby", "75001", "--miles", "0", "--agi", "60000", "--data", data)
	assert.ErrorIs(t, err, scoring.ErrInvalidInput)
}

func TestWatchCommands(t *testing.T) {
	data, watch := setupEnv(t)

	out, err := runCmd(t, "", "watch", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "No ZIP codes watched yet")

	out, err = runCmd(t, "", "watch", "add", "75001", "90001", "75001")
	require.NoError(t, err)
	assert.Contains(t, out, "Watching 75001")
	assert.Contains(t, out, "75001 is already watched")

	_, err = runCmd(t, "", "watch", "add", "not a zip")
	assert.ErrorIs(t, err, watchlist.ErrInvalidZip)

	out, err = runCmd(t, "", "watch", "ls")
	require.NoError(t, err)
	assert.Equal(t, "75001\n90001\n", out)

	out, err = runCmd(t, "", "watch", "ls", "--agi", "60000", "--data", data)
	require.NoError(t, err)
	assert.Contains(t, out, "703")
	assert.Contains(t, out, "850")

	out, err = runCmd(t, "", "watch", "rm", "90001", "12345")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 90001")
	assert.Contains(t, out, "12345 was not watched")

	saved, err := os.ReadFile(watch)
	require.NoError(t, err)
	assert.Equal(t, "75001\n", string(saved))
}

func TestServe(t *testing.T) {
	data, _ := setupEnv(t)

	a := &app{dataPath: data}
	require.NoError(t, a.setup())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/api/v1/areas/75001/score?agi=60000"
	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(url)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Result scoring.ScoreResult `json:"result"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 703, body.Result.FinalScore)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestBandsCommand(t *testing.T) {
	setupEnv(t)

	out, err := runCmd(t, "", "bands", "--json")
	require.NoError(t, err)
	var rows []bandRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 10)
	assert.Equal(t, 0.0, rows[0].From)
	require.NotNil(t, rows[0].Below)
	assert.Equal(t, 0.6, *rows[0].Below)
	assert.Equal(t, 2.5, rows[9].From)
	assert.Nil(t, rows[9].Below)
	assert.Equal(t, 850, rows[9].Base)

	out, err = runCmd(t, "", "bands", "--agi", "80000", "--pcpi", "80000")
	require.NoError(t, err)
	assert.Contains(t, out, "AGI/PCPI ratio 1.00")
	assert.Contains(t, out, colorGreen+"1.0 - 1.2     |  600 | Stable/Near Stable")
	assert.Contains(t, out, "2.5 +         |  850 | Top Performer")

	_, err = runCmd(t, "", "bands", "--agi", "80000")
	assert.ErrorIs(t, err, scoring.ErrInvalidInput)
}
