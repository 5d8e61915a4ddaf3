package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliResume = `John Smith
john.smith@example.com | 555-987-6543

EXPERIENCE
Data Analyst, Northwind, 2019 - 2023
Analyzed sales data with SQL and Python and improved forecast accuracy by 25%.

EDUCATION
B.A. Statistics, City College, 2018
`

func TestReadJobDescription(t *testing.T) {
	v, err := readJobDescription("plain text")
	require.NoError(t, err)
	assert.Equal(t, "plain text", v)

	path := filepath.Join(t.TempDir(), "jd.txt")
	require.NoError(t, os.WriteFile(path, []byte("SQL and Tableau"), 0644))
	v, err = readJobDescription("@" + path)
	require.NoError(t, err)
	assert.Equal(t, "SQL and Tableau", v)

	_, err = readJobDescription("@/does/not/exist")
	assert.Error(t, err)
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	resume := filepath.Join(dir, "john.txt")
	require.NoError(t, os.WriteFile(resume, []byte(cliResume), 0644))

	t.Run("extract", func(t *testing.T) {
		out := filepath.Join(dir, "extract.json")
		rootCmd.SetArgs([]string{"extract", resume, "--engine", "native", "--maxlen", "10", "-o", out})
		require.NoError(t, rootCmd.Execute())

		var res extractResult
		data, err := os.ReadFile(out)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, &res))
		assert.Equal(t, ".txt", res.Format)
		assert.True(t, res.Truncated)
		assert.Equal(t, "John Smith", res.Text)
	})

	t.Run("ats", func(t *testing.T) {
		out := filepath.Join(dir, "ats.json")
		rootCmd.SetArgs([]string{"ats", resume, "--engine", "native", "--job-description", "SQL Tableau", "-o", out})
		require.NoError(t, rootCmd.Execute())

		var res map[string]any
		data, err := os.ReadFile(out)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, &res))
		assert.Equal(t, "ats", res["mode"])
		assert.Contains(t, res, "ats_score")
		assert.Contains(t, res, "job_description_match")
	})

	t.Run("unsupported", func(t *testing.T) {
		bad := filepath.Join(dir, "john.exe")
		require.NoError(t, os.WriteFile(bad, []byte("MZ"), 0644))
		rootCmd.SetArgs([]string{"analyze", bad, "--engine", "native"})
		assert.Error(t, rootCmd.Execute())
	})
}
