package auditlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp:    testTime,
		RunID:        uuid.NewString(),
		File:         "chase-jan.pdf",
		Bank:         "Chase",
		Status:       StatusOK,
		Transactions: 42,
		Warnings:     1,
		DurationMs:   350,
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "audit")
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Chase", entries[0].Bank)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.File = "broken.pdf"
	e2.Status = StatusFailed
	e2.Error = "extracting text: malformed PDF, with comma"
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, StatusOK, entries[0].Status)
	assert.Equal(t, StatusFailed, entries[1].Status)
	assert.Equal(t, e2.Error, entries[1].Error)
}

func TestMarshalUnmarshal(t *testing.T) {
	e := testEntry()
	row := MarshalEntry(e)
	assert.Len(t, row, numFields)
	assert.Equal(t, "2025-01-15T10:30:00Z", row[colTimestamp])

	got, err := UnmarshalEntry(row)
	require.NoError(t, err)
	assert.True(t, e.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, e.RunID, got.RunID)
	assert.Equal(t, e.Transactions, got.Transactions)
	assert.Equal(t, e.Warnings, got.Warnings)
	assert.Equal(t, e.DurationMs, got.DurationMs)
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	_, err := UnmarshalEntry([]string{"one", "two"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 9 fields")

	row := MarshalEntry(testEntry())
	row[colTransactions] = "many"
	_, err = UnmarshalEntry(row)
	assert.Error(t, err)
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(Header+"\n"), 0o644))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, entries)
}
