package game

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ultraselfai/game-provider-sub000/internal/domain"
)

const validTableJSON = `{
	"game_id": "test-game",
	"rows": 2,
	"cols": 3,
	"lines": 2,
	"wins": [
		{
			"grid": [1, 1, 1, 2, 3, 4],
			"winning_lines": [
				{"line_index": 0, "symbol_id": 1, "match_count": 3, "base_payout_units": 2, "cells": [0, 1, 2]}
			],
			"multiplier_units": 2,
			"base_payout_units": 2
		}
	],
	"losses": [
		{"grid": [1, 2, 3, 4, 5, 6], "winning_lines": [], "multiplier_units": 0, "base_payout_units": 0}
	]
}`

func writeTable(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestNewRegistryLoadsTables(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "test-game.json", validTableJSON)

	r, err := NewRegistry(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"test-game"}, r.GameIDs())

	table, err := r.Get(context.Background(), "test-game")
	require.NoError(t, err)
	assert.Equal(t, "test-game", table.GameID)
	assert.Len(t, table.Wins, 1)
	assert.Len(t, table.Losses, 1)
}

func TestNewRegistrySkipsNonJSONFiles(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "test-game.json", validTableJSON)
	writeTable(t, dir, "README.md", "not a table")

	r, err := NewRegistry(dir)
	require.NoError(t, err)
	assert.Len(t, r.GameIDs(), 1)
}

func TestNewRegistryRejectsInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "broken.json", "{not json")

	_, err := NewRegistry(dir)
	assert.Error(t, err)
}

func TestNewRegistryRejectsBadGridShape(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "bad.json", `{
		"game_id": "bad",
		"rows": 2,
		"cols": 3,
		"lines": 1,
		"wins": [],
		"losses": [
			{"grid": [1, 2, 3], "winning_lines": [], "multiplier_units": 0, "base_payout_units": 0}
		]
	}`)

	_, err := NewRegistry(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTable)
}

func TestNewRegistryRejectsPayinglessWin(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "bad.json", `{
		"game_id": "bad",
		"rows": 1,
		"cols": 3,
		"lines": 1,
		"wins": [
			{"grid": [1, 1, 1], "winning_lines": [], "multiplier_units": 0, "base_payout_units": 0}
		],
		"losses": []
	}`)

	_, err := NewRegistry(dir)
	require.Error(t, err)
}

func TestNewRegistryRejectsPayingLoss(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "bad.json", `{
		"game_id": "bad",
		"rows": 1,
		"cols": 3,
		"lines": 1,
		"wins": [],
		"losses": [
			{"grid": [1, 2, 3], "winning_lines": [], "multiplier_units": 0, "base_payout_units": 5}
		]
	}`)

	_, err := NewRegistry(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTable)
}

func TestNewRegistryRejectsEmptyTable(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "empty.json", `{
		"game_id": "empty",
		"rows": 1,
		"cols": 3,
		"lines": 1,
		"wins": [],
		"losses": []
	}`)

	_, err := NewRegistry(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmptyOutcomeTable)
}

func TestGetUnknownGame(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "test-game.json", validTableJSON)

	r, err := NewRegistry(dir)
	require.NoError(t, err)

	_, err = r.Get(context.Background(), "no-such-game")
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
}

func TestNewRegistryMissingDir(t *testing.T) {
	_, err := NewRegistry(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
