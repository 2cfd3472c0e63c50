package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nicobailon/debugdeck/internal/config"
	"github.com/nicobailon/debugdeck/internal/panels"
	"github.com/nicobailon/debugdeck/internal/registry"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServices(t *testing.T) *services {
	t.Helper()
	cfg := &config.Config{
		FrameRate:          30,
		FPSRefreshInterval: 500 * time.Millisecond,
		CloseLabel:         "Close",
		ConsoleCapacity:    50,
		FailFast:           true,
	}
	console := panels.NewConsole(cfg.ConsoleCapacity)
	sampler := panels.NewFPSSampler(cfg.FPSRefreshInterval)
	reg := buildRegistry(console, sampler, cfg)
	return &services{cfg: cfg, log: zerolog.New(console), reg: reg, sampler: sampler}
}

func TestListPrintsTree(t *testing.T) {
	svc := testServices(t)
	var out bytes.Buffer
	require.NoError(t, listAction(&out, svc.reg))
	want := strings.Join([]string{
		"Console",
		"Profiler/",
		"  FPS",
		"  Memory",
		"Information/",
		"  System",
	}, "\n") + "\n"
	assert.Equal(t, want, out.String())
}

func TestShowRendersSelectedPanel(t *testing.T) {
	svc := testServices(t)
	var out bytes.Buffer
	require.NoError(t, showAction(&out, svc, "Information/System", 60, 10))
	s := out.String()
	assert.Contains(t, s, "Information › System")
	assert.Contains(t, s, "Close")
	assert.Contains(t, s, "GOMAXPROCS")
}

func TestShowGroupDrawsItsSelection(t *testing.T) {
	svc := testServices(t)
	var out bytes.Buffer
	require.NoError(t, showAction(&out, svc, "Profiler", 60, 10))
	assert.Contains(t, out.String(), "Profiler › FPS")
}

func TestShowUnknownPathSuggests(t *testing.T) {
	svc := testServices(t)
	var out bytes.Buffer
	err := showAction(&out, svc, "Profiler/Memroy", 60, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrNotFound))
	assert.Contains(t, err.Error(), "Profiler/Memory")
	assert.Empty(t, out.String())
}

func TestSeedDemoFillsConsole(t *testing.T) {
	console := panels.NewConsole(10)
	seedDemo(zerolog.New(console).Level(zerolog.InfoLevel))
	info, warn, errs := console.Counts()
	assert.Equal(t, 2, info)
	assert.Equal(t, 1, warn)
	assert.Equal(t, 1, errs)
}
