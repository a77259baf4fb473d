package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/courseflow/courseflow/internal/app"
	_ "github.com/courseflow/courseflow/testing"
)

func TestMainReturnsInTestMode(t *testing.T) {
	require.True(t, app.InTestMode())
	require.NotPanics(t, main)
}
