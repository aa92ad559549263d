/*
 * glassvm - an embeddable Java Virtual Machine
 * Copyright (c) 2026 by the glassvm authors. All rights reserved.
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package provider

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeClassFile(t *testing.T, dir, internalName string, content []byte) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(internalName)+".class")
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, content, 0o644))
}

func TestClasspathReadsFromDirectory(t *testing.T) {
	dir := t.TempDir()
	writeClassFile(t, dir, "com/example/Widget", []byte{0xCA, 0xFE, 0xBA, 0xBE, 1, 2, 3})

	cp, err := New(dir)
	require.NoError(t, err)
	defer cp.Close()

	got, err := cp.ReadClass("com/example/Widget")
	require.NoError(t, err)
	require.Equal(t, []byte{0xCA, 0xFE, 0xBA, 0xBE, 1, 2, 3}, got)
}

func TestClasspathReadsFromJar(t *testing.T) {
	dir := t.TempDir()
	jarPath := filepath.Join(dir, "lib.jar")
	f, err := os.Create(jarPath)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("com/example/Widget.class")
	require.NoError(t, err)
	_, err = w.Write([]byte{0xCA, 0xFE, 0xBA, 0xBE, 9, 9})
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	cp, err := New(jarPath)
	require.NoError(t, err)
	defer cp.Close()

	got, err := cp.ReadClass("com/example/Widget")
	require.NoError(t, err)
	require.Equal(t, []byte{0xCA, 0xFE, 0xBA, 0xBE, 9, 9}, got)
}

func TestClasspathSearchOrderFirstMatchWins(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeClassFile(t, dirA, "P", []byte{1})
	writeClassFile(t, dirB, "P", []byte{2})

	cp, err := New(dirA + string(os.PathListSeparator) + dirB)
	require.NoError(t, err)
	defer cp.Close()

	got, err := cp.ReadClass("P")
	require.NoError(t, err)
	require.Equal(t, []byte{1}, got)
}

func TestClasspathMissingClassError(t *testing.T) {
	cp, err := New(t.TempDir())
	require.NoError(t, err)
	defer cp.Close()

	_, err = cp.ReadClass("does/not/Exist")
	require.Error(t, err)
}
