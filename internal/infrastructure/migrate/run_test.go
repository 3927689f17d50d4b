package migrate

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	version uint
	target  uint
	dirty   bool
	upErr   error
	ups     int
}

func (f *fakeRunner) Up() error {
	f.ups++
	if f.upErr != nil {
		return f.upErr
	}
	if f.version == f.target {
		return migrate.ErrNoChange
	}
	f.version = f.target
	return nil
}

func (f *fakeRunner) Version() (uint, bool, error) {
	if f.version == 0 && !f.dirty {
		return 0, false, migrate.ErrNilVersion
	}
	return f.version, f.dirty, nil
}

func TestApplyFromEmptyDatabase(t *testing.T) {
	r := &fakeRunner{target: RequiredVersion}
	require.NoError(t, apply(r, slog.Default()))
	assert.Equal(t, RequiredVersion, r.version)
}

func TestApplyNoChange(t *testing.T) {
	r := &fakeRunner{version: RequiredVersion, target: RequiredVersion}
	require.NoError(t, apply(r, slog.Default()))
	assert.Equal(t, 1, r.ups)
}

func TestApplyRefusesDirtySchema(t *testing.T) {
	r := &fakeRunner{version: 2, target: RequiredVersion, dirty: true}
	err := apply(r, slog.Default())
	assert.ErrorIs(t, err, ErrDirtySchema)
	assert.Contains(t, err.Error(), "version 2")
	assert.Zero(t, r.ups)
}

func TestApplyRejectsOldSchema(t *testing.T) {
	r := &fakeRunner{target: RequiredVersion - 1}
	err := apply(r, slog.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "older than required")
}

func TestApplyUpFailure(t *testing.T) {
	boom := errors.New("syntax error at or near")
	r := &fakeRunner{version: 1, target: RequiredVersion, upErr: boom}
	err := apply(r, slog.Default())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "from version 1")
}
