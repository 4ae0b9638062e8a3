package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAcceptsDefault(t *testing.T) {
	assert.NoError(t, Validate(Default()))
}

func TestValidateRejectsZeroHostWorkers(t *testing.T) {
	cfg := Default()
	cfg.Workers.Host = 0
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsUnknownStorageDriver(t *testing.T) {
	cfg := Default()
	cfg.Storage.Driver = "oracle"
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := Default()
	cfg.API.Port = 70000
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsNilConfig(t *testing.T) {
	assert.Error(t, Validate(nil))
}
