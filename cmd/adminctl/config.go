package main

import (
	"encoding/json"
	"os"
	"path"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

// sessionConfig is the persisted session: where the API lives and the token
// obtained at login.
type sessionConfig struct {
	APIAddress string `json:"apiAddress"`
	Token      string `json:"token"`
}

func getConfig() (*sessionConfig, error) {
	configFile, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	configBytes, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, errors.Errorf(
			"no session was found at %s; please use `adminctl login` to continue",
			configFile,
		)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "error reading session file at %s", configFile)
	}

	config := &sessionConfig{}
	if err := json.Unmarshal(configBytes, config); err != nil {
		return nil, errors.Wrapf(err, "error parsing session file at %s", configFile)
	}
	return config, nil
}

func saveConfig(config *sessionConfig) error {
	home, err := getAdmindeskHome()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(home, 0o755); err != nil {
		return errors.Wrapf(err, "error creating %s", home)
	}

	configBytes, err := json.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "error marshaling session")
	}
	configFile := path.Join(home, "session")
	if err := os.WriteFile(configFile, configBytes, 0o600); err != nil {
		return errors.Wrapf(err, "error writing to %s", configFile)
	}
	return nil
}

func deleteConfig() error {
	configFile, err := getConfigPath()
	if err != nil {
		return err
	}
	if err := os.Remove(configFile); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "error deleting session")
	}
	return nil
}

func getConfigPath() (string, error) {
	home, err := getAdmindeskHome()
	if err != nil {
		return "", err
	}
	return path.Join(home, "session"), nil
}

func getAdmindeskHome() (string, error) {
	homeDir, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "error locating user's home directory")
	}
	return path.Join(homeDir, ".admindesk"), nil
}
